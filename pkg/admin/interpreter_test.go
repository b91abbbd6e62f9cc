package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newscast/pkg/admin/mocks"
	"github.com/umputun/newscast/pkg/domain"
	"github.com/umputun/newscast/pkg/scheduler"
)

type testEnv struct {
	interp  *Interpreter
	state   *scheduler.State
	ctrl    *mocks.ControllerMock
	replier *mocks.ReplierMock
}

func newTestEnv(admins ...int64) *testEnv {
	state := scheduler.NewState(30*time.Minute, 5*time.Minute, 180*time.Minute)
	ctrl := &mocks.ControllerMock{
		StatusFunc:      state.Status,
		PauseFunc:       state.Pause,
		ResumeFunc:      state.Resume,
		SetIntervalFunc: state.SetInterval,
		RunNowFunc:      func(context.Context) int { return 2 },
	}
	replier := &mocks.ReplierMock{SendTextFunc: func(context.Context, string, string, domain.Keyboard) (int64, error) {
		return 1, nil
	}}
	interp := New(Params{Controller: ctrl, Replier: replier, Admins: admins})
	interp.now = func() time.Time { return time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC) }
	return &testEnv{interp: interp, state: state, ctrl: ctrl, replier: replier}
}

func (e *testEnv) lastReply(t *testing.T) string {
	t.Helper()
	calls := e.replier.SendTextCalls()
	require.NotEmpty(t, calls)
	return calls[len(calls)-1].Text
}

func TestInterpreter_Unauthorized(t *testing.T) {
	env := newTestEnv(100)

	for _, text := range []string{"pause", "interval 10", "post", "resume", "status", "garbage"} {
		require.NoError(t, env.interp.Handle(context.Background(), 999, 999, text))
		assert.Equal(t, refusal, env.lastReply(t))
	}

	assert.Len(t, env.replier.SendTextCalls(), 6, "one reply per message")
	assert.Empty(t, env.ctrl.PauseCalls())
	assert.Empty(t, env.ctrl.ResumeCalls())
	assert.Empty(t, env.ctrl.SetIntervalCalls())
	assert.Empty(t, env.ctrl.RunNowCalls())
	assert.Empty(t, env.ctrl.StatusCalls())
	assert.Equal(t, 30*time.Minute, env.state.Status().Interval)
	assert.False(t, env.state.Status().Paused)
}

func TestInterpreter_Commands(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(100, 200)

	require.NoError(t, env.interp.Handle(ctx, 100, 555, "pause"))
	assert.True(t, env.state.Paused())
	assert.Contains(t, env.lastReply(t), "paused")
	assert.Equal(t, "555", env.replier.SendTextCalls()[0].ChatID)

	require.NoError(t, env.interp.Handle(ctx, 200, 556, "RESUME"))
	assert.False(t, env.state.Paused())
	assert.Contains(t, env.lastReply(t), "resumed")

	require.NoError(t, env.interp.Handle(ctx, 100, 555, "interval 15"))
	assert.Equal(t, 15*time.Minute, env.state.Status().Interval)
	assert.Contains(t, env.lastReply(t), "15 min")

	require.NoError(t, env.interp.Handle(ctx, 100, 555, "post now"))
	assert.Len(t, env.ctrl.RunNowCalls(), 1)
	assert.Contains(t, env.lastReply(t), "posted 2")

	require.NoError(t, env.interp.Handle(ctx, 100, 555, "id"))
	assert.Equal(t, "🆔 Your Telegram ID: <code>100</code>", env.lastReply(t))

	require.NoError(t, env.interp.Handle(ctx, 100, 555, "status"))
	assert.Contains(t, env.lastReply(t), "Interval: 15 min")
	assert.Contains(t, env.lastReply(t), "Total posts: 0")

	assert.Len(t, env.replier.SendTextCalls(), 6, "one reply per message")
}

func TestInterpreter_IntervalOutOfRange(t *testing.T) {
	env := newTestEnv(100)

	require.NoError(t, env.interp.Handle(context.Background(), 100, 100, "interval 4"))
	assert.Equal(t, 30*time.Minute, env.state.Status().Interval, "interval unchanged")
	reply := env.lastReply(t)
	assert.Contains(t, reply, "5")
	assert.Contains(t, reply, "180")

	require.NoError(t, env.interp.Handle(context.Background(), 100, 100, "interval 99999999999"))
	assert.Equal(t, 30*time.Minute, env.state.Status().Interval)

	require.NoError(t, env.interp.Handle(context.Background(), 100, 100, "interval soon"))
	assert.Contains(t, env.lastReply(t), "Usage")
	assert.Len(t, env.ctrl.SetIntervalCalls(), 2, "unparsable value never reaches the controller")
}

func TestInterpreter_IntervalOtherError(t *testing.T) {
	env := newTestEnv(100)
	env.ctrl.SetIntervalFunc = func(time.Duration) error { return errors.New("locked") }
	require.NoError(t, env.interp.Handle(context.Background(), 100, 100, "interval 10"))
	assert.Contains(t, env.lastReply(t), "locked")
}

func TestInterpreter_MenuAndUnknown(t *testing.T) {
	env := newTestEnv(100)

	require.NoError(t, env.interp.Handle(context.Background(), 100, 100, "/start"))
	call := env.replier.SendTextCalls()[0]
	assert.Contains(t, call.Text, "Control Panel")
	assert.False(t, call.Kb.Empty(), "menu carries callback buttons")

	require.NoError(t, env.interp.Handle(context.Background(), 100, 100, "what's up"))
	call = env.replier.SendTextCalls()[1]
	assert.Contains(t, call.Text, "Unknown command")
	assert.Contains(t, call.Text, "Control Panel")
	assert.Len(t, env.replier.SendTextCalls(), 2, "unknown input gets exactly one reply")
}

func TestInterpreter_ReplyError(t *testing.T) {
	env := newTestEnv(100)
	env.replier.SendTextFunc = func(context.Context, string, string, domain.Keyboard) (int64, error) {
		return 0, errors.New("blocked by user")
	}
	err := env.interp.Handle(context.Background(), 100, 100, "pause")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked by user")
	assert.True(t, env.state.Paused(), "command applies even when the reply fails")
}

func TestInterpreter_IsAdmin(t *testing.T) {
	env := newTestEnv(1, 2)
	assert.True(t, env.interp.IsAdmin(1))
	assert.True(t, env.interp.IsAdmin(2))
	assert.False(t, env.interp.IsAdmin(3))
	assert.False(t, newTestEnv().interp.IsAdmin(0))
}
