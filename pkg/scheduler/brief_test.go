package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newscast/pkg/domain"
	"github.com/umputun/newscast/pkg/llm"
)

var kolkata = time.FixedZone("IST", 5*3600+1800)

func TestNewBrief(t *testing.T) {
	b, err := newBrief(BriefParams{Name: "morning", Spec: "0 9 * * *"})
	require.NoError(t, err)
	assert.Equal(t, BriefText, b.Kind)
	assert.Equal(t, time.Hour, b.Window)

	_, err = newBrief(BriefParams{Name: "bad", Spec: "at nine"})
	require.Error(t, err)

	_, err = newBrief(BriefParams{Name: "poll", Spec: "0 12 * * *", Kind: BriefPoll, Question: "Q?", Options: []string{"one"}})
	require.Error(t, err)

	_, err = newBrief(BriefParams{Name: "video", Spec: "0 12 * * *", Kind: "video"})
	require.Error(t, err)
}

func TestBrief_DueAt(t *testing.T) {
	b, err := newBrief(BriefParams{Name: "morning", Spec: "0 9 * * *", Window: time.Hour})
	require.NoError(t, err)

	day := func(h, m int) time.Time { return time.Date(2024, 3, 5, h, m, 0, 0, kolkata) }
	tbl := []struct {
		at   time.Time
		want bool
	}{
		{day(8, 59), false},
		{day(9, 0), true},
		{day(9, 30), true},
		{day(9, 59), true},
		{day(10, 0), false},
		{day(23, 0), false},
	}
	for _, tt := range tbl {
		assert.Equal(t, tt.want, b.dueAt(tt.at), "at %v", tt.at)
	}

	twice, err := newBrief(BriefParams{Name: "twice", Spec: "0 9,21 * * *", Window: 30 * time.Minute})
	require.NoError(t, err)
	assert.True(t, twice.dueAt(day(21, 10)))
	assert.False(t, twice.dueAt(day(12, 0)))
}

func TestScheduler_RunBriefs(t *testing.T) {
	env := newTestEnv(t, nil, okSender(), func(p *Params) {
		p.Location = kolkata
		p.Briefs = []BriefParams{
			{Name: "morning", Spec: "0 9 * * *", Title: "Morning Global Brief", Body: "Good morning!"},
			{Name: "vote", Spec: "0 12 * * *", Kind: BriefPoll, Question: "Top story?", Options: []string{"a", "b"}},
		}
	})
	s := env.sched
	ctx := context.Background()
	s.Pause() // briefs are not gated by pause

	morning := time.Date(2024, 3, 5, 9, 0, 10, 0, kolkata)
	require.NoError(t, env.history.Record(ctx, domain.Delivery{EntryID: "x", Title: "Quake hits Tokyo",
		Status: domain.DeliverySent, CreatedAt: morning.Add(-2 * time.Hour)}))
	require.NoError(t, env.history.Record(ctx, domain.Delivery{EntryID: "y", Title: "Failed one",
		Status: domain.DeliveryFailed, CreatedAt: morning.Add(-time.Hour)}))
	require.NoError(t, env.history.Record(ctx, domain.Delivery{EntryID: "z", Title: "Too old",
		Status: domain.DeliverySent, CreatedAt: morning.Add(-13 * time.Hour)}))

	s.runBriefs(ctx, morning.UTC())
	require.Len(t, env.sender.SendTextCalls(), 1)
	text := env.sender.SendTextCalls()[0].Text
	assert.Contains(t, text, "<b>Morning Global Brief</b>")
	assert.Contains(t, text, "05 Mar 2024")
	assert.Contains(t, text, "Good morning!")
	assert.Contains(t, text, "summary of Morning Global Brief")

	reqs := env.summ.SummarizeCalls()
	require.Len(t, reqs, 1)
	assert.Equal(t, llm.ModeDigest, reqs[0].Req.Mode)
	assert.Equal(t, "- Quake hits Tokyo", reqs[0].Req.Description)

	s.runBriefs(ctx, morning.Add(20*time.Minute))
	assert.Len(t, env.sender.SendTextCalls(), 1, "one brief per date")

	s.runBriefs(ctx, time.Date(2024, 3, 5, 12, 5, 0, 0, kolkata))
	require.Len(t, env.sender.SendPollCalls(), 1)
	assert.Equal(t, "Top story?", env.sender.SendPollCalls()[0].Question)

	s.runBriefs(ctx, time.Date(2024, 3, 6, 9, 1, 0, 0, kolkata))
	assert.Len(t, env.sender.SendTextCalls(), 2, "next day fires again")
}

func TestScheduler_BriefWithoutHistory(t *testing.T) {
	env := newTestEnv(t, nil, okSender(), func(p *Params) {
		p.Location = kolkata
		p.Briefs = []BriefParams{{Name: "night", Spec: "0 22 * * *", Title: "Night Global Brief"}}
	})

	env.sched.runBriefs(context.Background(), time.Date(2024, 3, 5, 22, 30, 0, 0, kolkata))
	require.Len(t, env.sender.SendTextCalls(), 1)
	assert.Empty(t, env.summ.SummarizeCalls(), "no headlines, no digest")
}

func TestScheduler_BriefFailureMarksSent(t *testing.T) {
	sender := okSender()
	sender.SendTextFunc = func(context.Context, string, string, domain.Keyboard) (int64, error) {
		return 0, errors.New("forbidden")
	}
	env := newTestEnv(t, nil, sender, func(p *Params) {
		p.Location = kolkata
		p.Briefs = []BriefParams{{Name: "morning", Spec: "0 9 * * *", Title: "Morning"}}
	})

	at := time.Date(2024, 3, 5, 9, 5, 0, 0, kolkata)
	env.sched.runBriefs(context.Background(), at)
	env.sched.runBriefs(context.Background(), at.Add(time.Minute))
	assert.Len(t, sender.SendTextCalls(), 1, "failed brief is not repeated the same day")
	assert.Contains(t, env.state.Status().LastError, "brief morning")
}
