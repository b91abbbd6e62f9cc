// Package admin interprets control commands sent to the bot by admins in private chats
package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newscast/pkg/domain"
	"github.com/umputun/newscast/pkg/format"
	"github.com/umputun/newscast/pkg/scheduler"
)

//go:generate moq -out mocks/controller.go -pkg mocks -skip-ensure -fmt goimports . Controller
//go:generate moq -out mocks/replier.go -pkg mocks -skip-ensure -fmt goimports . Replier

// Controller is the scheduler side of admin commands
type Controller interface {
	Status() domain.Status
	Pause()
	Resume()
	SetInterval(d time.Duration) error
	RunNow(ctx context.Context) int
}

// Replier sends the answer back to the admin
type Replier interface {
	SendText(ctx context.Context, chatID, text string, kb domain.Keyboard) (int64, error)
}

// refusal is the reply to anyone outside the admin list
const refusal = "⛔ You are not allowed to control this bot."

// Params defines interpreter dependencies
type Params struct {
	Controller Controller
	Replier    Replier
	Formatter  *format.Formatter
	Admins     []int64
}

// Interpreter executes admin commands
type Interpreter struct {
	ctrl      Controller
	replier   Replier
	formatter *format.Formatter
	admins    map[int64]struct{}
	now       func() time.Time
}

// New makes an Interpreter. The admin list is fixed for its lifetime.
func New(p Params) *Interpreter {
	if p.Formatter == nil {
		p.Formatter = format.New(format.Options{})
	}
	admins := make(map[int64]struct{}, len(p.Admins))
	for _, id := range p.Admins {
		admins[id] = struct{}{}
	}
	return &Interpreter{ctrl: p.Controller, replier: p.Replier, formatter: p.Formatter, admins: admins, now: time.Now}
}

// IsAdmin reports whether id may issue commands
func (i *Interpreter) IsAdmin(id int64) bool {
	_, ok := i.admins[id]
	return ok
}

// Handle authorizes the operator, runs the command and sends exactly one reply to chatID.
// Returns the reply error, command failures are reported in the reply itself.
func (i *Interpreter) Handle(ctx context.Context, operatorID, chatID int64, text string) error {
	var reply string
	var kb domain.Keyboard
	if i.IsAdmin(operatorID) {
		cmd := Parse(text)
		lgr.Printf("[INFO] admin %d command %s", operatorID, cmd.Kind)
		reply, kb = i.execute(ctx, cmd, operatorID)
	} else {
		lgr.Printf("[WARN] refused command from non-admin %d", operatorID)
		reply = refusal
	}

	if _, err := i.replier.SendText(ctx, strconv.FormatInt(chatID, 10), reply, kb); err != nil {
		return fmt.Errorf("reply to %d: %w", chatID, err)
	}
	return nil
}

func (i *Interpreter) execute(ctx context.Context, cmd Command, operatorID int64) (string, domain.Keyboard) {
	switch cmd.Kind {
	case KindMenu:
		return i.formatter.Menu(i.ctrl.Status().Paused)
	case KindStatus:
		return i.formatter.Status(i.ctrl.Status(), i.now()), nil
	case KindPost:
		n := i.ctrl.RunNow(ctx)
		return fmt.Sprintf("✅ News cycle complete, posted %d.", n), nil
	case KindPause:
		i.ctrl.Pause()
		return "⏸ Auto posting paused.", nil
	case KindResume:
		i.ctrl.Resume()
		return "▶ Auto posting resumed.", nil
	case KindID:
		return fmt.Sprintf("🆔 Your Telegram ID: <code>%d</code>", operatorID), nil
	case KindInterval:
		return i.setInterval(cmd.Minutes), nil
	default:
		text, kb := i.formatter.Menu(i.ctrl.Status().Paused)
		return "❓ Unknown command, here are the options:\n\n" + text, kb
	}
}

func (i *Interpreter) setInterval(minutes int) string {
	st := i.ctrl.Status()
	lo, hi := int(st.MinInterval/time.Minute), int(st.MaxInterval/time.Minute)
	if minutes <= 0 {
		return fmt.Sprintf("Usage: <code>interval N</code>, N minutes between %d and %d.", lo, hi)
	}

	err := i.ctrl.SetInterval(time.Duration(minutes) * time.Minute)
	switch {
	case err == nil:
		return fmt.Sprintf("⏱ Interval set to %d min.", minutes)
	case errors.Is(err, scheduler.ErrIntervalOutOfRange):
		return fmt.Sprintf("❌ Interval must be between %d and %d minutes, unchanged.", lo, hi)
	default:
		return fmt.Sprintf("❌ Can't set interval: %v", err)
	}
}
