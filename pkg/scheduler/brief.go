package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"

	"github.com/umputun/newscast/pkg/domain"
	"github.com/umputun/newscast/pkg/llm"
)

// brief kinds
const (
	BriefText = "brief"
	BriefPoll = "poll"
)

const (
	digestLookback  = 12 * time.Hour
	digestHeadlines = 20
)

// BriefParams defines one daily broadcast
type BriefParams struct {
	Name     string
	Spec     string        // cron expression, evaluated in the scheduler location
	Window   time.Duration // how long after the fire time the brief may still go out
	Kind     string        // BriefText or BriefPoll
	Title    string
	Body     string
	Question string
	Options  []string
}

type brief struct {
	BriefParams
	schedule cron.Schedule
}

func newBrief(p BriefParams) (*brief, error) {
	sched, err := cron.ParseStandard(p.Spec)
	if err != nil {
		return nil, fmt.Errorf("parse spec %q: %w", p.Spec, err)
	}
	if p.Kind == "" {
		p.Kind = BriefText
	}
	if p.Window <= 0 {
		p.Window = time.Hour
	}
	switch p.Kind {
	case BriefText:
	case BriefPoll:
		if p.Question == "" || len(p.Options) < 2 {
			return nil, errors.New("poll needs a question and at least two options")
		}
	default:
		return nil, fmt.Errorf("unknown kind %q", p.Kind)
	}
	return &brief{BriefParams: p, schedule: sched}, nil
}

// dueAt reports whether now is inside the window of one of today's fire times.
// Today is the calendar date of now in its location.
func (b *brief) dueAt(now time.Time) bool {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for fire := b.schedule.Next(dayStart.Add(-time.Second)); !fire.IsZero() && !fire.After(now); fire = b.schedule.Next(fire) {
		if now.Sub(fire) < b.Window {
			return true
		}
	}
	return false
}

// runBriefs sends every due brief once per calendar date. Pause does not apply to briefs.
func (s *Scheduler) runBriefs(ctx context.Context, now time.Time) {
	local := now.In(s.location)
	date := local.Format("2006-01-02")
	for _, b := range s.briefs {
		if !s.claimBrief(b, local, date) {
			continue
		}
		if err := s.sendBrief(ctx, b, local); err != nil {
			lgr.Printf("[WARN] brief %s failed: %v", b.Name, err)
			s.state.SetError(fmt.Errorf("brief %s: %w", b.Name, err), now)
			continue
		}
		lgr.Printf("[INFO] brief %s sent for %s", b.Name, date)
	}
}

// claimBrief marks b sent for date when it is due and not yet sent, a failed send is not repeated
func (s *Scheduler) claimBrief(b *brief, local time.Time, date string) bool {
	s.briefsMu.Lock()
	defer s.briefsMu.Unlock()
	if s.briefsSent[b.Name] == date || !b.dueAt(local) {
		return false
	}
	s.briefsSent[b.Name] = date
	return true
}

func (s *Scheduler) sendBrief(ctx context.Context, b *brief, now time.Time) error {
	if b.Kind == BriefPoll {
		if _, err := s.sender.SendPoll(ctx, s.channel, b.Question, b.Options); err != nil {
			return fmt.Errorf("send poll: %w", err)
		}
		return nil
	}

	text := s.formatter.Brief(b.Title, b.Body, s.digest(ctx, b, now), now)
	if _, err := s.sender.SendText(ctx, s.channel, text, nil); err != nil {
		return fmt.Errorf("send brief: %w", err)
	}
	return nil
}

// digest summarizes headlines delivered within digestLookback, empty when there are none
func (s *Scheduler) digest(ctx context.Context, b *brief, now time.Time) string {
	recent, err := s.history.Recent(ctx, now.Add(-digestLookback), digestHeadlines*2)
	if err != nil {
		lgr.Printf("[WARN] can't load recent deliveries for brief %s: %v", b.Name, err)
		return ""
	}

	var headlines []string
	for _, d := range recent {
		if d.Status != domain.DeliverySent || strings.TrimSpace(d.Title) == "" {
			continue
		}
		headlines = append(headlines, "- "+strings.TrimSpace(d.Title))
		if len(headlines) == digestHeadlines {
			break
		}
	}
	if len(headlines) == 0 {
		return ""
	}

	res := s.summarizer.Summarize(ctx, llm.Request{Title: b.Title, Description: strings.Join(headlines, "\n"), Mode: llm.ModeDigest})
	return res.Summary
}
