package scheduler

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newscast/pkg/domain"
	"github.com/umputun/newscast/pkg/format"
	"github.com/umputun/newscast/pkg/llm"
	"github.com/umputun/newscast/pkg/telegram"
)

// RunCycle fetches all feeds and delivers up to maxItems new entries, oldest first.
// Unless forced, a paused scheduler returns 0 without fetching. Every attempted entry is
// recorded in the ledger before it is sent, so a failed send is never retried.
// Errors and panics end up in the state's last error, RunCycle itself never fails.
func (s *Scheduler) RunCycle(ctx context.Context, maxItems int, force bool) (delivered int) {
	if !force && s.state.Paused() {
		lgr.Printf("[DEBUG] posting paused, skip cycle")
		return 0
	}

	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	if !force && s.state.Paused() { // paused while waiting for another cycle
		return 0
	}

	ctx, cancel := context.WithTimeout(ctx, s.cycleTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			lgr.Printf("[ERROR] delivery cycle panic: %v", r)
			s.state.SetError(fmt.Errorf("cycle panic: %v", r), s.now())
		}
		s.state.FinishRun(s.now(), delivered)
		lgr.Printf("[INFO] delivery cycle finished, delivered %d", delivered)
	}()

	entries := s.fetcher.Fetch(ctx, s.feeds)
	lgr.Printf("[DEBUG] cycle fetched %d entries, quota %d, forced %v", len(entries), maxItems, force)

	attempted := 0
	for _, e := range entries {
		if delivered >= maxItems {
			break
		}
		if ctx.Err() != nil {
			s.state.SetError(fmt.Errorf("cycle interrupted: %w", ctx.Err()), s.now())
			break
		}
		if e.ID == "" || s.ledger.Seen(e.ID) {
			continue
		}
		if match, ok := s.ledger.SimilarTitle(e.Title); ok {
			lgr.Printf("[DEBUG] skip %s, title %q is close to delivered %q", e.ID, e.Title, match)
			s.ledger.Record(e.ID, "")
			continue
		}

		if attempted > 0 && !s.sleep(ctx, s.sendDelay) {
			break
		}
		attempted++

		s.ledger.Record(e.ID, e.Title)
		err := s.deliver(ctx, e)
		s.journal(ctx, e, err)
		if err != nil {
			lgr.Printf("[WARN] failed to deliver %s: %v", e.ID, err)
			s.state.SetError(fmt.Errorf("deliver %q: %w", e.Title, err), s.now())
			continue
		}
		delivered++
	}
	return delivered
}

// deliver summarizes and posts one entry. A photo refused by the api is retried once as text.
func (s *Scheduler) deliver(ctx context.Context, e domain.Entry) error {
	desc := strings.TrimSpace(e.Summary)
	if s.extractor != nil && e.Link != "" && utf8.RuneCountInString(desc) < max(s.extractBelow, 1) {
		text, err := s.extractor.Extract(ctx, e.Link)
		switch {
		case err != nil:
			lgr.Printf("[DEBUG] no article text for %s: %v", e.Link, err)
		case utf8.RuneCountInString(text) > utf8.RuneCountInString(desc):
			desc = text
		}
	}

	res := s.summarizer.Summarize(ctx, llm.Request{Title: e.Title, Description: desc, Link: e.Link, Mode: llm.ModeItem})
	lgr.Printf("[DEBUG] summary for %s by %s", e.ID, res.Backend)

	link := e.Link
	if s.shortener != nil && link != "" {
		link = s.shortener.Shorten(ctx, link)
	}

	text := s.formatter.News(format.Post{Title: e.Title, Summary: res.Summary, Hashtags: res.Hashtags, Link: link}, s.now())
	kb := s.formatter.NewsKeyboard(link)

	if e.ImageURL != "" && format.FitsCaption(text) {
		_, err := s.sender.SendPhoto(ctx, s.channel, e.ImageURL, text, kb)
		if err == nil {
			return nil
		}
		// the photo may already be in the channel unless the api refused it
		if !telegram.IsRejected(err) {
			return fmt.Errorf("send photo: %w", err)
		}
		lgr.Printf("[WARN] photo rejected for %s, sending as text: %v", e.ID, err)
	}

	if _, err := s.sender.SendText(ctx, s.channel, text, kb); err != nil {
		return fmt.Errorf("send text: %w", err)
	}
	return nil
}

func (s *Scheduler) journal(ctx context.Context, e domain.Entry, sendErr error) {
	d := domain.Delivery{EntryID: e.ID, Title: e.Title, Link: e.Link, Status: domain.DeliverySent, CreatedAt: s.now()}
	if sendErr != nil {
		d.Status = domain.DeliveryFailed
		d.Error = sendErr.Error()
	}
	if err := s.history.Record(context.WithoutCancel(ctx), d); err != nil {
		lgr.Printf("[WARN] failed to journal delivery of %s: %v", e.ID, err)
	}
}
