// Package scheduler runs the delivery pipeline: a tick loop starts delivery cycles when the
// interval has elapsed, sends daily briefs and keeps the host awake. It also exposes
// the controls used by admin commands.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/newscast/pkg/dedup"
	"github.com/umputun/newscast/pkg/domain"
	"github.com/umputun/newscast/pkg/format"
	"github.com/umputun/newscast/pkg/llm"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/summarizer.go -pkg mocks -skip-ensure -fmt goimports . Summarizer
//go:generate moq -out mocks/sender.go -pkg mocks -skip-ensure -fmt goimports . Sender
//go:generate moq -out mocks/shortener.go -pkg mocks -skip-ensure -fmt goimports . Shortener
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor
//go:generate moq -out mocks/history.go -pkg mocks -skip-ensure -fmt goimports . History

// Fetcher reads all feeds, a failing feed contributes nothing
type Fetcher interface {
	Fetch(ctx context.Context, urls []string) []domain.Entry
}

// Summarizer makes display summaries and never fails
type Summarizer interface {
	Summarize(ctx context.Context, req llm.Request) llm.Result
}

// Sender posts to the channel
type Sender interface {
	SendText(ctx context.Context, chatID, text string, kb domain.Keyboard) (int64, error)
	SendPhoto(ctx context.Context, chatID, photoURL, caption string, kb domain.Keyboard) (int64, error)
	SendPoll(ctx context.Context, chatID, question string, options []string) (int64, error)
}

// Shortener makes short links, returning the input on failure
type Shortener interface {
	Shorten(ctx context.Context, link string) string
}

// Extractor pulls article text for entries without a description
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// History stores delivery attempts and serves recent ones for briefs
type History interface {
	Record(ctx context.Context, d domain.Delivery) error
	Recent(ctx context.Context, since time.Time, limit int) ([]domain.Delivery, error)
}

// Params defines scheduler dependencies and settings. Shortener and Extractor are optional.
type Params struct {
	State      *State
	Ledger     *dedup.Ledger
	Fetcher    Fetcher
	Summarizer Summarizer
	Sender     Sender
	Formatter  *format.Formatter
	Shortener  Shortener
	Extractor  Extractor
	History    History

	ExtractBelow   int // descriptions shorter than this many runes are replaced by article text
	Channel        string
	Feeds          []string
	Tick           time.Duration
	ItemsPerRun    int
	AdminPostItems int
	SendDelay      time.Duration
	CycleTimeout   time.Duration
	Location       *time.Location
	Briefs         []BriefParams

	KeepAliveURL      string
	KeepAliveInterval time.Duration
}

// Scheduler owns the delivery loop and the shared state it reads
type Scheduler struct {
	state      *State
	ledger     *dedup.Ledger
	fetcher    Fetcher
	summarizer Summarizer
	sender     Sender
	formatter  *format.Formatter
	shortener  Shortener
	extractor  Extractor
	history    History

	extractBelow   int
	channel        string
	feeds          []string
	tick           time.Duration
	itemsPerRun    int
	adminPostItems int
	sendDelay      time.Duration
	cycleTimeout   time.Duration
	location       *time.Location

	briefs     []*brief
	briefsMu   sync.Mutex
	briefsSent map[string]string // brief name -> date of the last send

	keepAliveURL      string
	keepAliveInterval time.Duration
	httpClient        *http.Client

	cycleMu sync.Mutex // one delivery cycle at a time
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) bool

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New makes a Scheduler. Fails on missing collaborators or a bad brief definition.
func New(p Params) (*Scheduler, error) {
	switch {
	case p.State == nil:
		return nil, errors.New("state is required")
	case p.Ledger == nil:
		return nil, errors.New("ledger is required")
	case p.Fetcher == nil:
		return nil, errors.New("fetcher is required")
	case p.Summarizer == nil:
		return nil, errors.New("summarizer is required")
	case p.Sender == nil:
		return nil, errors.New("sender is required")
	}

	if p.Formatter == nil {
		p.Formatter = format.New(format.Options{Location: p.Location})
	}
	if p.History == nil {
		p.History = NewMemoryHistory(0)
	}
	if p.Location == nil {
		p.Location = time.UTC
	}
	if p.Tick <= 0 {
		p.Tick = 10 * time.Second
	}
	if p.ItemsPerRun <= 0 {
		p.ItemsPerRun = 5
	}
	if p.AdminPostItems <= 0 {
		p.AdminPostItems = 3
	}
	if p.CycleTimeout <= 0 {
		p.CycleTimeout = 5 * time.Minute
	}
	if p.KeepAliveInterval <= 0 {
		p.KeepAliveInterval = 5 * time.Minute
	}

	s := &Scheduler{
		state:             p.State,
		ledger:            p.Ledger,
		fetcher:           p.Fetcher,
		summarizer:        p.Summarizer,
		sender:            p.Sender,
		formatter:         p.Formatter,
		shortener:         p.Shortener,
		extractor:         p.Extractor,
		history:           p.History,
		extractBelow:      p.ExtractBelow,
		channel:           p.Channel,
		feeds:             p.Feeds,
		tick:              p.Tick,
		itemsPerRun:       p.ItemsPerRun,
		adminPostItems:    p.AdminPostItems,
		sendDelay:         p.SendDelay,
		cycleTimeout:      p.CycleTimeout,
		location:          p.Location,
		briefsSent:        make(map[string]string),
		keepAliveURL:      p.KeepAliveURL,
		keepAliveInterval: p.KeepAliveInterval,
		httpClient:        &http.Client{Timeout: 30 * time.Second},
		now:               time.Now,
		sleep:             sleep,
	}

	for _, bp := range p.Briefs {
		b, err := newBrief(bp)
		if err != nil {
			return nil, fmt.Errorf("brief %q: %w", bp.Name, err)
		}
		s.briefs = append(s.briefs, b)
	}
	return s, nil
}

// Start runs the tick loop and, if configured, the keep-alive pinger in the background
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.tickWorker(ctx)

	if s.keepAliveURL != "" {
		s.wg.Add(1)
		go s.keepAliveWorker(ctx)
	}

	lgr.Printf("[INFO] scheduler started, interval %v, tick %v, %d feeds, %d briefs",
		s.state.Status().Interval, s.tick, len(s.feeds), len(s.briefs))
}

// Stop cancels background workers and waits for them, an in-flight cycle is interrupted
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// Status returns the state snapshot
func (s *Scheduler) Status() domain.Status { return s.state.Status() }

// Pause stops scheduled cycles, briefs keep going
func (s *Scheduler) Pause() { s.state.Pause() }

// Resume restarts scheduled cycles
func (s *Scheduler) Resume() { s.state.Resume() }

// SetInterval changes the delivery interval, see State.SetInterval
func (s *Scheduler) SetInterval(d time.Duration) error { return s.state.SetInterval(d) }

// RunNow runs a forced cycle with the admin item quota. Returns the delivered count.
func (s *Scheduler) RunNow(ctx context.Context) int {
	return s.RunCycle(ctx, s.adminPostItems, true)
}

func (s *Scheduler) tickWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	// run immediately on start
	s.onTick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.onTick(ctx)
		}
	}
}

// onTick runs a due cycle, then any due brief. A missed interval fires once, never more.
func (s *Scheduler) onTick(ctx context.Context) {
	if s.state.Due(s.now()) {
		s.RunCycle(ctx, s.itemsPerRun, false)
	}
	s.runBriefs(ctx, s.now())
}

func (s *Scheduler) keepAliveWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ping(ctx); err != nil {
				lgr.Printf("[WARN] keep-alive ping failed: %v", err)
			}
		}
	}
}

func (s *Scheduler) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.keepAliveURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("make request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", s.keepAliveURL, err)
	}
	defer resp.Body.Close()
	lgr.Printf("[DEBUG] keep-alive %s: %d", s.keepAliveURL, resp.StatusCode)
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
