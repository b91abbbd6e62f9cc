package feed

import (
	"context"
	"slices"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/newscast/pkg/domain"
)

// Fetcher pulls all configured sources and merges their entries
type Fetcher struct {
	parser     *Parser
	perFeed    int
	timeout    time.Duration
	maxWorkers int
}

// FetcherParams configures a Fetcher
type FetcherParams struct {
	Timeout    time.Duration // per source
	UserAgent  string
	PerFeed    int // entries taken from each source, 0 means all
	MaxWorkers int
}

// NewFetcher makes a Fetcher
func NewFetcher(p FetcherParams) *Fetcher {
	if p.Timeout <= 0 {
		p.Timeout = 20 * time.Second
	}
	if p.MaxWorkers <= 0 {
		p.MaxWorkers = 4
	}
	return &Fetcher{
		parser:     NewParser(p.Timeout, p.UserAgent),
		perFeed:    p.PerFeed,
		timeout:    p.Timeout,
		maxWorkers: p.MaxWorkers,
	}
}

// Fetch reads all sources and returns their entries oldest first.
// A failing source is logged and contributes nothing; Fetch itself never fails.
func (f *Fetcher) Fetch(ctx context.Context, urls []string) []domain.Entry {
	perSource := make([][]domain.Entry, len(urls))

	g := errgroup.Group{}
	g.SetLimit(f.maxWorkers)
	for i, u := range urls {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(ctx, f.timeout)
			defer cancel()
			entries, err := f.parser.Parse(sctx, u)
			if err != nil {
				lgr.Printf("[WARN] failed to fetch feed %s: %v", u, err)
				return nil
			}
			if f.perFeed > 0 && len(entries) > f.perFeed {
				entries = entries[:f.perFeed]
			}
			lgr.Printf("[DEBUG] fetched %d entries from %s", len(entries), u)
			perSource[i] = entries
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	var all []domain.Entry
	for _, entries := range perSource {
		all = append(all, entries...)
	}
	return OldestFirst(all)
}

// OldestFirst reverses feed order (feeds list newest first) and sorts dated entries by
// publish time. Undated entries keep their slot in the reversed list, dated ones are sorted
// among the remaining slots. Ties keep the reversed order.
func OldestFirst(entries []domain.Entry) []domain.Entry {
	res := slices.Clone(entries)
	slices.Reverse(res)

	var slots []int
	var dated []domain.Entry
	for i, e := range res {
		if !e.Published.IsZero() {
			slots = append(slots, i)
			dated = append(dated, e)
		}
	}
	slices.SortStableFunc(dated, func(a, b domain.Entry) int { return a.Published.Compare(b.Published) })
	for i, slot := range slots {
		res[slot] = dated[i]
	}
	return res
}
