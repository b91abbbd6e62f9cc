// Package dedup keeps the record of delivered entries. An entry id is added once and stays
// until process exit, unless a size cap is configured. A bounded list of recent normalized
// titles catches stories re-issued by feeds under a new id.
package dedup

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Options configures a Ledger
type Options struct {
	Fuzzy        bool    // compare titles against recent deliveries
	Threshold    float64 // similarity ratio treated as duplicate, 0.9 if unset
	RecentTitles int     // size of the recent titles list, 100 if unset
	MaxIDs       int     // evict oldest ids above this count, 0 keeps everything
}

// Ledger is a concurrency-safe set of delivered entry ids with fuzzy title lookup
type Ledger struct {
	opts Options

	mu     sync.RWMutex
	ids    map[string]struct{}
	order  []string // insertion order, kept only when MaxIDs > 0
	titles []string // normalized, oldest first
}

// New makes an empty ledger
func New(opts Options) *Ledger {
	if opts.Threshold <= 0 {
		opts.Threshold = 0.9
	}
	if opts.RecentTitles <= 0 {
		opts.RecentTitles = 100
	}
	return &Ledger{opts: opts, ids: make(map[string]struct{})}
}

// Seen reports whether id was recorded
func (l *Ledger) Seen(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.ids[id]
	return ok
}

// Record marks id as delivered and remembers its title for fuzzy matching.
// Recording a known id is a no-op and returns false.
func (l *Ledger) Record(id, title string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.ids[id]; ok {
		return false
	}
	l.ids[id] = struct{}{}

	if l.opts.MaxIDs > 0 {
		l.order = append(l.order, id)
		for len(l.order) > l.opts.MaxIDs {
			delete(l.ids, l.order[0])
			l.order = l.order[1:]
		}
	}

	if l.opts.Fuzzy {
		if nt := Normalize(title); nt != "" {
			l.titles = append(l.titles, nt)
			if over := len(l.titles) - l.opts.RecentTitles; over > 0 {
				l.titles = append(l.titles[:0:0], l.titles[over:]...)
			}
		}
	}
	return true
}

// SimilarTitle looks for a recently delivered title close enough to title.
// Returns the matched normalized title. Always false when fuzzy matching is off.
func (l *Ledger) SimilarTitle(title string) (string, bool) {
	if !l.opts.Fuzzy {
		return "", false
	}
	nt := Normalize(title)
	if nt == "" {
		return "", false
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := len(l.titles) - 1; i >= 0; i-- {
		if Similarity(nt, l.titles[i]) >= l.opts.Threshold {
			return l.titles[i], true
		}
	}
	return "", false
}

// Len returns the number of recorded ids
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ids)
}

// Normalize folds case and compatibility forms, drops punctuation and collapses spaces
func Normalize(s string) string {
	s = cases.Fold().String(norm.NFKC.String(s))
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			space = false
			continue
		}
		space = true
	}
	return b.String()
}

// Similarity returns 1 - levenshtein(a, b) / max(len(a), len(b)) over runes, 1 for two empty strings
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	if la == 0 || lb == 0 {
		return 0
	}

	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return 1 - float64(prev[lb])/float64(longest)
}
