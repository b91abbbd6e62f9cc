// Package llm produces short summaries of news entries. Backends are tried in order and
// a local fallback closes the chain, so Summarize always returns usable text.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pkgz/lgr"
)

//go:generate moq -out mocks/backend.go -pkg mocks -skip-ensure -fmt goimports . Backend

// Mode selects the kind of summary
type Mode int

// summary modes
const (
	ModeItem   Mode = iota // one news entry
	ModeDigest             // rollup of several headlines for a brief
)

func (m Mode) String() string {
	if m == ModeDigest {
		return "digest"
	}
	return "item"
}

// Request is the input of a summary
type Request struct {
	Title       string
	Description string
	Link        string
	Mode        Mode
}

// Result is a display summary with hashtags. Backend is "fallback" when no AI answered.
type Result struct {
	Summary  string
	Hashtags string
	Backend  string
}

// Backend is one AI provider
type Backend interface {
	Name() string
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Params configures a Summarizer
type Params struct {
	Backends        []Backend
	Language        string
	SystemPrompt    string // replaces the built-in item prompt when set
	Timeout         time.Duration
	DefaultHashtags string
	FallbackNote    string
}

// Summarizer walks the backend chain
type Summarizer struct {
	backends        []Backend
	language        string
	systemPrompt    string
	timeout         time.Duration
	defaultHashtags string
	fallbackNote    string
}

const (
	fallbackRunes    = 260
	defaultNoSummary = "A new international story is available."
)

// NewSummarizer makes a Summarizer, nil backends are skipped
func NewSummarizer(p Params) *Summarizer {
	s := &Summarizer{
		language:        p.Language,
		systemPrompt:    p.SystemPrompt,
		timeout:         p.Timeout,
		defaultHashtags: p.DefaultHashtags,
		fallbackNote:    p.FallbackNote,
	}
	for _, b := range p.Backends {
		if b != nil {
			s.backends = append(s.backends, b)
		}
	}
	if s.language == "" {
		s.language = "English"
	}
	if s.timeout <= 0 {
		s.timeout = 25 * time.Second
	}
	return s
}

// Summarize returns the first successful backend answer or the local fallback. It never fails.
func (s *Summarizer) Summarize(ctx context.Context, req Request) Result {
	system, prompt := s.prompts(req)
	for _, b := range s.backends {
		if ctx.Err() != nil {
			break
		}
		text, err := s.complete(ctx, b, system, prompt)
		if err != nil {
			lgr.Printf("[WARN] %s summary failed for %q: %v", b.Name(), req.Title, err)
			continue
		}
		summary, tags := splitHashtags(text)
		if summary == "" {
			lgr.Printf("[WARN] %s returned an empty summary for %q", b.Name(), req.Title)
			continue
		}
		if tags == "" {
			tags = s.defaultHashtags
		}
		return Result{Summary: summary, Hashtags: tags, Backend: b.Name()}
	}
	return s.fallback(req)
}

func (s *Summarizer) complete(ctx context.Context, b Backend, system, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	text, err := b.Complete(ctx, system, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (s *Summarizer) prompts(req Request) (system, prompt string) {
	if req.Mode == ModeDigest {
		system = fmt.Sprintf("You are a news editor writing a short daily brief in %s. "+
			"Combine the headlines into 3-5 neutral lines covering the main themes. "+
			"No opinions, no analysis, facts only.", s.language)
		return system, fmt.Sprintf("Brief: %s\n\nHeadlines:\n%s", req.Title, req.Description)
	}

	system = s.systemPrompt
	if system == "" {
		system = fmt.Sprintf("You are a professional news editor. Write a simple, neutral 2-4 line summary "+
			"of the story in %s. No opinions or extra analysis, facts only. "+
			"You may end with one line of up to three relevant hashtags.", s.language)
	}
	return system, fmt.Sprintf("Title: %s\n\nDescription: %s\n\nLink: %s", req.Title, req.Description, req.Link)
}

// fallback builds a summary without AI from the description or title
func (s *Summarizer) fallback(req Request) Result {
	res := Result{Hashtags: s.defaultHashtags, Backend: "fallback"}

	if req.Mode == ModeDigest {
		lines := strings.Split(strings.TrimSpace(req.Description), "\n")
		var out []string
		for _, l := range lines {
			if l = strings.TrimSpace(l); l != "" {
				out = append(out, "• "+strings.TrimLeft(l, "-•* "))
			}
			if len(out) == 5 {
				break
			}
		}
		res.Summary = strings.Join(out, "\n")
		if res.Summary == "" {
			res.Summary = defaultNoSummary
		}
		return res
	}

	base := strings.Join(strings.Fields(req.Description), " ")
	if base == "" {
		base = strings.Join(strings.Fields(req.Title), " ")
	}
	if base == "" {
		base = defaultNoSummary
	}
	if utf8.RuneCountInString(base) > fallbackRunes {
		base = string([]rune(base)[:fallbackRunes]) + "..."
	}
	res.Summary = base
	if s.fallbackNote != "" {
		res.Summary += "\n\n" + s.fallbackNote
	}
	return res
}

// splitHashtags separates trailing lines made only of #tags from the summary text
func splitHashtags(text string) (summary, tags string) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var tagLines []string
	for len(lines) > 0 {
		last := strings.TrimSpace(lines[len(lines)-1])
		if last == "" {
			lines = lines[:len(lines)-1]
			continue
		}
		if !isHashtagLine(last) {
			break
		}
		tagLines = append([]string{last}, tagLines...)
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), strings.Join(tagLines, " ")
}

func isHashtagLine(s string) bool {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if len(f) < 2 || f[0] != '#' {
			return false
		}
	}
	return true
}
