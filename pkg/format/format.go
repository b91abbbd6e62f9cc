// Package format renders channel posts, briefs and admin replies as Telegram HTML
package format

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/umputun/newscast/pkg/domain"
)

// TimeLayout is used for every timestamp shown to readers and admins
const TimeLayout = "02 Jan 2006 | 03:04 PM MST"

// maxCaptionRunes matches the Bot API photo caption limit
const maxCaptionRunes = 1024

// Options are the labels and zone used in rendered messages
type Options struct {
	Header         string
	DefaultTitle   string
	Footer         string
	ReadMoreLabel  string
	FullStoryLabel string
	JoinLabel      string
	JoinURL        string
	BotName        string
	Location       *time.Location
}

// Post is a summarized entry ready to render
type Post struct {
	Title    string
	Summary  string
	Hashtags string
	Link     string
}

// Formatter renders messages with fixed options
type Formatter struct {
	opts Options
}

// New makes a Formatter, empty labels get defaults
func New(opts Options) *Formatter {
	if opts.DefaultTitle == "" {
		opts.DefaultTitle = "Breaking News"
	}
	if opts.ReadMoreLabel == "" {
		opts.ReadMoreLabel = "Read more"
	}
	if opts.FullStoryLabel == "" {
		opts.FullStoryLabel = "Full Story"
	}
	if opts.BotName == "" {
		opts.BotName = "Newscast"
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Formatter{opts: opts}
}

// Timestamp renders t in the configured zone
func (f *Formatter) Timestamp(t time.Time) string {
	return t.In(f.opts.Location).Format(TimeLayout)
}

// News renders a channel post
func (f *Formatter) News(p Post, now time.Time) string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = f.opts.DefaultTitle
	}

	var b strings.Builder
	if f.opts.Header != "" {
		fmt.Fprintf(&b, "📰 <b>%s</b>\n", html.EscapeString(f.opts.Header))
	}
	fmt.Fprintf(&b, "📅 <i>%s</i>\n\n", f.Timestamp(now))
	fmt.Fprintf(&b, "🗞 <b>%s</b>\n\n", html.EscapeString(title))
	if s := strings.TrimSpace(p.Summary); s != "" {
		b.WriteString(html.EscapeString(s))
		b.WriteString("\n\n")
	}
	if p.Link != "" {
		fmt.Fprintf(&b, "🔗 <a href=\"%s\">%s</a>\n\n", html.EscapeString(p.Link), html.EscapeString(f.opts.ReadMoreLabel))
	}
	if tags := strings.TrimSpace(p.Hashtags); tags != "" {
		b.WriteString(html.EscapeString(tags))
		b.WriteString("\n")
	}
	if f.opts.Footer != "" {
		fmt.Fprintf(&b, "<i>%s</i>", html.EscapeString(f.opts.Footer))
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewsKeyboard gives the buttons under a channel post. Empty when there is nothing to link.
func (f *Formatter) NewsKeyboard(link string) domain.Keyboard {
	var kb domain.Keyboard
	if link != "" {
		kb = append(kb, []domain.Button{{Text: "🌐 " + f.opts.FullStoryLabel, URL: link}})
	}
	if f.opts.JoinURL != "" && f.opts.JoinLabel != "" {
		kb = append(kb, []domain.Button{{Text: "📣 " + f.opts.JoinLabel, URL: f.opts.JoinURL}})
	}
	return kb
}

// Brief renders a daily brief. digest may be empty when nothing was posted recently.
func (f *Formatter) Brief(title, body, digest string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "📅 <i>%s</i>\n\n", now.In(f.opts.Location).Format("02 Jan 2006"))
	if body = strings.TrimSpace(body); body != "" {
		b.WriteString(html.EscapeString(body))
		b.WriteString("\n\n")
	}
	if digest = strings.TrimSpace(digest); digest != "" {
		b.WriteString(html.EscapeString(digest))
		b.WriteString("\n\n")
	}
	if f.opts.Footer != "" {
		fmt.Fprintf(&b, "<i>%s</i>", html.EscapeString(f.opts.Footer))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Status renders the scheduler state for an admin
func (f *Formatter) Status(st domain.Status, now time.Time) string {
	last := "Not yet"
	if !st.NeverRun() {
		last = f.Timestamp(st.LastRun)
	}

	var b strings.Builder
	b.WriteString("📊 <b>Bot Status</b>\n\n")
	fmt.Fprintf(&b, "State: %s\n", stateLabel(st.Paused))
	fmt.Fprintf(&b, "Interval: %d min\n", int(st.Interval/time.Minute))
	fmt.Fprintf(&b, "Total posts: %d\n", st.TotalDelivered)
	fmt.Fprintf(&b, "Last run: %s\n", last)
	fmt.Fprintf(&b, "Now: %s", f.Timestamp(now))
	if st.LastError != "" {
		fmt.Fprintf(&b, "\n\nLast error:\n<code>%s</code>", html.EscapeString(st.LastError))
	}
	return b.String()
}

// Menu renders the control panel with callback buttons for the common commands
func (f *Formatter) Menu(paused bool) (string, domain.Keyboard) {
	var b strings.Builder
	fmt.Fprintf(&b, "⚙ <b>%s Control Panel</b>\n\n", html.EscapeString(f.opts.BotName))
	b.WriteString("Commands:\n")
	for _, c := range [][2]string{
		{"menu", "this panel"},
		{"status", "bot status"},
		{"post", "run one news cycle now"},
		{"pause", "stop auto posting"},
		{"resume", "start auto posting"},
		{"interval N", "post every N minutes"},
		{"id", "your Telegram ID"},
	} {
		fmt.Fprintf(&b, "- <code>%s</code> %s\n", c[0], c[1])
	}
	fmt.Fprintf(&b, "\nCurrent state: %s", stateLabel(paused))

	kb := domain.Keyboard{
		{{Text: "📊 Status", CallbackData: "status"}, {Text: "🚀 Post now", CallbackData: "post"}},
		{{Text: "⏸ Pause", CallbackData: "pause"}, {Text: "▶ Resume", CallbackData: "resume"}},
	}
	return b.String(), kb
}

// FitsCaption reports whether s can be sent as a photo caption
func FitsCaption(s string) bool {
	return utf8.RuneCountInString(s) <= maxCaptionRunes
}

func stateLabel(paused bool) string {
	if paused {
		return "⏸ Paused"
	}
	return "▶ Active"
}
