package admin

import (
	"strconv"
	"strings"
)

// Kind is the closed set of admin commands
type Kind int

// command kinds
const (
	KindUnknown Kind = iota
	KindMenu
	KindStatus
	KindPost
	KindPause
	KindResume
	KindID
	KindInterval
)

var kindNames = map[Kind]string{
	KindUnknown:  "unknown",
	KindMenu:     "menu",
	KindStatus:   "status",
	KindPost:     "post",
	KindPause:    "pause",
	KindResume:   "resume",
	KindID:       "id",
	KindInterval: "interval",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// maxMinutes caps parsed interval values, anything above is out of range anyway
const maxMinutes = 1 << 20

// Command is a parsed admin message. Minutes is set for KindInterval, zero means no valid number.
type Command struct {
	Kind    Kind
	Minutes int
}

var keywords = map[string]Kind{
	"menu":     KindMenu,
	"help":     KindMenu,
	"start":    KindMenu,
	"status":   KindStatus,
	"post":     KindPost,
	"post now": KindPost,
	"force":    KindPost,
	"pause":    KindPause,
	"resume":   KindResume,
	"id":       KindID,
}

// Parse reads a command from message text. Matching is case-insensitive, surrounding and
// repeated spaces are ignored, a leading slash and a trailing @botname are accepted.
func Parse(text string) Command {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return Command{Kind: KindUnknown}
	}
	first := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(first, '@'); at > 0 {
		first = first[:at]
	}
	fields[0] = first

	if first == "interval" {
		if len(fields) != 2 {
			return Command{Kind: KindInterval}
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n <= 0 {
			return Command{Kind: KindInterval}
		}
		return Command{Kind: KindInterval, Minutes: min(n, maxMinutes)}
	}

	if kind, ok := keywords[strings.Join(fields, " ")]; ok {
		return Command{Kind: kind}
	}
	return Command{Kind: KindUnknown}
}
