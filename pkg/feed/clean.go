package feed

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var stripPolicy = bluemonday.StrictPolicy()

// Clean turns an HTML fragment into a single line of plain text
func Clean(s string) string {
	if s == "" {
		return ""
	}
	// keep words separated when tags are dropped
	s = strings.NewReplacer("<", " <", ">", "> ").Replace(s)
	s = html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}
