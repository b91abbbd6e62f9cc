package feed

import (
	"strings"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"
)

// imageURL picks the first usable picture of an item: media:content, media:thumbnail,
// gofeed's own image, image enclosures, then the first <img> in description or content
func imageURL(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail", "group"} {
			for _, ext := range media[name] {
				if u := ext.Attrs["url"]; u != "" && (name != "content" || isImageMedium(ext.Attrs)) {
					return u
				}
				// media:group wraps media:content
				for _, child := range ext.Children["content"] {
					if u := child.Attrs["url"]; u != "" && isImageMedium(child.Attrs) {
						return u
					}
				}
			}
		}
	}

	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}

	for _, src := range []string{item.Description, item.Content} {
		if u := firstImgSrc(src); u != "" {
			return u
		}
	}
	return ""
}

// isImageMedium accepts media:content without type info or with an image type
func isImageMedium(attrs map[string]string) bool {
	if m := attrs["medium"]; m != "" {
		return m == "image"
	}
	if t := attrs["type"]; t != "" {
		return strings.HasPrefix(t, "image/")
	}
	return true
}

func firstImgSrc(fragment string) string {
	if !strings.Contains(fragment, "<img") {
		return ""
	}
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var walk func(n *html.Node) string
	walk = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, a := range n.Attr {
				if a.Key == "src" && strings.HasPrefix(a.Val, "http") {
					return a.Val
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if src := walk(c); src != "" {
				return src
			}
		}
		return ""
	}
	return walk(doc)
}
