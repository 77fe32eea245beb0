package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var htmlTag = regexp.MustCompile(`(?is)<\s*/?\s*(p|div|span|br|b|i|em|strong|a|h[1-6]|li|ul|ol|button|label|section|article|body|html)\b[^>]*>`)

// blockElements end a line of copy when flattened
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "header": true, "footer": true, "tr": true,
	"button": true, "label": true,
}

// LooksLikeHTML reports whether a selection carries markup worth flattening
func LooksLikeHTML(s string) bool {
	return htmlTag.MatchString(s)
}

// FlattenHTML turns an HTML fragment into plain text. Block elements become
// line breaks; scripts, styles and hidden nodes are dropped.
func FlattenHTML(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, template, [hidden], [aria-hidden=true]").Remove()

	var b strings.Builder
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			writeNode(&b, n)
		}
	})
	return b.String(), nil
}

func writeNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.Data == "br" {
			b.WriteString("\n")
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block && n.Data == "li" {
		b.WriteString("\n- ")
	} else if block {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNode(b, c)
	}
	if block {
		b.WriteString("\n")
	}
}
