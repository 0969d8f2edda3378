// Package format derives plain text bodies from HTML draft bodies.
package format

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	spaceRe     = regexp.MustCompile(`[ \t\r\n\f]+`)
	blankLineRe = regexp.MustCompile(`\n{3,}`)
)

var blockTags = map[string]bool{
	"address": true, "article": true, "blockquote": true, "div": true, "footer": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "tr": true, "ul": true,
}

var skipTags = map[string]bool{
	"head": true, "script": true, "style": true, "title": true,
}

// HTML2Text renders an HTML body as plain text the way mail clients do for
// messages without a text part: block elements start new lines, links keep
// their target, images show their alt text.
func HTML2Text(body string) (string, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("html.Parse failed: %w", err)
	}

	var b strings.Builder
	writeText(&b, doc)

	lines := strings.Split(blankLineRe.ReplaceAllString(b.String(), "\n\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}

	return strings.TrimSpace(blankLineRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")), nil
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(spaceRe.ReplaceAllString(n.Data, " "))
		return
	case html.ElementNode:
		if skipTags[n.Data] {
			return
		}
		switch n.Data {
		case "br":
			b.WriteString("\n")
			return
		case "img":
			if alt := attr(n, "alt"); alt != "" {
				fmt.Fprintf(b, "[image: %s]", alt)
			}
			return
		}
	}

	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		b.WriteString("\n")
	}
	if n.Type == html.ElementNode && n.Data == "li" {
		b.WriteString("* ")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}

	if n.Type == html.ElementNode && n.Data == "a" {
		if href := attr(n, "href"); href != "" && !strings.HasPrefix(href, "mailto:") {
			fmt.Fprintf(b, " <%s>", href)
		}
	}
	if block {
		b.WriteString("\n")
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
