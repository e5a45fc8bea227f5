package render

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// docTitle returns the <title> text of an HTML file, or "" when it has none.
func docTitle(path string) (string, error) {
	// #nosec G304 - path is inside the pages directory
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	doc, err := html.Parse(f)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	if n := findElement(doc, "title"); n != nil {
		return strings.Join(strings.Fields(extractText(n)), " "), nil
	}
	return "", nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(extractText(c))
	}
	return b.String()
}
