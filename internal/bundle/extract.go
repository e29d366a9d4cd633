package bundle

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// extractAttr parses markup and returns attr of every element accepted by
// match, in document order. Elements without the attribute are skipped.
func extractAttr(markup string, match func(*html.Node) bool, attr string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	var values []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			if value, ok := attrValue(n, attr); ok {
				values = append(values, value)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return values, nil
}

func attrValue(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// ScriptSources returns the src of every <script> element.
func ScriptSources(markup string) ([]string, error) {
	return extractAttr(markup, func(n *html.Node) bool {
		return n.DataAtom == atom.Script
	}, "src")
}

// StylesheetHrefs returns the href of every <link> whose rel includes
// "stylesheet".
func StylesheetHrefs(markup string) ([]string, error) {
	return extractAttr(markup, func(n *html.Node) bool {
		if n.DataAtom != atom.Link {
			return false
		}
		rel, _ := attrValue(n, "rel")
		for _, token := range strings.Fields(rel) {
			if strings.EqualFold(token, "stylesheet") {
				return true
			}
		}
		return false
	}, "href")
}
