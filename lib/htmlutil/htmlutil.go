package htmlutil

import (
	"golang.org/x/net/html"
)

// NthText returns the data of the nth (zero-based) text node under
// `node` in document order. Whitespace-only nodes count towards n.
func NthText(node *html.Node, n int) (string, bool) {
	if n < 0 {
		return "", false
	}

	var found string
	ok := false
	i := 0
	walkText(node, func(text string) bool {
		if i == n {
			found = text
			ok = true
			return false
		}
		i++
		return true
	})
	return found, ok
}

func FirstText(node *html.Node) (string, bool) {
	return NthText(node, 0)
}

// walkText calls visit on each text node until it returns false.
func walkText(node *html.Node, visit func(text string) bool) bool {
	if node == nil {
		return true
	}
	if node.Type == html.TextNode {
		return visit(node.Data)
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if !walkText(child, visit) {
			return false
		}
	}
	return true
}
