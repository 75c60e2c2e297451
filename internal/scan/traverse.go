package scan

import (
	"html"
	"regexp"
	"strings"

	"github.com/dgallion1/awaketiger/internal/doctree"
)

const (
	// Disclosure bodies never appear under this key.
	skipKey = "head"
	// Class marking a disclosure message node.
	bodyClass = "body"
)

var lineBreak = regexp.MustCompile(`(?i)<br\s*/?>`)

// ExtractCandidates walks the tree depth-first and returns the text block of
// every disclosure message node in document order. Matched nodes are not
// descended into.
func ExtractCandidates(root *doctree.Node) []doctree.TextBlock {
	var blocks []doctree.TextBlock

	var walk func(n *doctree.Node)
	walk = func(n *doctree.Node) {
		if n == nil || n.Key == skipKey || strings.HasPrefix(n.Key, "@") {
			return
		}
		if n.Attr("class") == bodyClass {
			if last := n.LastChild(); last != nil {
				blocks = append(blocks, BlockOf(last))
			}
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)

	return blocks
}

// BlockOf normalizes a message node into a TextBlock. Nodes carrying
// pre-split Lines (nested shape) hold the leading date field in Text; flat
// nodes hold inner markup that is split on <br>.
//
// The trailing link line (n-2) is always a markup fragment: flat markup is
// kept as is, nested plain text is escaped. Every other line is plain text.
func BlockOf(n *doctree.Node) doctree.TextBlock {
	if n.Lines != nil {
		lines := make([]string, 0, len(n.Lines)+1)
		lines = append(lines, n.Text)
		lines = append(lines, n.Lines...)
		if link := len(lines) - 2; link >= 0 {
			lines[link] = html.EscapeString(lines[link])
		}
		return doctree.TextBlock{Lines: lines}
	}
	return doctree.TextBlock{Lines: splitMarkup(n.Text)}
}

func splitMarkup(s string) []string {
	parts := lineBreak.Split(strings.TrimSpace(s), -1)
	link := len(parts) - 2
	lines := make([]string, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i != link {
			p = html.UnescapeString(p)
		}
		lines[i] = p
	}
	return lines
}
