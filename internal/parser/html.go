package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/awaketiger/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser produces the flat tree shape: elements that directly contain a
// <br> keep their inner markup in Text and are split into lines downstream.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader) (*doctree.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	root := &doctree.Node{Key: "root"}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if n := convertHTML(c); n != nil {
			root.Children = append(root.Children, n)
		}
	}
	return root, nil
}

func convertHTML(n *html.Node) *doctree.Node {
	if n.Type != html.ElementNode {
		return nil
	}
	switch n.Data {
	case "script", "style":
		return nil
	}

	node := &doctree.Node{
		Kind: n.Data,
		Key:  n.Data,
	}
	if len(n.Attr) > 0 {
		node.Attrs = make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			node.Attrs[a.Key] = a.Val
		}
	}

	if hasBreak(n) {
		node.Text = innerHTML(n)
	} else {
		node.Text = directText(n)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := convertHTML(c); child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node
}

func hasBreak(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "br" {
			return true
		}
	}
	return false
}

func innerHTML(n *html.Node) string {
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		// Render only fails on writer errors; strings.Builder never returns one.
		_ = html.Render(&buf, c)
	}
	return strings.TrimSpace(buf.String())
}

func directText(n *html.Node) string {
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(buf.String())
}
