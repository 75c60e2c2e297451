package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/awaketiger/internal/doctree"
)

// XMLParser produces the nested tree shape from XML or XHTML. An element
// with <br/> children keeps the text before the first break in Text and
// each following segment in Lines.
type XMLParser struct{}

type xmlFrame struct {
	node     *doctree.Node
	cur      strings.Builder
	segments []string
	broken   bool
}

func (f *xmlFrame) breakLine() {
	f.segments = append(f.segments, strings.TrimSpace(f.cur.String()))
	f.cur.Reset()
	f.broken = true
}

func (f *xmlFrame) finish() {
	if f.node == nil {
		return
	}
	last := strings.TrimSpace(f.cur.String())
	if !f.broken {
		f.node.Text = last
		return
	}
	f.segments = append(f.segments, last)
	f.node.Text = f.segments[0]
	f.node.Lines = f.segments[1:]
}

func (p *XMLParser) Parse(r io.Reader) (*doctree.Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	root := &doctree.Node{Key: "root"}
	stack := []*xmlFrame{{node: root}}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			if name == "br" {
				top.breakLine()
				stack = append(stack, &xmlFrame{})
				continue
			}
			node := &doctree.Node{Kind: name, Key: name}
			if len(t.Attr) > 0 {
				node.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					node.Attrs[a.Name.Local] = a.Value
				}
			}
			if top.node != nil {
				top.node.Children = append(top.node.Children, node)
			}
			stack = append(stack, &xmlFrame{node: node})
		case xml.EndElement:
			if len(stack) == 1 {
				continue
			}
			top.finish()
			stack = stack[:len(stack)-1]
		case xml.CharData:
			top.cur.Write(t)
		}
	}

	for i := len(stack) - 1; i >= 0; i-- {
		stack[i].finish()
	}
	root.Text = ""
	root.Lines = nil
	return root, nil
}
