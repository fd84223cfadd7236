package view

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render writes n as HTML. Text and attribute values are escaped; Raw markup is parsed
// as a body fragment and re-serialized.
func Render(w io.Writer, n Node) error {
	nodes, err := toHTML(n)
	if err != nil {
		return err
	}
	for _, node := range nodes {
		if err := html.Render(w, node); err != nil {
			return err
		}
	}
	return nil
}

// RenderString renders n into a string.
func RenderString(n Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toHTML(n Node) ([]*html.Node, error) {
	switch {
	case n.Raw != "":
		body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
		return html.ParseFragment(strings.NewReader(n.Raw), body)
	case n.Tag == "" && n.Text != "":
		return []*html.Node{{Type: html.TextNode, Data: n.Text}}, nil
	case n.Tag == "":
		var out []*html.Node
		for _, child := range n.Children {
			nodes, err := toHTML(child)
			if err != nil {
				return nil, err
			}
			out = append(out, nodes...)
		}
		return out, nil
	}

	el := &html.Node{
		Type:     html.ElementNode,
		Data:     n.Tag,
		DataAtom: atom.Lookup([]byte(n.Tag)),
	}
	for _, attr := range n.Attrs {
		el.Attr = append(el.Attr, html.Attribute{Key: attr.Key, Val: attr.Val})
	}
	for _, child := range n.Children {
		nodes, err := toHTML(child)
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			if node.Parent != nil {
				node.Parent.RemoveChild(node)
			}
			el.AppendChild(node)
		}
	}
	return []*html.Node{el}, nil
}
