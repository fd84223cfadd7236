package view

import (
	"slices"
	"strings"
)

// Attr is an element attribute.
type Attr struct {
	Key string
	Val string
}

// A builds an attribute.
func A(key, val string) Attr { return Attr{Key: key, Val: val} }

// Node is a presentation tree produced by renderers. An element has a Tag; a text node
// has only Text; a node with neither is a fragment whose children are rendered in place.
// Raw carries trusted, already sanitized markup.
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []Node
	Text     string
	Raw      string
}

// El builds an element node.
func El(tag string, attrs []Attr, children ...Node) Node {
	return Node{Tag: tag, Attrs: attrs, Children: children}
}

// Text builds a text node.
func Text(text string) Node { return Node{Text: text} }

// Raw builds a node holding sanitized markup.
func Raw(markup string) Node { return Node{Raw: markup} }

// Fragment groups nodes without a wrapping element.
func Fragment(children ...Node) Node { return Node{Children: children} }

// Attrs is shorthand for building attribute lists from key/value pairs.
func Attrs(pairs ...string) []Attr {
	out := make([]Attr, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Attr{Key: pairs[i], Val: pairs[i+1]})
	}
	return out
}

// Attr returns the value of key.
func (n Node) Attr(key string) (string, bool) {
	for _, attr := range n.Attrs {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// WithAttr returns a copy of n with key set to val.
func (n Node) WithAttr(key, val string) Node {
	attrs := slices.Clone(n.Attrs)
	for i, attr := range attrs {
		if attr.Key == key {
			attrs[i].Val = val
			n.Attrs = attrs
			return n
		}
	}
	n.Attrs = append(attrs, Attr{Key: key, Val: val})
	return n
}

// HasClass reports whether the class attribute lists name.
func (n Node) HasClass(name string) bool {
	classes, _ := n.Attr("class")
	return slices.Contains(strings.Fields(classes), name)
}

// Find returns every node in the tree, n included, matching fn in document order.
func (n Node) Find(fn func(Node) bool) []Node {
	var out []Node
	var walk func(Node)
	walk = func(node Node) {
		if fn(node) {
			out = append(out, node)
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(n)
	return out
}

// FindAttr returns nodes whose attribute key equals val.
func (n Node) FindAttr(key, val string) []Node {
	return n.Find(func(node Node) bool {
		got, ok := node.Attr(key)
		return ok && got == val
	})
}

// TextContent concatenates the text nodes under n.
func (n Node) TextContent() string {
	var b strings.Builder
	var walk func(Node)
	walk = func(node Node) {
		b.WriteString(node.Text)
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}
