package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr is one attribute on an element. Attribute order is preserved in the
// serialized output.
type Attr struct {
	Key string
	Val string
}

// Element is one node of the output markup tree. It is a plain value:
// rendering never mutates it, so rendering twice is byte-identical.
//
// Text is escaped on output; Raw is emitted verbatim and reserved for
// trusted graphics fragments. When Raw is set, Text and Children are
// ignored.
type Element struct {
	Tag      string
	Class    []string
	Attrs    []Attr
	Text     string
	Raw      string
	Children []*Element
}

var voidTags = map[string]bool{
	"img":  true,
	"link": true,
	"meta": true,
	"br":   true,
	"hr":   true,
}

// Render serializes the element and its subtree to HTML.
func (e *Element) Render() string {
	var b strings.Builder
	e.writeTo(&b)
	return b.String()
}

func (e *Element) writeTo(b *strings.Builder) {
	b.WriteString("<")
	b.WriteString(e.Tag)
	if len(e.Class) > 0 {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(strings.Join(e.Class, " ")))
		b.WriteString(`"`)
	}
	for _, a := range e.Attrs {
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	if voidTags[e.Tag] {
		return
	}
	switch {
	case e.Raw != "":
		b.WriteString(e.Raw)
	case e.Text != "":
		b.WriteString(html.EscapeString(e.Text))
	default:
		for _, c := range e.Children {
			c.writeTo(b)
		}
	}
	b.WriteString("</")
	b.WriteString(e.Tag)
	b.WriteString(">")
}

// Document renders a full page: doctype plus the root element.
func Document(root *Element) string {
	return "<!doctype html>" + root.Render()
}

// IsSVGFragment reports whether s is inline SVG markup: it must start with
// an svg open tag and parse to an svg root element. Anything else is
// treated as a URL by the caller.
func IsSVGFragment(s string) bool {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "<svg") {
		return false
	}
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(t), ctx)
	if err != nil {
		return false
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			return n.Data == "svg"
		}
	}
	return false
}
