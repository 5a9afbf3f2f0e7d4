// Package render walks a design node tree and emits the styled markup tree.
package render

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/dgallion1/figweave/internal/binding"
	"github.com/dgallion1/figweave/internal/markup"
	"github.com/dgallion1/figweave/internal/schema"
	"github.com/dgallion1/figweave/internal/style"
)

// BindingEndpoint is where bound text elements fetch their refreshed value.
const BindingEndpoint = "/api/binding/value"

const defaultPollInterval = 5 * time.Second

// Renderer converts parsed nodes into markup elements. Rendering is a pure
// function of the node plus the pre-populated graphics lookup; the renderer
// holds no mutable state and is safe for concurrent use.
type Renderer struct {
	// Graphics maps vector node ids to inline SVG markup or an image URL.
	// Populated before rendering; empty entries fall back to an empty img.
	Graphics map[string]string

	// PollInterval drives hx-trigger for bindings with a non-"once" trigger.
	PollInterval time.Duration

	Log *slog.Logger
}

// Node parses one raw node mapping and renders it. Validation failure
// degrades to the best-effort container shape, logged, never fatal.
func (r *Renderer) Node(raw json.RawMessage) *markup.Element {
	n, err := schema.ParseNode(raw)
	if err != nil && r.Log != nil {
		r.Log.Warn("node validation failed", "node_id", n.ID, "error", err)
	}
	return r.renderNode(n)
}

func (r *Renderer) renderNode(n *schema.Node) *markup.Element {
	cls := style.Apply(n)

	switch n.Kind {
	case schema.KindText:
		return r.renderText(n, cls)
	case schema.KindVector:
		return r.renderVector(n, cls)
	default:
		el := &markup.Element{Tag: "div", Class: cls}
		for _, c := range n.Children {
			el.Children = append(el.Children, r.renderNode(c))
		}
		return el
	}
}

func (r *Renderer) renderText(n *schema.Node, cls []string) *markup.Element {
	el := &markup.Element{Tag: "p", Class: cls}

	d, tagged, err := binding.ParseDirective(n.Name)
	if !tagged {
		el.Text = n.Characters
		return el
	}
	if err != nil {
		if r.Log != nil {
			r.Log.Warn("binding directive rejected", "node_id", n.ID, "error", err)
		}
		el.Text = "?"
		return el
	}

	trigger := "load"
	if d.Poll() {
		interval := r.PollInterval
		if interval <= 0 {
			interval = defaultPollInterval
		}
		trigger = fmt.Sprintf("every %ds", int(interval.Seconds()))
	}

	el.Text = "..."
	el.Attrs = append(el.Attrs,
		markup.Attr{Key: "hx-get", Val: fmt.Sprintf("%s?src=%s&path=%s", BindingEndpoint, url.QueryEscape(d.Src), d.Path)},
		markup.Attr{Key: "hx-trigger", Val: trigger},
		markup.Attr{Key: "hx-swap", Val: "innerHTML"},
	)
	return el
}

func (r *Renderer) renderVector(n *schema.Node, cls []string) *markup.Element {
	src := r.Graphics[n.ID]
	if markup.IsSVGFragment(src) {
		// Exported markup is trusted and inserted unescaped.
		return &markup.Element{Tag: "div", Class: cls, Raw: src}
	}
	return &markup.Element{
		Tag:   "img",
		Class: cls,
		Attrs: []markup.Attr{
			{Key: "src", Val: src},
			{Key: "alt", Val: n.Name},
		},
	}
}

// Page wraps rendered root subtrees in a full HTML shell: Tailwind and
// DaisyUI for the utility classes, HTMX for the binding swaps.
func (r *Renderer) Page(title string, roots []json.RawMessage) *markup.Element {
	widgets := make([]*markup.Element, 0, len(roots))
	for _, root := range roots {
		widgets = append(widgets, r.Node(root))
	}

	head := &markup.Element{Tag: "head", Children: []*markup.Element{
		{Tag: "meta", Attrs: []markup.Attr{{Key: "charset", Val: "utf-8"}}},
		{Tag: "title", Text: title},
		{Tag: "script", Attrs: []markup.Attr{{Key: "src", Val: "https://cdn.tailwindcss.com"}}},
		{Tag: "link", Attrs: []markup.Attr{
			{Key: "rel", Val: "stylesheet"},
			{Key: "href", Val: "https://cdn.jsdelivr.net/npm/daisyui@5"},
		}},
		{Tag: "script", Attrs: []markup.Attr{{Key: "src", Val: "https://unpkg.com/htmx.org@1.9.12/dist/htmx.min.js"}}},
	}}
	body := &markup.Element{Tag: "body", Children: []*markup.Element{
		{Tag: "div", Class: []string{"widgets-container"}, Children: widgets},
	}}
	return &markup.Element{Tag: "html", Children: []*markup.Element{head, body}}
}
