package markup

import "testing"

func TestRender_NestedElements(t *testing.T) {
	el := &Element{
		Tag:   "div",
		Class: []string{"flex", "flex-col"},
		Children: []*Element{
			{Tag: "p", Text: "hello"},
			{Tag: "p", Text: "world"},
		},
	}
	want := `<div class="flex flex-col"><p>hello</p><p>world</p></div>`
	if got := el.Render(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_ChildOrderPreserved(t *testing.T) {
	el := &Element{Tag: "div", Children: []*Element{
		{Tag: "p", Text: "1"},
		{Tag: "p", Text: "2"},
		{Tag: "p", Text: "3"},
	}}
	want := `<div><p>1</p><p>2</p><p>3</p></div>`
	if got := el.Render(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_TextEscaped(t *testing.T) {
	el := &Element{Tag: "p", Text: `<script>alert("x")</script>`}
	want := `<p>&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;</p>`
	if got := el.Render(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_AttrsEscapedAndOrdered(t *testing.T) {
	el := &Element{
		Tag: "p",
		Attrs: []Attr{
			{Key: "hx-get", Val: "/api/binding/value?src=a&path=b"},
			{Key: "hx-trigger", Val: "load"},
		},
		Text: "...",
	}
	want := `<p hx-get="/api/binding/value?src=a&amp;path=b" hx-trigger="load">...</p>`
	if got := el.Render(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_VoidElement(t *testing.T) {
	el := &Element{Tag: "img", Attrs: []Attr{{Key: "src", Val: "x.svg"}, {Key: "alt", Val: "icon"}}}
	want := `<img src="x.svg" alt="icon">`
	if got := el.Render(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_RawEmittedVerbatim(t *testing.T) {
	svg := `<svg viewBox="0 0 24 24"><path d="M0 0h24v24H0z"/></svg>`
	el := &Element{Tag: "div", Raw: svg}
	want := `<div>` + svg + `</div>`
	if got := el.Render(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_Idempotent(t *testing.T) {
	el := &Element{
		Tag:   "div",
		Class: []string{"a", "b"},
		Children: []*Element{
			{Tag: "p", Text: "x", Attrs: []Attr{{Key: "id", Val: "p1"}}},
		},
	}
	if first, second := el.Render(), el.Render(); first != second {
		t.Errorf("expected byte-identical renders: %q vs %q", first, second)
	}
}

func TestDocument(t *testing.T) {
	got := Document(&Element{Tag: "html", Children: []*Element{{Tag: "body"}}})
	want := `<!doctype html><html><body></body></html>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIsSVGFragment(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{`<svg viewBox="0 0 24 24"><path d="M0 0z"/></svg>`, true},
		{"  <svg></svg>  ", true},
		{"https://cdn.example.com/icon.svg", false},
		{"", false},
		{"<div><svg></svg></div>", false},
		{"plain text", false},
	}
	for _, tc := range cases {
		if got := IsSVGFragment(tc.in); got != tc.want {
			t.Errorf("IsSVGFragment(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
