package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dgallion1/figweave/internal/schema"
)

// Rule maps one node attribute to style tokens. Exactly one of Enum, Value,
// or WithNode is set, decided when the table is built: Enum is a fixed
// value-to-tokens table, Value is a pure function of the attribute, and
// WithNode additionally receives the whole node for cross-attribute rules.
type Rule struct {
	Attr     string
	Get      func(n *schema.Node) (any, bool)
	Enum     map[string][]string
	Value    func(v any) []string
	WithNode func(v any, n *schema.Node) []string
}

// Apply evaluates the kind-specific rule table against a node, in table
// order, and appends the node name as a trailing literal class token.
func Apply(n *schema.Node) []string {
	var table []Rule
	switch n.Kind {
	case schema.KindText:
		table = TextRules
	case schema.KindVector:
		table = VectorRules
	default:
		table = ContainerRules
	}

	var cls []string
	for _, r := range table {
		cls = append(cls, applyRule(r, n)...)
	}
	if n.Name != "" {
		cls = append(cls, n.Name)
	}
	return cls
}

// applyRule runs a single rule. A rule that panics contributes no tokens;
// one bad rule must not take down the element.
func applyRule(r Rule, n *schema.Node) (tokens []string) {
	defer func() {
		if recover() != nil {
			tokens = nil
		}
	}()

	v, ok := r.Get(n)
	if !ok {
		return nil
	}
	switch {
	case r.Enum != nil:
		key, _ := v.(string)
		return r.Enum[key]
	case r.WithNode != nil:
		return r.WithNode(v, n)
	default:
		return r.Value(v)
	}
}

// ContainerRules is the frame/container table. Order matters only for
// output readability; tokens are a set semantically.
var ContainerRules = []Rule{
	{
		Attr: "layoutMode",
		Get:  func(n *schema.Node) (any, bool) { return n.LayoutMode, n.LayoutMode != "" },
		Enum: map[string][]string{
			"HORIZONTAL": {"flex", "flex-row"},
			"VERTICAL":   {"flex", "flex-col"},
		},
	},
	{
		Attr: "primaryAxisAlignItems",
		Get:  func(n *schema.Node) (any, bool) { return n.PrimaryAxisAlign, n.PrimaryAxisAlign != "" },
		Enum: map[string][]string{
			"MIN":           {"justify-start"},
			"CENTER":        {"justify-center"},
			"MAX":           {"justify-end"},
			"SPACE_BETWEEN": {"justify-between"},
		},
	},
	{
		Attr: "counterAxisAlignItems",
		Get:  func(n *schema.Node) (any, bool) { return n.CounterAxisAlign, n.CounterAxisAlign != "" },
		Enum: map[string][]string{
			"MIN":    {"items-start"},
			"CENTER": {"items-center"},
			"MAX":    {"items-end"},
		},
	},
	{Attr: "itemSpacing", Get: floatAttr(func(n *schema.Node) *float64 { return n.ItemSpacing }), Value: pxToken("gap")},
	{Attr: "paddingTop", Get: floatAttr(func(n *schema.Node) *float64 { return n.PaddingTop }), Value: pxToken("pt")},
	{Attr: "paddingRight", Get: floatAttr(func(n *schema.Node) *float64 { return n.PaddingRight }), Value: pxToken("pr")},
	{Attr: "paddingBottom", Get: floatAttr(func(n *schema.Node) *float64 { return n.PaddingBottom }), Value: pxToken("pb")},
	{Attr: "paddingLeft", Get: floatAttr(func(n *schema.Node) *float64 { return n.PaddingLeft }), Value: pxToken("pl")},
	{Attr: "cornerRadius", Get: floatAttr(func(n *schema.Node) *float64 { return n.CornerRadius }), Value: pxToken("rounded")},
	{
		// Per-corner radii apply only when the uniform radius is absent.
		Attr: "rectangleCornerRadii",
		Get: func(n *schema.Node) (any, bool) {
			return n.CornerRadii, n.CornerRadius == nil && len(n.CornerRadii) == 4
		},
		Value: cornerTokens,
	},
	boundingBoxRule,
	{Attr: "fills", Get: paintsAttr(func(n *schema.Node) []schema.Paint { return n.Fills }), Value: paintTokens("bg")},
	{
		// Cross-attribute rule: a stroke weight with no stroke paint must
		// not produce a visible border.
		Attr: "strokeWeight",
		Get:  floatAttr(func(n *schema.Node) *float64 { return n.StrokeWeight }),
		WithNode: func(v any, n *schema.Node) []string {
			w := v.(float64)
			if w <= 0 || len(n.Strokes) == 0 {
				return nil
			}
			return []string{"border", fmt.Sprintf("border-[%dpx]", int(w))}
		},
	},
	strokeColorRule,
	{
		Attr:  "effects",
		Get:   func(n *schema.Node) (any, bool) { return n.Effects, len(n.Effects) > 0 },
		Value: effectTokens,
	},
}

// TextRules covers typography and text color.
var TextRules = []Rule{
	{
		Attr:  "style",
		Get:   func(n *schema.Node) (any, bool) { return n.Style, n.Style != nil },
		Value: textStyleTokens,
	},
	{Attr: "fills", Get: paintsAttr(func(n *schema.Node) []schema.Paint { return n.Fills }), Value: paintTokens("text")},
}

// VectorRules reuses the container sizing rule and routes fills through the
// stroke-color rule, so a vector's fill becomes a border-color token. That
// mapping is long-standing observed behavior; do not correct it without a
// product decision.
var VectorRules = []Rule{
	boundingBoxRule,
	{
		Attr:  "fills",
		Get:   paintsAttr(func(n *schema.Node) []schema.Paint { return n.Fills }),
		Value: paintTokens("border"),
	},
}

var boundingBoxRule = Rule{
	Attr: "absoluteBoundingBox",
	Get:  func(n *schema.Node) (any, bool) { return n.BoundingBox, n.BoundingBox != nil },
	Value: func(v any) []string {
		b := v.(*schema.Rect)
		return []string{
			fmt.Sprintf("w-[%dpx]", int(b.Width)),
			fmt.Sprintf("h-[%dpx]", int(b.Height)),
		}
	},
}

var strokeColorRule = Rule{
	Attr:  "strokes",
	Get:   paintsAttr(func(n *schema.Node) []schema.Paint { return n.Strokes }),
	Value: paintTokens("border"),
}

func floatAttr(get func(n *schema.Node) *float64) func(n *schema.Node) (any, bool) {
	return func(n *schema.Node) (any, bool) {
		p := get(n)
		if p == nil {
			return nil, false
		}
		return *p, true
	}
}

func paintsAttr(get func(n *schema.Node) []schema.Paint) func(n *schema.Node) (any, bool) {
	return func(n *schema.Node) (any, bool) {
		paints := get(n)
		return paints, len(paints) > 0
	}
}

// pxToken emits one integer-pixel token, e.g. gap-[8px]. Values truncate,
// matching the source renderer.
func pxToken(prefix string) func(v any) []string {
	return func(v any) []string {
		return []string{fmt.Sprintf("%s-[%dpx]", prefix, int(v.(float64)))}
	}
}

func cornerTokens(v any) []string {
	radii := v.([]float64)
	corners := []string{"tl", "tr", "br", "bl"}
	tokens := make([]string, 0, 4)
	for i, c := range corners {
		tokens = append(tokens, fmt.Sprintf("rounded-%s-[%dpx]", c, int(radii[i])))
	}
	return tokens
}

// paintTokens emits one rgba token per solid paint with a color. Other
// paint types are skipped silently.
func paintTokens(prefix string) func(v any) []string {
	return func(v any) []string {
		paints := v.([]schema.Paint)
		var tokens []string
		for _, p := range paints {
			if p.Type != "SOLID" || p.Color == nil {
				continue
			}
			tokens = append(tokens, fmt.Sprintf("%s-[%s]", prefix, rgba(*p.Color)))
		}
		return tokens
	}
}

func effectTokens(v any) []string {
	effects := v.([]schema.Effect)
	var tokens []string
	for _, e := range effects {
		if e.Color == nil || e.Offset == nil || e.Radius == nil {
			continue
		}
		switch e.Type {
		case "DROP_SHADOW":
			tokens = append(tokens, shadowToken(e))
		case "INNER_SHADOW":
			tokens = append(tokens, "shadow-inner", shadowToken(e))
		}
		// Blur kinds emit nothing. Known gap, left as observed.
	}
	return tokens
}

func shadowToken(e schema.Effect) string {
	return fmt.Sprintf("shadow-[%dpx_%dpx_%dpx_%s]",
		int(e.Offset.X), int(e.Offset.Y), int(*e.Radius), rgba(*e.Color))
}

func textStyleTokens(v any) []string {
	s := v.(*schema.TextStyle)
	var tokens []string
	if s.FontSize != nil {
		tokens = append(tokens, fmt.Sprintf("text-[%dpx]", int(*s.FontSize)))
	}
	if s.FontWeight != nil {
		switch w := *s.FontWeight; {
		case w >= 700:
			tokens = append(tokens, "font-bold")
		case w >= 500:
			tokens = append(tokens, "font-medium")
		}
	}
	if s.LineHeightPx != nil {
		tokens = append(tokens, fmt.Sprintf("leading-[%dpx]", int(*s.LineHeightPx)))
	}
	if s.LetterSpacing != nil {
		tokens = append(tokens, fmt.Sprintf("tracking-[%dpx]", int(*s.LetterSpacing)))
	}
	if s.TextAlignHorizontal != "" {
		tokens = append(tokens, "text-"+strings.ToLower(s.TextAlignHorizontal))
	}
	return tokens
}

// rgba renders a color as rgba(r,g,b,a) with channels truncated to 0-255
// and alpha passed through in its shortest float form.
func rgba(c schema.Color) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)",
		int(c.R*255), int(c.G*255), int(c.B*255),
		strconv.FormatFloat(c.A, 'g', -1, 64))
}
