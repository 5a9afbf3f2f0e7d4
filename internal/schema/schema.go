package schema

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the three node variants. It is fixed at parse time:
// rendering decides everything else from it.
type Kind int

const (
	KindContainer Kind = iota
	KindText
	KindVector
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindVector:
		return "vector"
	default:
		return "container"
	}
}

// KindOf maps a raw node type discriminant to a Kind. Unrecognized types
// fall back to KindContainer so unfamiliar node kinds still render as a
// plain box instead of failing the tree.
func KindOf(t string) Kind {
	switch t {
	case "TEXT":
		return KindText
	case "VECTOR":
		return KindVector
	default:
		return KindContainer
	}
}

// Color is an RGBA color with channels in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Rect is a bounding box. Position is carried by the source document but
// ignored by the transform.
type Rect struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Vec is a 2D offset, used by shadow effects.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Paint describes one fill or stroke layer. Only type SOLID with a present
// color produces visual output; other paint types are kept but ignored.
type Paint struct {
	Type  string `json:"type"`
	Color *Color `json:"color,omitempty"`
}

// Effect describes a visual post-processing layer. Shadow kinds carry
// color/offset/radius; blur kinds only radius.
type Effect struct {
	Type   string   `json:"type"`
	Color  *Color   `json:"color,omitempty"`
	Offset *Vec     `json:"offset,omitempty"`
	Radius *float64 `json:"radius,omitempty"`
	Spread *float64 `json:"spread,omitempty"`
}

// TextStyle is the typography subset the transform maps to tokens.
type TextStyle struct {
	FontSize            *float64 `json:"fontSize,omitempty"`
	FontWeight          *float64 `json:"fontWeight,omitempty"`
	LineHeightPx        *float64 `json:"lineHeightPx,omitempty"`
	LetterSpacing       *float64 `json:"letterSpacing,omitempty"`
	TextAlignHorizontal string   `json:"textAlignHorizontal,omitempty"`
}

// Node is one element of the design document tree. A single struct covers
// all three kinds; Kind determines which attribute subset is meaningful.
// Nodes are built once per document fetch and never mutated afterwards.
type Node struct {
	Kind Kind
	ID   string
	Name string

	// Container only.
	Children         []*Node
	LayoutMode       string
	PrimaryAxisAlign string
	CounterAxisAlign string
	ItemSpacing      *float64
	PaddingTop       *float64
	PaddingRight     *float64
	PaddingBottom    *float64
	PaddingLeft      *float64
	CornerRadius     *float64
	CornerRadii      []float64 // per-corner [tl tr br bl]; used only when CornerRadius is absent

	// All kinds.
	Fills        []Paint
	Strokes      []Paint
	StrokeWeight *float64
	Effects      []Effect
	BoundingBox  *Rect

	// Text only.
	Characters string
	Style      *TextStyle

	// Unrecognized or undecodable input fields, preserved opaquely.
	Extra map[string]json.RawMessage
}

// SchemaError reports a node that failed required-field validation.
// Parsing still returns a best-effort node alongside it.
type SchemaError struct {
	NodeID string
	Field  string
}

func (e *SchemaError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("node: missing required field %q", e.Field)
	}
	return fmt.Sprintf("node %s: missing required field %q", e.NodeID, e.Field)
}

// ParseNode converts one raw node mapping into its typed form, recursively
// parsing children. Individual fields that fail to decode are kept in Extra
// and skipped; they never abort the rest of the node. A missing id returns
// a *SchemaError together with the best-effort node, so callers can keep
// rendering the degraded shape.
func ParseNode(raw json.RawMessage) (*Node, error) {
	n := &Node{Kind: KindContainer}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return n, &SchemaError{Field: "node"}
	}

	consumed := make(map[string]bool, len(fields))

	var typ string
	decodeField(fields, consumed, "type", &typ)
	n.Kind = KindOf(typ)

	decodeField(fields, consumed, "id", &n.ID)
	decodeField(fields, consumed, "name", &n.Name)
	decodeField(fields, consumed, "layoutMode", &n.LayoutMode)
	decodeField(fields, consumed, "primaryAxisAlignItems", &n.PrimaryAxisAlign)
	decodeField(fields, consumed, "counterAxisAlignItems", &n.CounterAxisAlign)
	decodeField(fields, consumed, "itemSpacing", &n.ItemSpacing)
	decodeField(fields, consumed, "paddingTop", &n.PaddingTop)
	decodeField(fields, consumed, "paddingRight", &n.PaddingRight)
	decodeField(fields, consumed, "paddingBottom", &n.PaddingBottom)
	decodeField(fields, consumed, "paddingLeft", &n.PaddingLeft)
	decodeField(fields, consumed, "cornerRadius", &n.CornerRadius)
	decodeField(fields, consumed, "rectangleCornerRadii", &n.CornerRadii)
	decodeField(fields, consumed, "fills", &n.Fills)
	decodeField(fields, consumed, "strokes", &n.Strokes)
	decodeField(fields, consumed, "strokeWeight", &n.StrokeWeight)
	decodeField(fields, consumed, "effects", &n.Effects)
	decodeField(fields, consumed, "absoluteBoundingBox", &n.BoundingBox)
	decodeField(fields, consumed, "characters", &n.Characters)
	decodeField(fields, consumed, "style", &n.Style)

	if rawChildren, ok := fields["children"]; ok {
		var children []json.RawMessage
		if err := json.Unmarshal(rawChildren, &children); err == nil {
			consumed["children"] = true
			n.Children = make([]*Node, 0, len(children))
			for _, c := range children {
				// A malformed child degrades to its own best-effort
				// shape; it never drops siblings.
				child, _ := ParseNode(c)
				n.Children = append(n.Children, child)
			}
		}
	}

	for key, rawv := range fields {
		if !consumed[key] {
			if n.Extra == nil {
				n.Extra = make(map[string]json.RawMessage)
			}
			n.Extra[key] = rawv
		}
	}

	if n.ID == "" {
		return n, &SchemaError{NodeID: n.ID, Field: "id"}
	}
	return n, nil
}

// decodeField decodes one input field into a temporary and assigns it only
// on success. Unmarshal can leave a partially filled value behind on
// failure (a pointer field already allocated, a slice with some elements
// decoded), and the attribute must stay absent in that case.
func decodeField[T any](fields map[string]json.RawMessage, consumed map[string]bool, key string, dst *T) {
	rawv, ok := fields[key]
	if !ok {
		return
	}
	var tmp T
	if err := json.Unmarshal(rawv, &tmp); err != nil {
		return
	}
	*dst = tmp
	consumed[key] = true
}
