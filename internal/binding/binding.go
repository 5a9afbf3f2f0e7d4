// Package binding implements the live data-binding protocol: a directive
// embedded in a text node's name names a JSON source URL and a dotted path,
// and the resolver fetches and extracts that value on demand.
package binding

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Marker prefixes a text node name that carries a binding directive. The
// remainder of the name is the directive payload.
const Marker = "$bind"

// Directive is the decoded binding payload.
type Directive struct {
	Src     string `json:"src"`
	Path    string `json:"path"`
	Trigger string `json:"trigger"`
}

// Poll reports whether the binding refreshes on an interval rather than
// once on load.
func (d *Directive) Poll() bool {
	return d.Trigger != "once"
}

// DirectiveError reports a malformed binding payload. The rendered text
// degrades to "?" and no refresh attributes are attached.
type DirectiveError struct {
	Name string
	Err  error
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("binding directive %q: %v", e.Name, e.Err)
}

func (e *DirectiveError) Unwrap() error { return e.Err }

// ParseDirective checks a text node name for the binding marker. The second
// return value reports whether the marker was present at all; when it is,
// a nil error guarantees a directive with src and path set and a trigger
// defaulted to "once".
func ParseDirective(name string) (*Directive, bool, error) {
	s := strings.TrimSpace(name)
	if !strings.HasPrefix(s, Marker) {
		return nil, false, nil
	}
	payload := strings.TrimSpace(strings.TrimPrefix(s, Marker))

	var d Directive
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		return nil, true, &DirectiveError{Name: name, Err: err}
	}
	if d.Src == "" {
		return nil, true, &DirectiveError{Name: name, Err: fmt.Errorf("missing src")}
	}
	if d.Path == "" {
		return nil, true, &DirectiveError{Name: name, Err: fmt.Errorf("missing path")}
	}
	if d.Trigger == "" {
		d.Trigger = "once"
	}
	return &d, true, nil
}
