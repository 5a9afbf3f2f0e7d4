package figma

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// UIMarker prefixes the names of nodes that act as page-level render roots.
const UIMarker = "$ui"

// UIRoots scans the raw document tree once and collects every node whose
// trimmed name begins with the page marker. Matched subtrees are still
// scanned for further matches.
func UIRoots(doc json.RawMessage) []json.RawMessage {
	var roots []json.RawMessage
	var walk func(n gjson.Result)
	walk = func(n gjson.Result) {
		if strings.HasPrefix(strings.TrimSpace(n.Get("name").String()), UIMarker) {
			roots = append(roots, json.RawMessage(n.Raw))
		}
		n.Get("children").ForEach(func(_, child gjson.Result) bool {
			walk(child)
			return true
		})
	}
	walk(gjson.ParseBytes(doc))
	return roots
}

// VectorIDs collects the ids of all vector nodes in a subtree, for graphics
// prefetching.
func VectorIDs(root json.RawMessage) []string {
	var ids []string
	var walk func(n gjson.Result)
	walk = func(n gjson.Result) {
		if n.Get("type").String() == "VECTOR" {
			if id := n.Get("id").String(); id != "" {
				ids = append(ids, id)
			}
		}
		n.Get("children").ForEach(func(_, child gjson.Result) bool {
			walk(child)
			return true
		})
	}
	walk(gjson.ParseBytes(root))
	return ids
}
