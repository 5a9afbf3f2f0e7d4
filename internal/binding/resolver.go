package binding

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Responses larger than this are cut off; binding sources are expected to
// be small JSON documents.
const maxBodyBytes = 4 << 20

// FetchError reports a transport or status failure against the binding
// source. Callers decide whether to surface it or substitute a placeholder.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PathError reports a dotted path that did not resolve in the fetched
// document.
type PathError struct {
	Path string
	Key  string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %q: key %q not found", e.Path, e.Key)
}

// Resolver fetches a JSON document and extracts one value by dotted path.
// It is stateless beyond its HTTP client; concurrent use is safe.
type Resolver struct {
	client *http.Client
}

func NewResolver(timeout time.Duration) *Resolver {
	return &Resolver{
		client: &http.Client{Timeout: timeout},
	}
}

// Resolve GETs src, parses the body as JSON, and walks path one key at a
// time. Every step must land on a keyed mapping until the final key. The
// resolved value is returned in textual form (42 -> "42", true -> "true").
// Resolve never substitutes a placeholder; that is the caller's contract.
func (r *Resolver) Resolve(ctx context.Context, src, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", &FetchError{URL: src, Err: err}
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: src, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{URL: src, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &FetchError{URL: src, Err: err}
	}
	if !gjson.ValidBytes(body) {
		return "", &FetchError{URL: src, Err: fmt.Errorf("response is not valid json")}
	}

	cur := gjson.ParseBytes(body)
	for _, key := range strings.Split(path, ".") {
		if !cur.IsObject() {
			return "", &PathError{Path: path, Key: key}
		}
		next, ok := cur.Map()[key]
		if !ok {
			return "", &PathError{Path: path, Key: key}
		}
		cur = next
	}
	return cur.String(), nil
}
