// Package figma talks to the design document source: file fetch, vector
// graphics export, and source URL parsing.
package figma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
)

// ErrInvalidSourceURL is returned when a configured file URL does not match
// the documents-by-key shape. It is fatal at startup.
var ErrInvalidSourceURL = errors.New("invalid figma file url")

var fileURLPattern = regexp.MustCompile(`^https?://www\.figma\.com/(?:file|design)/([A-Za-z0-9]+)/([^/?]+)`)

// Upstream responses are read through this cap; design documents can be
// large but not unbounded.
const maxBodyBytes = 32 << 20

// ParseFileURL extracts the file key and name segment from a file or design
// URL.
func ParseFileURL(raw string) (fileKey, name string, err error) {
	m := fileURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSourceURL, raw)
	}
	return m[1], m[2], nil
}

// FetchError reports a transport or status failure against the document
// source. Document fetch failures propagate; graphics fetch failures are
// contained at the lookup-building site.
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

// Client communicates with the document source HTTP API.
type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	log         *slog.Logger
	concurrency int
}

func NewClient(baseURL, token string, timeout time.Duration, concurrency int, log *slog.Logger) *Client {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		token:       token,
		httpClient:  &http.Client{Timeout: timeout},
		log:         log,
		concurrency: concurrency,
	}
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}
	req.Header.Set("X-Figma-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: u, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{URL: u, Err: err}
	}
	return body, nil
}

// File fetches a document by key and returns its root node tree.
func (c *Client) File(ctx context.Context, fileKey string) (json.RawMessage, error) {
	body, err := c.get(ctx, c.baseURL+"/v1/files/"+fileKey)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Document json.RawMessage `json:"document"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode file %s: %w", fileKey, err)
	}
	if len(payload.Document) == 0 {
		return nil, fmt.Errorf("file %s: response has no document", fileKey)
	}
	return payload.Document, nil
}

// ImageURLs asks the source to export the given node ids as SVG and returns
// the per-id download URLs.
func (c *Client) ImageURLs(ctx context.Context, fileKey string, ids []string) (map[string]string, error) {
	u := fmt.Sprintf("%s/v1/images/%s?ids=%s&format=svg",
		c.baseURL, fileKey, url.QueryEscape(strings.Join(ids, ",")))
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Err    string            `json:"err"`
		Images map[string]string `json:"images"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode image urls: %w", err)
	}
	if payload.Err != "" {
		return nil, fmt.Errorf("image export: %s", payload.Err)
	}
	return payload.Images, nil
}

// FetchSVG downloads one exported graphics document. The export URLs are
// pre-signed, so no token header is sent.
func (c *Client) FetchSVG(ctx context.Context, svgURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, svgURL, nil)
	if err != nil {
		return "", &FetchError{URL: svgURL, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: svgURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: svgURL, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &FetchError{URL: svgURL, Err: err}
	}
	return string(body), nil
}

// GraphicsLookup builds the id-to-markup mapping the renderer consumes,
// fetching exports with bounded concurrency. Any per-id failure is logged
// and mapped to an empty string; it never aborts the rest of the lookup.
func (c *Client) GraphicsLookup(ctx context.Context, fileKey string, ids []string) map[string]string {
	lookup := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return lookup
	}

	urls, err := c.ImageURLs(ctx, fileKey, ids)
	if err != nil {
		c.log.Warn("graphics export failed", "file_key", fileKey, "error", err)
		for _, id := range ids {
			lookup[id] = ""
		}
		return lookup
	}

	// Settle ids with no export URL before any fetch goroutine starts, so
	// lookup is only ever written under mu once goroutines are running.
	var pending []string
	for _, id := range ids {
		if urls[id] == "" {
			lookup[id] = ""
		} else {
			pending = append(pending, id)
		}
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, c.concurrency)

	for _, id := range pending {
		svgURL := urls[id]
		wg.Add(1)
		sem <- struct{}{}
		go func(id, svgURL string) {
			defer wg.Done()
			defer func() { <-sem }()

			svg, err := c.FetchSVG(ctx, svgURL)
			if err != nil {
				c.log.Warn("graphics fetch failed", "node_id", id, "error", err)
				svg = ""
			}
			mu.Lock()
			lookup[id] = svg
			mu.Unlock()
		}(id, svgURL)
	}
	wg.Wait()
	return lookup
}
