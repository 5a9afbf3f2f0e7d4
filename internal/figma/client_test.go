package figma

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseFileURL(t *testing.T) {
	cases := []struct {
		url     string
		key     string
		name    string
		wantErr bool
	}{
		{"https://www.figma.com/design/4zPVSizRrtpANhJoTejFYu/myProject?t=abc", "4zPVSizRrtpANhJoTejFYu", "myProject", false},
		{"https://www.figma.com/file/AbC123/landing-page", "AbC123", "landing-page", false},
		{"http://www.figma.com/design/Key9/name/extra", "Key9", "name", false},
		{"https://www.figma.com/proto/AbC123/x", "", "", true},
		{"https://example.com/design/AbC123/x", "", "", true},
		{"not a url", "", "", true},
	}
	for _, tc := range cases {
		key, name, err := ParseFileURL(tc.url)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidSourceURL) {
				t.Errorf("url %q: expected ErrInvalidSourceURL, got %v", tc.url, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("url %q: unexpected error: %v", tc.url, err)
			continue
		}
		if key != tc.key || name != tc.name {
			t.Errorf("url %q: got (%q, %q), want (%q, %q)", tc.url, key, name, tc.key, tc.name)
		}
	}
}

func TestFile_SendsTokenAndReturnsDocument(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Figma-Token")
		if r.URL.Path != "/v1/files/KEY1" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"name":"file","document":{"id":"0:0","type":"DOCUMENT","children":[]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", time.Second, 2, discardLogger())
	doc, err := c.File(context.Background(), "KEY1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotToken != "secret" {
		t.Errorf("expected token header, got %q", gotToken)
	}
	if !strings.Contains(string(doc), `"id":"0:0"`) {
		t.Errorf("unexpected document: %s", doc)
	}
}

func TestFile_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"err":"forbidden"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", time.Second, 2, discardLogger())
	_, err := c.File(context.Background(), "KEY1")
	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if ferr.Status != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", ferr.Status)
	}
}

func TestFile_MissingDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"file"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second, 2, discardLogger())
	if _, err := c.File(context.Background(), "KEY1"); err == nil {
		t.Fatal("expected error for response without document")
	}
}

func TestGraphicsLookup_FailuresMapToEmptyString(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v1/images/"):
			w.Write([]byte(`{"err":"","images":{` +
				`"1:1":"` + srv.URL + `/svg/ok",` +
				`"1:2":"` + srv.URL + `/svg/broken",` +
				`"1:3":""}}`))
		case r.URL.Path == "/svg/ok":
			w.Write([]byte(`<svg viewBox="0 0 24 24"></svg>`))
		case r.URL.Path == "/svg/broken":
			http.Error(w, "gone", http.StatusNotFound)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second, 2, discardLogger())
	lookup := c.GraphicsLookup(context.Background(), "KEY1", []string{"1:1", "1:2", "1:3"})

	if lookup["1:1"] != `<svg viewBox="0 0 24 24"></svg>` {
		t.Errorf("expected svg markup for 1:1, got %q", lookup["1:1"])
	}
	if lookup["1:2"] != "" {
		t.Errorf("expected empty entry for failed fetch, got %q", lookup["1:2"])
	}
	if lookup["1:3"] != "" {
		t.Errorf("expected empty entry for missing url, got %q", lookup["1:3"])
	}
}

func TestGraphicsLookup_MixedExportability(t *testing.T) {
	// Half the ids have no export URL and settle on the caller side while
	// fetch goroutines for the other half are in flight. Run wide enough
	// that the race detector would catch an unsynchronized lookup write.
	const n = 16
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v1/images/"):
			entries := make([]string, 0, n)
			for i := 0; i < n; i++ {
				u := ""
				if i%2 == 0 {
					u = srv.URL + "/svg/icon"
				}
				entries = append(entries, `"2:`+strconv.Itoa(i)+`":"`+u+`"`)
			}
			w.Write([]byte(`{"err":"","images":{` + strings.Join(entries, ",") + `}}`))
		case r.URL.Path == "/svg/icon":
			w.Write([]byte(`<svg></svg>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, "2:"+strconv.Itoa(i))
	}

	c := NewClient(srv.URL, "tok", time.Second, 8, discardLogger())
	lookup := c.GraphicsLookup(context.Background(), "KEY1", ids)

	if len(lookup) != n {
		t.Fatalf("expected %d entries, got %d", n, len(lookup))
	}
	for i, id := range ids {
		want := ""
		if i%2 == 0 {
			want = `<svg></svg>`
		}
		if lookup[id] != want {
			t.Errorf("id %s: expected %q, got %q", id, want, lookup[id])
		}
	}
}

func TestGraphicsLookup_ExportFailureDegradesAllIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", time.Second, 2, discardLogger())
	lookup := c.GraphicsLookup(context.Background(), "KEY1", []string{"1:1", "1:2"})
	if len(lookup) != 2 || lookup["1:1"] != "" || lookup["1:2"] != "" {
		t.Errorf("expected empty entries for all ids, got %v", lookup)
	}
}

func TestGraphicsLookup_NoIDs(t *testing.T) {
	c := NewClient("http://unused", "tok", time.Second, 2, discardLogger())
	if lookup := c.GraphicsLookup(context.Background(), "KEY1", nil); len(lookup) != 0 {
		t.Errorf("expected empty lookup, got %v", lookup)
	}
}
