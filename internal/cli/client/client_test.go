package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func envelope(data any) string {
	b, _ := json.Marshal(map[string]any{
		"code":    "OK",
		"message": "success",
		"data":    data,
	})
	return string(b)
}

func TestClient_Links(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/get_links" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer lmad_test123" {
			t.Errorf("Authorization = %q", got)
		}
		io.WriteString(w, envelope(map[string]any{
			"links": map[string]string{"user-1": "https://go.example.com/api?code=abc"},
		}))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "lmad_test123")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	links, err := c.Links(context.Background())
	if err != nil {
		t.Fatalf("Links() error = %v", err)
	}
	if links["user-1"] != "https://go.example.com/api?code=abc" {
		t.Errorf("links = %v", links)
	}
}

func TestClient_PutRoutingTable_GzipsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %q", r.Method)
		}
		if got := r.Header.Get("Content-Encoding"); got != "gzip" {
			t.Errorf("Content-Encoding = %q", got)
		}
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			t.Fatalf("gzip reader: %v", err)
		}
		body, _ := io.ReadAll(gz)
		if !strings.Contains(string(body), "target.example.com") {
			t.Errorf("body = %q", body)
		}
		io.WriteString(w, envelope(map[string]int{"entries": 1}))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "lmad_test123")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	n, err := c.PutRoutingTable(context.Background(),
		strings.NewReader(`{"user-1":{"url":"https://target.example.com"}}`))
	if err != nil {
		t.Fatalf("PutRoutingTable() error = %v", err)
	}
	if n != 1 {
		t.Errorf("entries = %d, want 1", n)
	}
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"code":"LM-ROUT-4290","message":"routing table busy, try again"}`)
	}))
	defer srv.Close()

	c, err := New(srv.URL, "lmad_test123")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_, err = c.PatchRoutingTable(context.Background(), strings.NewReader("{}"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "LM-ROUT-4290") {
		t.Errorf("error = %v, want LM-ROUT-4290", err)
	}
}

func TestNew_SchemeDefault(t *testing.T) {
	c, err := New("localhost:5080", "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.BaseURL() != "http://localhost:5080" {
		t.Errorf("BaseURL = %q", c.BaseURL())
	}
}
