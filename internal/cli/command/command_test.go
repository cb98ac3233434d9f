package command

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runApp(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()

	app := App()
	var out bytes.Buffer
	app.Writer = &out

	full := append([]string{
		"linkmesh-cli",
		"--server", serverURL,
		"--admin-token", "lmad_test123",
	}, args...)
	err := app.Run(full)
	return out.String(), err
}

func TestRoutesPut(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		io.WriteString(w, `{"code":"OK","message":"success","data":{"entries":2}}`)
	}))
	defer srv.Close()

	tableFile := filepath.Join(t.TempDir(), "table.json")
	if err := os.WriteFile(tableFile, []byte(`{"a":{"url":"https://one.example.com"},"b":{"url":"https://two.example.com"}}`), 0600); err != nil {
		t.Fatal(err)
	}

	out, err := runApp(t, srv.URL, "routes", "put", "-f", tableFile)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if !strings.Contains(out, "replaced: 2 entries") {
		t.Errorf("output = %q", out)
	}
}

func TestRoutesPatch(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		io.WriteString(w, `{"code":"OK","message":"success","data":{"entries":3}}`)
	}))
	defer srv.Close()

	tableFile := filepath.Join(t.TempDir(), "table.json")
	if err := os.WriteFile(tableFile, []byte(`{"c":{"url":"https://three.example.com"}}`), 0600); err != nil {
		t.Fatal(err)
	}

	out, err := runApp(t, srv.URL, "routes", "patch", "-f", tableFile)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("method = %q, want PATCH", gotMethod)
	}
	if !strings.Contains(out, "merged: 3 entries") {
		t.Errorf("output = %q", out)
	}
}

func TestLinks_TableOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":"OK","message":"success","data":{"links":{"user-1":"http://s/api?code=abc","user-2":"http://s/api?code=def"}}}`)
	}))
	defer srv.Close()

	out, err := runApp(t, srv.URL, "links")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out, "ID") || !strings.Contains(out, "user-1") {
		t.Errorf("output = %q", out)
	}
	if strings.Index(out, "user-1") > strings.Index(out, "user-2") {
		t.Errorf("output not sorted:\n%s", out)
	}
}

func TestCodes_JSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"code":"OK","message":"success","data":{"codes":{"user-1":"abcdefgh12345678"}}}`)
	}))
	defer srv.Close()

	out, err := runApp(t, srv.URL, "--output", "json", "codes")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out, `"user-1": "abcdefgh12345678"`) {
		t.Errorf("output = %q", out)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q", r.URL.Path)
		}
		io.WriteString(w, `{"code":"OK","message":"success","data":{"status":"ok","version":"dev","entries":5}}`)
	}))
	defer srv.Close()

	out, err := runApp(t, srv.URL, "health")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if !strings.Contains(out, "server is healthy") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "entries: 5") {
		t.Errorf("output = %q", out)
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"code":"LM-ROUT-4290","message":"routing table busy, try again"}`)
	}))
	defer srv.Close()

	tableFile := filepath.Join(t.TempDir(), "table.json")
	if err := os.WriteFile(tableFile, []byte(`{}`), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := runApp(t, srv.URL, "routes", "put", "-f", tableFile)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "LM-ROUT-4290") {
		t.Errorf("error = %v", err)
	}
}
