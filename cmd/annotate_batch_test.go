package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	cfgpkg "github.com/brand-zz/markdown-summarizer/internal/config"
)

type testBackend struct {
	URL string
	srv *http.Server
}

func newTestBackend(t *testing.T, handler http.Handler) *testBackend {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) {
			t.Skipf("skipping test: cannot open local listener (%v)", err)
		}
		t.Fatalf("listen tcp4: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(fmt.Sprintf("test backend serve: %v", err))
		}
	}()
	return &testBackend{URL: "http://" + ln.Addr().String(), srv: srv}
}

func (b *testBackend) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = b.srv.Shutdown(ctx)
}

// pointAtBackend routes API calls to the fake backend and installs a minimal
// config; both are restored on cleanup.
func pointAtBackend(t *testing.T, url string) {
	t.Helper()
	oldBase, oldCfg := apiBaseURL, cfg
	t.Cleanup(func() { apiBaseURL, cfg = oldBase, oldCfg })
	apiBaseURL = url
	cfg = &cfgpkg.Global{APIKey: "test", RetryMaxAttempts: 1}
}

func runBatch(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	defer rootCmd.SetOut(nil)
	defer rootCmd.SetErr(nil)
	rootCmd.SetArgs(append([]string{"annotate-batch"}, args...))
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAnnotateBatchContinuesPastErrors(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":generateContent") {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"candidates": []any{map[string]any{"content": map[string]any{
					"parts": []any{map[string]any{"text": "description: d\nkeywords: [a, b]"}},
				}}},
			})
			return
		}
		http.NotFound(w, r)
	}))
	defer backend.Close()
	pointAtBackend(t, backend.URL)

	dir := t.TempDir()
	good := filepath.Join(dir, "good.md")
	if err := os.WriteFile(good, []byte("# Title\n\nBody.\n"), 0o644); err != nil {
		t.Fatalf("write good.md: %v", err)
	}
	missing := filepath.Join(dir, "missing.md")

	stdout, stderr, err := runBatch(t, missing, good)
	if err != nil {
		t.Fatalf("batch run must not fail, got %v", err)
	}

	got, err := os.ReadFile(good)
	if err != nil {
		t.Fatalf("read good.md: %v", err)
	}
	if !bytes.HasPrefix(got, []byte("---\n")) {
		t.Fatalf("good file was not updated: %q", got)
	}
	if !strings.Contains(stderr, missing) {
		t.Fatalf("missing-file error not reported: %q", stderr)
	}
	if !strings.Contains(stdout, "[2/2]") {
		t.Fatalf("run stopped before the second file: %q", stdout)
	}
}

func TestAnnotateBatchShowsModelDiagnosticOnce(t *testing.T) {
	backend := newTestBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":generateContent"):
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"status": "NOT_FOUND", "message": "model nope is not found"},
			})
		case r.Method == http.MethodGet && r.URL.Path == "/models":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"models": []any{map[string]any{
					"name":                       "models/gemini-2.5-pro",
					"supportedGenerationMethods": []string{"generateContent"},
				}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer backend.Close()
	pointAtBackend(t, backend.URL)

	dir := t.TempDir()
	files := []string{filepath.Join(dir, "a.md"), filepath.Join(dir, "b.md")}
	for _, p := range files {
		if err := os.WriteFile(p, []byte("Body.\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}

	_, stderr, err := runBatch(t, files[0], files[1])
	if err != nil {
		t.Fatalf("batch run must not fail, got %v", err)
	}
	for _, p := range files {
		if !strings.Contains(stderr, p) {
			t.Fatalf("error for %s not reported: %q", p, stderr)
		}
		got, readErr := os.ReadFile(p)
		if readErr != nil {
			t.Fatalf("read %s: %v", p, readErr)
		}
		if string(got) != "Body.\n" {
			t.Fatalf("failed file was modified: %q", got)
		}
	}
	if n := strings.Count(stderr, "Attempting to list available models..."); n != 1 {
		t.Fatalf("model diagnostic shown %d times, want once:\n%s", n, stderr)
	}
	if !strings.Contains(stderr, "gemini-2.5-pro") {
		t.Fatalf("available model not listed in diagnostic: %q", stderr)
	}
}
