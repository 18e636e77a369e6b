package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"testing"
	"time"
)

func TestLookupModelIgnoresPrefix(t *testing.T) {
	mi, ok := LookupModel("models/gemini-2.5-flash-lite")
	if !ok {
		t.Fatalf("expected catalog hit")
	}
	if mi.ContextTokens <= 0 {
		t.Fatalf("missing context size: %+v", mi)
	}
	if _, ok := LookupModel("not-a-model"); ok {
		t.Fatalf("unexpected catalog hit")
	}
}

func TestListModelsFiltersAndPaginates(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("pageToken") == "" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"models": []any{
					map[string]any{"name": "models/gemini-2.5-pro", "supportedGenerationMethods": []string{"generateContent"}},
					map[string]any{"name": "models/text-embedding-004", "supportedGenerationMethods": []string{"embedContent"}},
				},
				"nextPageToken": "page2",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"models": []any{
				map[string]any{"name": "models/gemini-2.5-flash-lite", "supportedGenerationMethods": []string{"generateContent", "countTokens"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test", 2*time.Second, NoRetry(), srv.URL)
	names, err := c.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels returned error: %v", err)
	}
	want := []string{"gemini-2.5-flash-lite", "gemini-2.5-pro"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
}

func TestListModelsAuthError(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(errBody("PERMISSION_DENIED", "key invalid"))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("bad-key", 2*time.Second, NoRetry(), srv.URL)
	if _, err := c.ListModels(context.Background()); err == nil {
		t.Fatalf("expected error for rejected key")
	}
}
