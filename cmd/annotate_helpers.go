package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/brand-zz/markdown-summarizer/internal/ai"
	cfgpkg "github.com/brand-zz/markdown-summarizer/internal/config"
)

// apiBaseURL overrides the backend endpoint; empty means the real API.
// Tests point it at a local server.
var apiBaseURL string

// expandInputs resolves glob patterns and literal paths, dropping duplicates
// while keeping input order.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path; missing files are reported per file later
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	return files
}

// buildClient assembles the Gemini client from config plus flag overrides.
// retryEnabled selects between the batch retry policy and single-shot mode.
// A missing API key is fatal here, before any file is touched.
func buildClient(cfg *cfgpkg.Global, retryEnabled bool) (*ai.Client, error) {
	apiKey := ""
	httpTimeout := 60 * time.Second
	policy := ai.NoRetry()
	if cfg != nil {
		apiKey = cfg.APIKey
		if cfg.HTTPTimeoutSec > 0 {
			httpTimeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set (export it, put it in a .env file, or set api_key in ~/.mdsum/config.yaml)")
	}
	if retryEnabled {
		policy = ai.DefaultRetry()
		if cfg != nil {
			policy.MaxAttempts = cfg.RetryMaxAttempts
			if cfg.RetryBaseDelayMs > 0 {
				policy.BaseDelay = time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond
			}
			if cfg.RetryMaxDelayMs > 0 {
				policy.MaxDelay = time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond
			}
		}
	}
	return ai.NewClientWithBaseURL(apiKey, httpTimeout, policy, apiBaseURL), nil
}

func selectModel(cfg *cfgpkg.Global, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if cfg != nil && cfg.DefaultModel != "" {
		return cfg.DefaultModel
	}
	return "gemini-2.5-flash-lite"
}

// printModelDiagnostics lists generateContent-capable models on w as an aid
// after a non-retryable API error (typically a bad --model value).
func printModelDiagnostics(ctx context.Context, client *ai.Client, w io.Writer) {
	fmt.Fprintln(w, "Attempting to list available models...")
	names, err := client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(w, "Failed to retrieve the list of available models: %v\n", err)
		fmt.Fprintln(w, "Please check your API key and network connection.")
		return
	}
	if len(names) == 0 {
		fmt.Fprintln(w, "Could not find any available models that support content generation.")
		return
	}
	fmt.Fprintln(w, "Please choose from one of the following available models:")
	for _, name := range names {
		fmt.Fprintf(w, "  - %s\n", name)
	}
}

// isNonTransientAPIError reports whether err is a classified backend error
// that retrying cannot fix, e.g. an unknown model name.
func isNonTransientAPIError(err error) bool {
	var apiErr *ai.APIError
	return errors.As(err, &apiErr) && !ai.IsTransient(err)
}
