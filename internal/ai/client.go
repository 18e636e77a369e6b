package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// RetryPolicy controls how Generate handles transient backend failures.
// MaxAttempts <= 0 retries until the context is cancelled. The Sleep hook
// exists so tests can simulate retry sequences without real delays.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Sleep       func(ctx context.Context, d time.Duration) error
}

// NoRetry is the policy of the single-file command: one attempt, any failure
// is final.
func NoRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

// DefaultRetry retries indefinitely with exponential backoff from 1s capped
// at 60s, honoring backend-suggested delays.
func DefaultRetry() RetryPolicy {
	return RetryPolicy{BaseDelay: time.Second, MaxDelay: 60 * time.Second}
}

func (p RetryPolicy) baseDelay() time.Duration {
	if p.BaseDelay > 0 {
		return p.BaseDelay
	}
	return time.Second
}

func (p RetryPolicy) capDelay(d time.Duration) time.Duration {
	max := p.MaxDelay
	if max <= 0 {
		max = 60 * time.Second
	}
	if d > max {
		return max
	}
	return d
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (p RetryPolicy) allows(attempt int) bool {
	return p.MaxAttempts <= 0 || attempt < p.MaxAttempts
}

// Client talks to the Gemini generateContent REST API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	retry      RetryPolicy
}

// NewClient builds a client with the given API key, HTTP timeout, and retry
// policy.
func NewClient(apiKey string, httpTimeout time.Duration, retry RetryPolicy) *Client {
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: httpTimeout},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		retry:      retry,
	}
}

// NewClientWithBaseURL allows injecting a custom base URL (used in tests).
func NewClientWithBaseURL(apiKey string, httpTimeout time.Duration, retry RetryPolicy, baseURL string) *Client {
	c := NewClient(apiKey, httpTimeout, retry)
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// NormalizeModel prepends the "models/" resource prefix when absent.
func NormalizeModel(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

// DisplayModel strips the "models/" resource prefix for user-facing output.
func DisplayModel(model string) string {
	return strings.TrimPrefix(model, "models/")
}

type contentPart struct {
	Text string `json:"text"`
}

type content struct {
	Role  string        `json:"role,omitempty"`
	Parts []contentPart `json:"parts"`
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// Generate sends prompt to the given model and returns the raw response text.
// Transient failures are retried according to the client's RetryPolicy;
// everything else returns a classified error immediately.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("GEMINI_API_KEY is missing")
	}
	if model == "" {
		return "", errors.New("model cannot be empty")
	}
	payload, err := json.Marshal(generateContentRequest{
		Contents: []content{{Role: "user", Parts: []contentPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	endpoint := c.baseURL + "/" + NormalizeModel(model) + ":generateContent"

	backoff := c.retry.capDelay(c.retry.baseDelay())
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		text, err := c.generateOnce(ctx, endpoint, payload)
		if err == nil {
			return text, nil
		}
		if !IsTransient(err) || !c.retry.allows(attempt) {
			return "", err
		}
		delay := SuggestedDelay(err)
		if delay <= 0 {
			delay = backoff
			backoff = c.retry.capDelay(backoff * 2)
		}
		if serr := c.retry.sleep(ctx, delay); serr != nil {
			return "", serr
		}
	}
}

func (c *Client) generateOnce(ctx context.Context, endpoint string, payload []byte) (string, error) {
	requestID := uuid.NewString()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)
	httpReq.Header.Set("X-Goog-Request-Id", requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isRetryableNetErr(err) {
			return "", err
		}
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.decodeError(resp, requestID)
	}

	var out generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", errors.New("no content returned from model")
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", errors.New("no content returned from model")
	}
	return sb.String(), nil
}

// decodeError reads a non-2xx response body and returns a classified error,
// picking up any backend-suggested retry delay on the way.
func (c *Client) decodeError(resp *http.Response, requestID string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	var raw struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
			Details []struct {
				Type       string `json:"@type"`
				RetryDelay string `json:"retryDelay"`
			} `json:"details"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &raw)

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     raw.Error.Status,
		Message:    raw.Error.Message,
		RequestID:  requestID,
	}

	var retryAfter time.Duration
	for _, d := range raw.Error.Details {
		if strings.HasSuffix(d.Type, "RetryInfo") && d.RetryDelay != "" {
			if dur, err := time.ParseDuration(d.RetryDelay); err == nil && dur > 0 {
				retryAfter = dur
			}
		}
	}
	if retryAfter == 0 {
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := parseRetryAfterSeconds(ra); err == nil && secs > 0 {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
	}
	return classifyAPIError(apiErr, retryAfter)
}

// parseRetryAfterSeconds interprets a Retry-After header value as seconds or
// an HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(v); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}
