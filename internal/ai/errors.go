package ai

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Google RPC status strings the Gemini API reports for transient failures.
const (
	statusResourceExhausted = "RESOURCE_EXHAUSTED"
	statusUnavailable       = "UNAVAILABLE"
	statusInternal          = "INTERNAL"
	statusDeadlineExceeded  = "DEADLINE_EXCEEDED"
)

// APIError represents a structured error response from the Gemini API.
type APIError struct {
	StatusCode int    // HTTP status
	Status     string // google.rpc status string, e.g. RESOURCE_EXHAUSTED
	Message    string
	RequestID  string // client-generated request id for correlation
}

func (e *APIError) Error() string {
	if e.Message != "" {
		if e.Status != "" {
			if e.RequestID != "" {
				return fmt.Sprintf("api error: status=%d code=%s request_id=%s message=%s", e.StatusCode, e.Status, e.RequestID, e.Message)
			}
			return fmt.Sprintf("api error: status=%d code=%s message=%s", e.StatusCode, e.Status, e.Message)
		}
		if e.RequestID != "" {
			return fmt.Sprintf("api error: status=%d request_id=%s message=%s", e.StatusCode, e.RequestID, e.Message)
		}
		return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("api error: status=%d request_id=%s", e.StatusCode, e.RequestID)
	}
	return fmt.Sprintf("api error: status=%d", e.StatusCode)
}

// AuthError indicates authentication/authorization failures (401/403).
type AuthError struct{ *APIError }

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.APIError.Error())
}
func (e *AuthError) Unwrap() error { return e.APIError }

// RateLimitError indicates RESOURCE_EXHAUSTED/429 responses and may carry a
// backend-suggested retry delay.
type RateLimitError struct {
	*APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: wait about %ds before retrying: %s", int(e.RetryAfter.Seconds()), e.APIError.Error())
	}
	return fmt.Sprintf("rate limited: %s", e.APIError.Error())
}
func (e *RateLimitError) Unwrap() error { return e.APIError }

// ModelNotFoundError indicates the requested model is not available.
type ModelNotFoundError struct{ *APIError }

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model not found: %s", e.APIError.Error())
}
func (e *ModelNotFoundError) Unwrap() error { return e.APIError }

// BadRequestError indicates a 4xx request problem (e.g., 400 validation).
type BadRequestError struct{ *APIError }

func (e *BadRequestError) Error() string { return fmt.Sprintf("bad request: %s", e.APIError.Error()) }
func (e *BadRequestError) Unwrap() error { return e.APIError }

// ServerError indicates 5xx errors from the backend.
type ServerError struct {
	*APIError
	RetryAfter time.Duration
}

func (e *ServerError) Error() string { return fmt.Sprintf("backend error: %s", e.APIError.Error()) }
func (e *ServerError) Unwrap() error { return e.APIError }

// classifyAPIError maps a generic APIError to a typed error.
func classifyAPIError(apiErr *APIError, retryAfter time.Duration) error {
	switch {
	case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
		return &AuthError{APIError: apiErr}
	case apiErr.StatusCode == http.StatusTooManyRequests || apiErr.Status == statusResourceExhausted:
		return &RateLimitError{APIError: apiErr, RetryAfter: retryAfter}
	case apiErr.StatusCode == http.StatusNotFound:
		return &ModelNotFoundError{APIError: apiErr}
	case apiErr.StatusCode == http.StatusBadRequest:
		return &BadRequestError{APIError: apiErr}
	case apiErr.StatusCode >= 500 && apiErr.StatusCode <= 599:
		return &ServerError{APIError: apiErr, RetryAfter: retryAfter}
	}
	return apiErr
}

// IsTransient reports whether err represents a failure worth retrying:
// rate limiting, server-side errors, the transient google.rpc statuses, or
// retryable network errors.
func IsTransient(err error) bool {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}
	var se *ServerError
	if errors.As(err, &se) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case statusResourceExhausted, statusUnavailable, statusInternal, statusDeadlineExceeded:
			return true
		}
		return apiErr.StatusCode == http.StatusTooManyRequests ||
			(apiErr.StatusCode >= 500 && apiErr.StatusCode <= 599)
	}
	return isRetryableNetErr(err)
}

// SuggestedDelay returns the backend-suggested retry delay carried by err,
// or zero when the backend did not suggest one.
func SuggestedDelay(err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl.RetryAfter
	}
	var se *ServerError
	if errors.As(err, &se) {
		return se.RetryAfter
	}
	return 0
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	// EOF or connection reset mid-response
	return errors.Is(err, io.EOF)
}
