package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Model metadata for known Gemini models. Context sizes are approximate and
// used only for the oversized-document warning.

type ModelInfo struct {
	Name          string
	ContextTokens int
}

var models = map[string]ModelInfo{
	"gemini-2.5-flash-lite": {Name: "gemini-2.5-flash-lite", ContextTokens: 1048576},
	"gemini-2.5-flash":      {Name: "gemini-2.5-flash", ContextTokens: 1048576},
	"gemini-2.5-pro":        {Name: "gemini-2.5-pro", ContextTokens: 1048576},
	"gemini-2.0-flash":      {Name: "gemini-2.0-flash", ContextTokens: 1048576},
	"gemini-2.0-flash-lite": {Name: "gemini-2.0-flash-lite", ContextTokens: 1048576},
	"gemini-1.5-flash":      {Name: "gemini-1.5-flash", ContextTokens: 1048576},
	"gemini-1.5-pro":        {Name: "gemini-1.5-pro", ContextTokens: 2097152},
}

// LookupModel returns ModelInfo and ok flag. The "models/" prefix is ignored.
func LookupModel(name string) (ModelInfo, bool) {
	mi, ok := models[DisplayModel(name)]
	return mi, ok
}

// Catalog returns a shallow copy of the built-in model catalog.
func Catalog() map[string]ModelInfo {
	out := make(map[string]ModelInfo, len(models))
	for k, v := range models {
		out[k] = v
	}
	return out
}

type listModelsResponse struct {
	Models []struct {
		Name                       string   `json:"name"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
	NextPageToken string `json:"nextPageToken"`
}

// ListModels enumerates models on the backend that support generateContent,
// following pagination. Names are returned sorted, without the "models/"
// prefix.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	if c.apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is missing")
	}
	var names []string
	pageToken := ""
	for {
		endpoint := c.baseURL + "/models"
		if pageToken != "" {
			endpoint += "?pageToken=" + url.QueryEscape(pageToken)
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		httpReq.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("http request: %w", err)
		}
		page, next, err := decodeModelsPage(resp)
		if err != nil {
			return nil, err
		}
		names = append(names, page...)
		if next == "" {
			break
		}
		pageToken = next
	}
	sort.Strings(names)
	return names, nil
}

func decodeModelsPage(resp *http.Response) ([]string, string, error) {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		var raw struct {
			Error struct {
				Message string `json:"message"`
				Status  string `json:"status"`
			} `json:"error"`
		}
		_ = json.Unmarshal(body, &raw)
		return nil, "", classifyAPIError(&APIError{
			StatusCode: resp.StatusCode,
			Status:     raw.Error.Status,
			Message:    raw.Error.Message,
		}, 0)
	}
	var out listModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, "", fmt.Errorf("decode response: %w", err)
	}
	var names []string
	for _, m := range out.Models {
		for _, method := range m.SupportedGenerationMethods {
			if strings.EqualFold(method, "generateContent") {
				names = append(names, DisplayModel(m.Name))
				break
			}
		}
	}
	return names, out.NextPageToken, nil
}
