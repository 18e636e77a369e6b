package ai

import (
	"fmt"
	"strings"
)

// Metadata is the parsed result of a model response: a one-line description
// and an ordered keyword list.
type Metadata struct {
	Description string
	Keywords    []string
}

// ParseMetadata extracts the description and keywords lines from raw model
// output. Prefix matching is case-insensitive; the keywords value may be
// wrapped in brackets and individual keywords in quotes. Missing or empty
// fields are an error.
func ParseMetadata(raw string) (Metadata, error) {
	var m Metadata
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "description:"):
			m.Description = strings.TrimSpace(line[len("description:"):])
		case strings.HasPrefix(lower, "keywords:"):
			m.Keywords = parseKeywords(strings.TrimSpace(line[len("keywords:"):]))
		}
	}
	if m.Description == "" || len(m.Keywords) == 0 {
		return Metadata{}, fmt.Errorf("could not parse description or keywords from model output:\n%s", raw)
	}
	return m, nil
}

func parseKeywords(s string) []string {
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = s[1 : len(s)-1]
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		k := strings.Trim(strings.TrimSpace(part), `"'`)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
