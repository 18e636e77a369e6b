package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Header is the YAML front-matter mapping of a Markdown document. It wraps a
// yaml.Node so keys that this tool does not touch keep their original order
// and values across a split/compose cycle.
type Header struct {
	node *yaml.Node
}

// Len returns the number of keys in the header.
func (h Header) Len() int {
	if h.node == nil {
		return 0
	}
	return len(h.node.Content) / 2
}

// Keys returns the header keys in document order.
func (h Header) Keys() []string {
	if h.node == nil {
		return nil
	}
	keys := make([]string, 0, len(h.node.Content)/2)
	for i := 0; i+1 < len(h.node.Content); i += 2 {
		keys = append(keys, h.node.Content[i].Value)
	}
	return keys
}

// StringField returns the value for key decoded as a string. Missing keys and
// non-string values yield "".
func (h Header) StringField(key string) string {
	if h.node == nil {
		return ""
	}
	for i := 0; i+1 < len(h.node.Content); i += 2 {
		if h.node.Content[i].Value == key {
			var s string
			if err := h.node.Content[i+1].Decode(&s); err != nil {
				return ""
			}
			return s
		}
	}
	return ""
}

// SetString sets key to a scalar string value. An existing key keeps its
// position; a new key is appended.
func (h *Header) SetString(key, value string) {
	h.set(key, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value})
}

// SetStringList sets key to a block sequence of strings. An existing key keeps
// its position; a new key is appended.
func (h *Header) SetStringList(key string, values []string) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, v := range values {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v})
	}
	h.set(key, seq)
}

func (h *Header) set(key string, value *yaml.Node) {
	if h.node == nil {
		h.node = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	for i := 0; i+1 < len(h.node.Content); i += 2 {
		if h.node.Content[i].Value == key {
			h.node.Content[i+1] = value
			return
		}
	}
	h.node.Content = append(h.node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// marker reports whether line is a front-matter delimiter: three dashes alone
// on a line, trailing whitespace tolerated.
func marker(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \t\r"), []byte("---"))
}

// cutLine splits b at the first newline. The newline itself is dropped.
func cutLine(b []byte) (line, rest []byte) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:]
	}
	return b, nil
}

// Split separates a document into its front-matter header and body. A header
// is a leading `---` line, YAML content, and a closing `---` line. One blank
// line after the closing delimiter is consumed, so splitting a document
// produced by Compose returns the body byte-for-byte. Documents without an
// opening delimiter, or without a closing one, are all body with an empty
// header. Malformed YAML between the delimiters is an error.
func Split(data []byte) (Header, []byte, error) {
	first, rest := cutLine(data)
	if !marker(first) {
		return Header{}, data, nil
	}

	var block []byte
	for len(rest) > 0 {
		line, tail := cutLine(rest)
		if marker(line) {
			body := tail
			if len(body) > 0 && body[0] == '\n' {
				body = body[1:]
			}
			h, err := parseBlock(block)
			if err != nil {
				return Header{}, nil, err
			}
			return h, body, nil
		}
		block = append(block, line...)
		block = append(block, '\n')
		rest = tail
	}
	// No closing delimiter: treat the whole document as body.
	return Header{}, data, nil
}

func parseBlock(block []byte) (Header, error) {
	if len(bytes.TrimSpace(block)) == 0 {
		return Header{}, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return Header{}, fmt.Errorf("parse front matter: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return Header{}, nil
	}
	m := doc.Content[0]
	switch m.Kind {
	case yaml.MappingNode:
		return Header{node: m}, nil
	case yaml.ScalarNode:
		if m.Tag == "!!null" {
			return Header{}, nil
		}
	}
	return Header{}, fmt.Errorf("parse front matter: expected a mapping, got %s", m.Tag)
}

// Compose assembles the final document: delimiter, serialized header,
// delimiter, blank line, body. The header is rendered as block-style YAML with
// two-space indentation.
func Compose(h Header, body []byte) ([]byte, error) {
	if h.node == nil {
		return nil, fmt.Errorf("compose: empty header")
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(h.node); err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal front matter: %w", err)
	}
	buf.WriteString("---\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}
