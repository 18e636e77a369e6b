package ai

import (
	"reflect"
	"testing"
)

func TestParseMetadata(t *testing.T) {
	raw := "description: A concise summary.\nkeywords: [go, \"cli\", 'markdown']\n"
	m, err := ParseMetadata(raw)
	if err != nil {
		t.Fatalf("ParseMetadata returned error: %v", err)
	}
	if m.Description != "A concise summary." {
		t.Fatalf("unexpected description: %q", m.Description)
	}
	if want := []string{"go", "cli", "markdown"}; !reflect.DeepEqual(m.Keywords, want) {
		t.Fatalf("keywords = %v, want %v", m.Keywords, want)
	}
}

func TestParseMetadataBracketsOptional(t *testing.T) {
	bracketed, err := ParseMetadata("description: d\nkeywords: [a, \"b\", c]")
	if err != nil {
		t.Fatalf("bracketed: %v", err)
	}
	plain, err := ParseMetadata("description: d\nkeywords: a, b, c")
	if err != nil {
		t.Fatalf("plain: %v", err)
	}
	if !reflect.DeepEqual(bracketed.Keywords, plain.Keywords) {
		t.Fatalf("bracketed %v != plain %v", bracketed.Keywords, plain.Keywords)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(plain.Keywords, want) {
		t.Fatalf("keywords = %v, want %v", plain.Keywords, want)
	}
}

func TestParseMetadataCaseInsensitive(t *testing.T) {
	m, err := ParseMetadata("Description: d\nKEYWORDS: a, b")
	if err != nil {
		t.Fatalf("ParseMetadata returned error: %v", err)
	}
	if m.Description != "d" || len(m.Keywords) != 2 {
		t.Fatalf("unexpected result: %+v", m)
	}
}

func TestParseMetadataIgnoresExtraLines(t *testing.T) {
	raw := "Here you go:\n\ndescription: d\nkeywords: a, b\n\nHope that helps!"
	m, err := ParseMetadata(raw)
	if err != nil {
		t.Fatalf("ParseMetadata returned error: %v", err)
	}
	if m.Description != "d" {
		t.Fatalf("unexpected description: %q", m.Description)
	}
}

func TestParseMetadataMissingKeywords(t *testing.T) {
	if _, err := ParseMetadata("description: only this line"); err == nil {
		t.Fatalf("expected error for missing keywords")
	}
}

func TestParseMetadataMissingDescription(t *testing.T) {
	if _, err := ParseMetadata("keywords: a, b"); err == nil {
		t.Fatalf("expected error for missing description")
	}
}

func TestParseMetadataEmptyValues(t *testing.T) {
	if _, err := ParseMetadata("description:\nkeywords: []"); err == nil {
		t.Fatalf("expected error for empty fields")
	}
}
