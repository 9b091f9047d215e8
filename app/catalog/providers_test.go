package catalog

import (
	"testing"
)

func TestNormalizeProviders_KnownNames(t *testing.T) {
	codes := NormalizeProviders([]string{"Netflix", "Amazon Prime Video", "Disney Plus"})

	expected := []string{"disney", "netflix", "prime"}
	if len(codes) != len(expected) {
		t.Fatalf("Expected %d codes, got %d: %v", len(expected), len(codes), codes)
	}
	for i, code := range expected {
		if codes[i] != code {
			t.Errorf("Expected code %q at position %d, got %q", code, i, codes[i])
		}
	}
}

func TestNormalizeProviders_UnknownNamesDropped(t *testing.T) {
	codes := NormalizeProviders([]string{"Netflix", "Some Obscure Service", "Another One"})

	if len(codes) != 1 {
		t.Fatalf("Expected 1 code, got %d: %v", len(codes), codes)
	}
	if codes[0] != "netflix" {
		t.Errorf("Expected 'netflix', got %q", codes[0])
	}
}

func TestNormalizeProviders_AliasesCollapse(t *testing.T) {
	codes := NormalizeProviders([]string{"Max", "HBO Max", "max"})

	if len(codes) != 1 {
		t.Fatalf("Expected aliases to collapse to 1 code, got %d: %v", len(codes), codes)
	}
	if codes[0] != "hbo" {
		t.Errorf("Expected 'hbo', got %q", codes[0])
	}
}

func TestNormalizeProviders_Empty(t *testing.T) {
	codes := NormalizeProviders(nil)
	if len(codes) != 0 {
		t.Errorf("Expected no codes for nil input, got %v", codes)
	}
}

func TestKindPath(t *testing.T) {
	if p, err := kindPath("movie"); err != nil || p != "movie" {
		t.Errorf("Expected 'movie' path, got %q (err %v)", p, err)
	}
	if p, err := kindPath("series"); err != nil || p != "tv" {
		t.Errorf("Expected 'tv' path for series, got %q (err %v)", p, err)
	}
	if _, err := kindPath("podcast"); err == nil {
		t.Error("Expected error for unknown media kind")
	}
}

func TestParseYear(t *testing.T) {
	year := parseYear("1999-03-31")
	if year == nil || *year != 1999 {
		t.Errorf("Expected year 1999, got %v", year)
	}

	if parseYear("") != nil {
		t.Error("Expected nil year for empty date")
	}
	if parseYear("not-a-date") != nil {
		t.Error("Expected nil year for malformed date")
	}
}
