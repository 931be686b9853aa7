package tabular

import "testing"

func TestParseURLSource(t *testing.T) {
	src, err := ParseURLSource("https://example.com/data.csv")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if src.Kind() != SourceKindURL {
		t.Fatalf("unexpected kind: %q", src.Kind())
	}
	if src.Location() != "https://example.com/data.csv" {
		t.Fatalf("unexpected location: %q", src.Location())
	}
}

func TestParseURLSourceRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{"", "notaurl", "://missing-scheme"} {
		if _, err := ParseURLSource(raw); err == nil {
			t.Fatalf("expected an error for %q", raw)
		}
	}
}
