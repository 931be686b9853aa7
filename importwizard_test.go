package importwizard

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestImport_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	csv := "Country,Year,Value\nFrance,2021,42\nUSA,2021,7\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	pkg, err := Import(context.Background(), SourceFromFile(path), "standard")
	if err != nil {
		t.Fatalf("expected import to succeed, got %v", err)
	}

	data := string(pkg.Data)
	if !strings.HasPrefix(data, "place,year,value\n") {
		t.Fatalf("unexpected header: %q", data)
	}
	if !strings.Contains(data, "country/FRA,2021,42") {
		t.Fatalf("expected normalized row, got %q", data)
	}
	if pkg.Manifest.Template != "standard" {
		t.Fatalf("unexpected manifest template: %q", pkg.Manifest.Template)
	}
	if !pkg.Manifest.Translated {
		t.Fatalf("expected a translated package")
	}
}

func TestImport_UnknownTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if _, err := Import(context.Background(), SourceFromFile(path), "bogus"); err == nil {
		t.Fatalf("expected an error for an unknown template kind")
	}
}
