package report

import (
	"errors"
	"path/filepath"
	"testing"

	sharedErrors "github.com/khanhnv2901/siteverify/internal/shared/errors"
)

func TestResolveWithin(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveWithin(dir, "report.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(dir, "report.json") {
		t.Fatalf("unexpected path %s", got)
	}

	for _, name := range []string{"../escape.json", "../../etc/passwd", ".."} {
		if _, err := resolveWithin(dir, name); !errors.Is(err, sharedErrors.ErrPathEscape) {
			t.Fatalf("resolveWithin(%q) should be rejected, got %v", name, err)
		}
	}

	if _, err := resolveWithin("", "report.json"); !errors.Is(err, sharedErrors.ErrInvalidConfig) {
		t.Fatalf("empty dir should be a config error, got %v", err)
	}
}

func TestFileStem(t *testing.T) {
	tests := map[string]string{
		"www.example.com": "siteverify_www.example.com_20240101_000000",
		"bad/../name":     "siteverify_bad_.._name_20240101_000000",
		"":                "siteverify_site_20240101_000000",
	}
	for domain, want := range tests {
		if got := fileStem(domain, "20240101_000000"); got != want {
			t.Errorf("fileStem(%q) = %q, want %q", domain, got, want)
		}
	}
}
