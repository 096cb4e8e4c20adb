package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sharedErrors "github.com/khanhnv2901/siteverify/internal/shared/errors"
)

// resolveWithin joins name under dir and refuses any result that would land
// outside dir. The returned path is absolute.
func resolveWithin(dir, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("%w: output directory is required", sharedErrors.ErrInvalidConfig)
	}

	base, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	target := filepath.Join(base, name)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", fmt.Errorf("relativize report path: %w", err)
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s", sharedErrors.ErrPathEscape, target)
	}
	return target, nil
}

// fileStem builds a filesystem-safe report name from the audited domain.
func fileStem(domain, stamp string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return '_'
	}, domain)
	if safe == "" {
		safe = "site"
	}
	return fmt.Sprintf("siteverify_%s_%s", safe, stamp)
}
