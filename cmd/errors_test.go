package cmd

import (
	"errors"
	"fmt"
	"testing"

	sharedErrors "github.com/khanhnv2901/siteverify/internal/shared/errors"
)

func TestWarningsError(t *testing.T) {
	err := &WarningsError{Verdict: "PASS_WITH_WARNINGS", Warnings: 2}
	want := "audit verdict PASS_WITH_WARNINGS with 2 warning(s)"
	if err.Error() != want {
		t.Fatalf("expected %s, got %s", want, err.Error())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "warnings", err: &WarningsError{Verdict: "PASS_WITH_WARNINGS"}, want: exitWarnings},
		{name: "wrapped warnings", err: fmt.Errorf("run: %w", &WarningsError{}), want: exitWarnings},
		{name: "config", err: sharedErrors.ErrMissingTarget, want: exitConfigError},
		{name: "io", err: errors.New("disk full"), want: exitConfigError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Fatalf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
