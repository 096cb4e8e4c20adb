package cmd

import (
	"testing"

	"github.com/fatih/color"
)

func TestFormatStatusWithColor(t *testing.T) {
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})

	tests := []struct {
		name   string
		status string
		want   string
	}{
		{name: "grade ok", status: "OK", want: "OK"},
		{name: "pass lowercase", status: "pass", want: "pass"},
		{name: "warnings verdict", status: "PASS_WITH_WARNINGS", want: "PASS_WITH_WARNINGS"},
		{name: "failure", status: "FAIL", want: "FAIL"},
		{name: "unknown", status: "pending", want: "pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatStatusWithColor(tt.status); got != tt.want {
				t.Fatalf("formatStatusWithColor(%q) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}
