package audit

import (
	"strings"
	"testing"
)

func TestComputeVerdict(t *testing.T) {
	allPass := VerdictInputs{
		SSLPass:        true,
		RedirectsPass:  true,
		LatencyPass:    true,
		NotFoundPass:   true,
		NotFoundStatus: 404,
	}

	tests := []struct {
		name     string
		mutate   func(*VerdictInputs)
		verdict  Verdict
		warnings []string
	}{
		{name: "all pass", mutate: func(*VerdictInputs) {}, verdict: VerdictPass},
		{name: "ssl", mutate: func(in *VerdictInputs) { in.SSLPass = false }, verdict: VerdictPassWithWarnings, warnings: []string{"ssl:"}},
		{name: "redirects", mutate: func(in *VerdictInputs) { in.RedirectsPass = false }, verdict: VerdictPassWithWarnings, warnings: []string{"redirects:"}},
		{name: "latency", mutate: func(in *VerdictInputs) { in.LatencyPass = false }, verdict: VerdictPassWithWarnings, warnings: []string{"latency:"}},
		{name: "security", mutate: func(in *VerdictInputs) { in.SecurityFindings = 3 }, verdict: VerdictPassWithWarnings, warnings: []string{"security: 3 finding(s)"}},
		{
			name: "not found",
			mutate: func(in *VerdictInputs) {
				in.NotFoundPass = false
				in.NotFoundStatus = 200
			},
			verdict:  VerdictPassWithWarnings,
			warnings: []string{"not found: expected status 404, got 200"},
		},
		{
			name: "everything fails",
			mutate: func(in *VerdictInputs) {
				*in = VerdictInputs{SecurityFindings: 1}
			},
			verdict:  VerdictPassWithWarnings,
			warnings: []string{"ssl:", "redirects:", "latency:", "security:", "not found:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := allPass
			tt.mutate(&in)
			verdict, warnings := ComputeVerdict(in)
			if verdict != tt.verdict {
				t.Fatalf("verdict = %s, want %s", verdict, tt.verdict)
			}
			if warnings == nil {
				t.Fatal("warnings must be a non-nil list")
			}
			if len(warnings) != len(tt.warnings) {
				t.Fatalf("warnings = %q, want prefixes %q", warnings, tt.warnings)
			}
			for i, prefix := range tt.warnings {
				if !strings.HasPrefix(warnings[i], prefix) {
					t.Fatalf("warning %d = %q, want prefix %q", i, warnings[i], prefix)
				}
			}
		})
	}
}
