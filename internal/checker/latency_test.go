package checker

import (
	"errors"
	"testing"
	"time"
)

func TestGradeLatency(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    LatencyGrade
	}{
		{elapsed: 0, want: LatencyOK},
		{elapsed: 1999 * time.Millisecond, want: LatencyOK},
		{elapsed: 2000 * time.Millisecond, want: LatencyWarn},
		{elapsed: 2999 * time.Millisecond, want: LatencyWarn},
		{elapsed: 3000 * time.Millisecond, want: LatencyFail},
		{elapsed: 10 * time.Second, want: LatencyFail},
	}
	for _, tt := range tests {
		if got := GradeLatency(tt.elapsed); got != tt.want {
			t.Errorf("GradeLatency(%v) = %s, want %s", tt.elapsed, got, tt.want)
		}
	}
}

func TestGradePages(t *testing.T) {
	fast := fetchedPage("home", "nginx", "<html></html>")
	slow := fetchedPage("about", "nginx", "<html></html>")
	slow.Probe.Response.Elapsed = 2500 * time.Millisecond
	broken := failedPage("contact", errors.New("timeout"))

	results := GradePages([]PageResult{fast, slow, broken})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Grade != LatencyOK || results[0].ElapsedMS != 100 {
		t.Fatalf("unexpected fast result %+v", results[0])
	}
	if results[1].Grade != LatencyWarn {
		t.Fatalf("unexpected slow result %+v", results[1])
	}
	if results[2].Grade != LatencyFail || results[2].Error == "" {
		t.Fatalf("failed page should grade FAIL with an error, got %+v", results[2])
	}

	if LatencyPass(results) {
		t.Fatal("latency should not pass with WARN and FAIL grades")
	}
	if !LatencyPass(results[:1]) {
		t.Fatal("latency should pass when every page is OK")
	}
}
