package checker

import (
	"time"

	consts "github.com/khanhnv2901/siteverify/internal/shared/constants"
)

// LatencyGrade is the band a page's response time falls into.
type LatencyGrade string

const (
	LatencyOK   LatencyGrade = "OK"
	LatencyWarn LatencyGrade = "WARN"
	LatencyFail LatencyGrade = "FAIL"
)

// GradeLatency maps an elapsed time to its band. Both thresholds are
// inclusive lower bounds of the slower band.
func GradeLatency(elapsed time.Duration) LatencyGrade {
	switch {
	case elapsed < consts.LatencyWarnThreshold:
		return LatencyOK
	case elapsed < consts.LatencyFailThreshold:
		return LatencyWarn
	default:
		return LatencyFail
	}
}

// LatencyResult is the grade of one sampled page.
type LatencyResult struct {
	Page      string
	Status    int
	ElapsedMS float64
	Grade     LatencyGrade
	Error     string
}

// GradePages grades each page independently. A page that failed to fetch is
// graded FAIL whatever its elapsed time.
func GradePages(pages []PageResult) []LatencyResult {
	results := make([]LatencyResult, 0, len(pages))
	for _, p := range pages {
		r := LatencyResult{
			Page:   p.Sample.ID,
			Status: p.Probe.Status(),
		}
		if p.Probe.OK() {
			r.ElapsedMS = float64(p.Probe.Response.Elapsed.Microseconds()) / 1000
		}
		if p.Fetched() {
			r.Grade = GradeLatency(p.Probe.Response.Elapsed)
		} else {
			r.Grade = LatencyFail
			r.Error = p.Failure()
		}
		results = append(results, r)
	}
	return results
}

// LatencyPass reports whether every page was graded OK.
func LatencyPass(results []LatencyResult) bool {
	for _, r := range results {
		if r.Grade != LatencyOK {
			return false
		}
	}
	return true
}
