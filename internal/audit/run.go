package audit

import (
	"fmt"
	"time"

	sharedErrors "github.com/khanhnv2901/siteverify/internal/shared/errors"
)

// Stage is a step of an audit run.
type Stage string

const (
	StageInitialized          Stage = "initialized"
	StageSSLChecked           Stage = "ssl_checked"
	StageRedirectsChecked     Stage = "redirects_checked"
	StagePagesSampled         Stage = "pages_sampled"
	StageConsistencyEvaluated Stage = "consistency_evaluated"
	StageSecurityEvaluated    Stage = "security_evaluated"
	StageNotFoundTested       Stage = "not_found_tested"
	StageFinalized            Stage = "finalized"
)

var stageOrder = []Stage{
	StageInitialized,
	StageSSLChecked,
	StageRedirectsChecked,
	StagePagesSampled,
	StageConsistencyEvaluated,
	StageSecurityEvaluated,
	StageNotFoundTested,
	StageFinalized,
}

// StageEntry records when a stage was reached.
type StageEntry struct {
	Stage Stage     `json:"stage"`
	At    time.Time `json:"at"`
}

// Run tracks the strictly sequential stage progression of one audit.
type Run struct {
	position int
	log      []StageEntry
	now      func() time.Time
}

// NewRun creates a run in the Initialized stage.
func NewRun(now func() time.Time) *Run {
	if now == nil {
		now = time.Now
	}
	return &Run{
		position: 0,
		log:      []StageEntry{{Stage: StageInitialized, At: now().UTC()}},
		now:      now,
	}
}

// Advance moves the run to next, which must be the stage immediately after
// the current one.
func (r *Run) Advance(next Stage) error {
	if r.Finalized() {
		return sharedErrors.ErrRunFinalized
	}
	want := stageOrder[r.position+1]
	if next != want {
		return fmt.Errorf("%w: %s -> %s (expected %s)", sharedErrors.ErrInvalidTransition, r.Stage(), next, want)
	}
	r.position++
	r.log = append(r.log, StageEntry{Stage: next, At: r.now().UTC()})
	return nil
}

// Stage returns the current stage.
func (r *Run) Stage() Stage {
	return stageOrder[r.position]
}

// Finalized reports whether the run reached its terminal stage.
func (r *Run) Finalized() bool {
	return r.position == len(stageOrder)-1
}

// Log returns a copy of the stage history.
func (r *Run) Log() []StageEntry {
	out := make([]StageEntry, len(r.log))
	copy(out, r.log)
	return out
}
