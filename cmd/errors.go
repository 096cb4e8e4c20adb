package cmd

import (
	"errors"
	"fmt"
)

const (
	exitConfigError = 1
	exitWarnings    = 2
)

// WarningsError is returned by `audit --fail-on-warnings` when the verdict is
// not a clean PASS. The report has already been written when it is returned.
type WarningsError struct {
	Verdict  string
	Warnings int
}

func (e *WarningsError) Error() string {
	return fmt.Sprintf("audit verdict %s with %d warning(s)", e.Verdict, e.Warnings)
}

func exitCode(err error) int {
	var warn *WarningsError
	if errors.As(err, &warn) {
		return exitWarnings
	}
	return exitConfigError
}
