// Package constants centralizes the calibrated defaults and policy thresholds
// shared by the verification engine and the CLI.
//
// Timeouts, pacing intervals, latency bands and per-axis consistency
// tolerances live here as named values so each one can be tuned on its own
// without touching the code that applies it.
package constants
