// Package audit is the verdict aggregator of the site verification engine.
//
// An Auditor drives one run through a fixed, strictly sequential stage
// machine (Initialized, SSLChecked, RedirectsChecked, PagesSampled,
// ConsistencyEvaluated, SecurityEvaluated, NotFoundTested, Finalized).
// Certificate inspection, redirect verification and page sampling execute
// concurrently, but their outputs are folded into the run in stage order.
// The verdict is computed once, from the completed finding collections, and
// the resulting Report is the only contract offered to downstream tooling.
package audit
