// Package checker holds the read-only probes and analyzers a site audit is
// built from.
//
// Architecture overview:
//
//   - Prober performs every network operation: HTTPS fetches (Fetch), the
//     TLS-only certificate handshake (InspectCertificate), redirect chains
//     (VerifyRedirects), the 404 probe (ProbeNotFound) and asset reachability
//     (CheckAssets). Transport failures are values in the returned results,
//     never Go errors.
//   - OriginThrottle paces requests per origin host and is shared by all
//     probes of one run.
//   - Runner fetches sample pages through a fixed-size worker pool and runs
//     ExtractSignals on each successfully fetched body.
//   - Pure analyzers (CheckConsistency, GradePages, AuditSecurity,
//     CoversDomain) turn collected results into findings without I/O, so
//     they are tested against fabricated inputs.
//
// The audit package sequences these pieces; cmd/ only wires configuration.
package checker
