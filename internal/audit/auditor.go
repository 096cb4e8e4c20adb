package audit

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/khanhnv2901/siteverify/internal/checker"
	consts "github.com/khanhnv2901/siteverify/internal/shared/constants"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config is the externally supplied input of one run.
type Config struct {
	Host         string
	Samples      []checker.PageSample
	Redirects    []checker.RedirectCase
	NotFoundPath string
	Concurrency  int
	CheckAssets  bool
}

// Auditor drives one verification run through its stages and produces the
// report. Every check is always attempted; a failing check becomes a finding
// and never aborts the run.
type Auditor struct {
	cfg    Config
	prober *checker.Prober
	logger *zap.SugaredLogger
	onPage func(checker.PageResult)
	now    func() time.Time
}

// NewAuditor creates an Auditor. A nil logger disables logging.
func NewAuditor(cfg Config, prober *checker.Prober, logger *zap.SugaredLogger) *Auditor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if len(cfg.Samples) == 0 {
		cfg.Samples = checker.DefaultSamples()
	}
	if cfg.Redirects == nil {
		cfg.Redirects = checker.DefaultRedirects(cfg.Host)
	}
	if cfg.NotFoundPath == "" {
		cfg.NotFoundPath = consts.DefaultNotFoundPath
	}
	return &Auditor{
		cfg:    cfg,
		prober: prober,
		logger: logger,
		now:    time.Now,
	}
}

// OnPage registers a callback invoked as each sample page completes.
func (a *Auditor) OnPage(fn func(checker.PageResult)) {
	a.onPage = fn
}

// Run executes every stage and returns the finalized report. The error is
// non-nil only if the stage machine itself is misused.
func (a *Auditor) Run(ctx context.Context) (*Report, error) {
	start := a.now()
	run := NewRun(a.now)
	host := a.cfg.Host
	base := checker.BaseURL(host)
	log := a.logger.With("domain", host)

	log.Infow("audit started",
		"samples", len(a.cfg.Samples),
		"redirects", len(a.cfg.Redirects),
		"concurrency", checker.ClampConcurrency(a.cfg.Concurrency),
		"pacing", a.prober.Throttle.Interval(),
	)

	// Certificate inspection, redirect checks and page sampling are
	// independent of each other; their results are folded in stage order.
	var (
		cert      checker.CertificateInfo
		redirects []checker.RedirectResult
		pages     []checker.PageResult
	)
	runner := &checker.Runner{
		Prober:      a.prober,
		Concurrency: a.cfg.Concurrency,
		Logger:      a.logger,
		OnResult:    a.onPage,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cert = a.prober.InspectCertificate(gctx, host)
		return nil
	})
	g.Go(func() error {
		redirects = a.prober.VerifyRedirects(gctx, a.cfg.Redirects)
		return nil
	})
	g.Go(func() error {
		pages = runner.SamplePages(gctx, base, a.cfg.Samples)
		return nil
	})
	_ = g.Wait()

	if err := run.Advance(StageSSLChecked); err != nil {
		return nil, err
	}
	a.logCertificate(log, cert)

	if err := run.Advance(StageRedirectsChecked); err != nil {
		return nil, err
	}
	for _, r := range redirects {
		log.Infow("redirect checked",
			"stage", StageRedirectsChecked,
			"name", r.Case.Name,
			"source", r.Case.Source,
			"expected", r.Case.Expected,
			"actual", r.Actual,
			"success", r.Success,
			"error", errString(r.Err),
		)
	}

	if err := run.Advance(StagePagesSampled); err != nil {
		return nil, err
	}

	consistency := checker.CheckConsistency(pages)
	if err := run.Advance(StageConsistencyEvaluated); err != nil {
		return nil, err
	}
	for _, f := range consistency.Findings {
		log.Infow("consistency axis",
			"stage", StageConsistencyEvaluated,
			"axis", f.Axis,
			"distinct", len(f.Values),
			"tolerance", f.Tolerance,
			"pass", f.Pass,
		)
	}
	if f, ok := consistency.Finding(checker.AxisServerHeader); ok && !f.Pass {
		log.Warnw("origin servers differ",
			"stage", StageConsistencyEvaluated,
			"servers", f.Values,
		)
	}

	latency := checker.GradePages(pages)
	security := checker.AuditSecurity(pages)
	if err := run.Advance(StageSecurityEvaluated); err != nil {
		return nil, err
	}
	for _, f := range security {
		log.Warnw("security finding",
			"stage", StageSecurityEvaluated,
			"page", f.Page,
			"type", f.Kind,
			"pattern", f.Pattern,
			"details", len(f.Snippets)+f.Remaining,
		)
	}

	var assets *AssetSection
	if a.cfg.CheckAssets {
		assets = a.checkAssets(ctx, log, base, pages)
	}

	notFound := a.prober.ProbeNotFound(ctx, checker.JoinPath(base, a.cfg.NotFoundPath))
	if err := run.Advance(StageNotFoundTested); err != nil {
		return nil, err
	}
	log.Infow("not found probe",
		"stage", StageNotFoundTested,
		"url", notFound.URL,
		"status", notFound.Status,
		"pass", notFound.Pass,
		"error", errString(notFound.Err),
	)

	verdict, warnings := ComputeVerdict(VerdictInputs{
		SSLPass:          cert.Pass(),
		RedirectsPass:    checker.RedirectsPass(redirects),
		LatencyPass:      checker.LatencyPass(latency),
		SecurityFindings: len(security),
		NotFoundPass:     notFound.Pass,
		NotFoundStatus:   notFound.Status,
	})
	if err := run.Advance(StageFinalized); err != nil {
		return nil, err
	}

	report := &Report{
		Timestamp:      start.UTC(),
		Domain:         host,
		DurationMS:     a.now().Sub(start).Milliseconds(),
		SSL:            newSSLSection(cert),
		Redirects:      newRedirectEntries(redirects),
		Pages:          newPageEntries(pages),
		Consistency:    newConsistencySection(consistency),
		Latency:        newLatencyEntries(latency),
		SecurityIssues: newSecurityEntries(security),
		NotFound:       newNotFoundEntry(notFound),
		Assets:         assets,
		StageLog:       run.Log(),
		Warnings:       warnings,
		Notes:          consistencyNotes(consistency),
		FinalVerdict:   verdict,
	}

	log.Infow("audit finished",
		"stage", run.Stage(),
		"verdict", verdict,
		"warnings", len(warnings),
		"duration_ms", report.DurationMS,
	)
	return report, nil
}

func (a *Auditor) logCertificate(log *zap.SugaredLogger, cert checker.CertificateInfo) {
	if cert.Err != nil {
		log.Warnw("certificate inspection failed", "stage", StageSSLChecked, "error", cert.Err)
		return
	}
	log.Infow("certificate inspected",
		"stage", StageSSLChecked,
		"issuer", cert.Issuer["organizationName"],
		"subject", cert.Subject["commonName"],
		"not_after", cert.NotAfter,
		"known_free_ca", cert.IsKnownFreeCA,
		"covers_domain", cert.CoversTargetDomain,
	)
}

func (a *Auditor) checkAssets(ctx context.Context, log *zap.SugaredLogger, base string, pages []checker.PageResult) *AssetSection {
	baseURL, err := url.Parse(base + "/")
	if err != nil {
		log.Warnw("asset check skipped", "error", err)
		return nil
	}
	report := a.prober.CheckAssets(ctx, baseURL, pages, a.cfg.Concurrency)
	for _, asset := range report.Assets {
		if !asset.OK {
			log.Warnw("asset unreachable", "url", asset.URL, "status", asset.Status, "error", errString(asset.Err))
		}
	}
	log.Infow("assets checked",
		"checked", len(report.Assets),
		"failed", report.Failed(),
		"external", len(report.External),
	)
	return newAssetSection(report)
}

func consistencyNotes(c checker.ConsistencyReport) []string {
	notes := []string{}
	if c.LowConfidence {
		notes = append(notes, "consistency: no sample page was fetched successfully; axes pass with no evidence (low confidence)")
	}
	if len(c.Excluded) > 0 {
		notes = append(notes, fmt.Sprintf("consistency: %d page(s) excluded after failed fetch: %v", len(c.Excluded), c.Excluded))
	}
	for _, f := range c.Findings {
		if !f.Pass {
			notes = append(notes, fmt.Sprintf("consistency: %s shows %d distinct values (tolerance %d): %v",
				f.Axis, len(f.Values), f.Tolerance, f.Values))
		}
	}
	return notes
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
