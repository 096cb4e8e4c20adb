package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/khanhnv2901/siteverify/internal/audit"
	"github.com/khanhnv2901/siteverify/internal/checker"
	"github.com/khanhnv2901/siteverify/internal/report"
	"github.com/spf13/cobra"
)

var auditFlags auditFlagValues

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Verify a deployed site and write the report",
	Long: `Run every verification stage against the target site: certificate,
redirects, sample pages, cross-page consistency, latency, security patterns and
404 handling. Findings degrade the verdict to PASS_WITH_WARNINGS but never stop
the run.`,
	Example: `  siteverify audit --target www.example.com
  siteverify audit -t www.example.com --page home=/ --page about=/about.html -f json,markdown`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadAuditConfig(cmd.Flags(), auditFlags)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runAudit(ctx, cmd.OutOrStdout(), cfg)
	},
}

func runAudit(ctx context.Context, out io.Writer, cfg AuditConfig) error {
	throttle := checker.NewOriginThrottle(time.Duration(cfg.PacingMS) * time.Millisecond)
	prober := checker.NewProber(time.Duration(cfg.TimeoutSecs)*time.Second, throttle)
	prober.TrustedIssuers = cfg.TrustedIssuers

	auditor := audit.NewAuditor(audit.Config{
		Host:         cfg.Host,
		Samples:      cfg.Samples,
		Redirects:    cfg.Redirects,
		NotFoundPath: cfg.NotFoundPath,
		Concurrency:  cfg.Concurrency,
		CheckAssets:  cfg.CheckAssets,
	}, prober, logger)

	var progress *progressPrinter
	if cfg.Progress {
		progress = newProgressPrinter(out, len(cfg.Samples), "pages")
		auditor.OnPage(func(p checker.PageResult) {
			var secs float64
			if p.Probe.OK() {
				secs = p.Probe.Response.Elapsed.Seconds()
			}
			progress.Increment(p.Fetched(), secs)
		})
		progress.Start()
	}

	fmt.Fprintf(out, "%s auditing %s (%d page(s), concurrency %d)\n",
		colorInfo("[siteverify]"), cfg.Host, len(cfg.Samples), cfg.Concurrency)

	rep, err := auditor.Run(ctx)
	if progress != nil {
		progress.Stop()
	}
	if err != nil {
		return fmt.Errorf("audit run: %w", err)
	}

	writer := &report.Writer{Dir: cfg.OutputDir, Formats: cfg.Formats}
	written, err := writer.Write(rep)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printSummary(out, rep)
	for _, w := range written {
		fmt.Fprintf(out, "%s %s report: %s\n", colorSuccess("✓"), w.Format, w.Path)
		fmt.Fprintf(out, "  sha256: %s\n", w.SHA256)
	}

	if cfg.FailOnWarnings && rep.FinalVerdict != audit.VerdictPass {
		return &WarningsError{Verdict: string(rep.FinalVerdict), Warnings: len(rep.Warnings)}
	}
	return nil
}

func printSummary(out io.Writer, rep *audit.Report) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, colorHeading("Summary for "+rep.Domain))

	fmt.Fprintf(out, "  Certificate:  %s\n", formatStatusWithColor(passFailWord(rep.SSL.Pass)))
	redirectsOK := true
	for _, r := range rep.Redirects {
		redirectsOK = redirectsOK && r.Success
	}
	fmt.Fprintf(out, "  Redirects:    %s (%d case(s))\n", formatStatusWithColor(passFailWord(redirectsOK)), len(rep.Redirects))

	ids := make([]string, 0, len(rep.Pages))
	for id := range rep.Pages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return rep.Pages[ids[i]].Index < rep.Pages[ids[j]].Index })
	grades := make(map[string]checker.LatencyGrade, len(rep.Latency))
	for _, l := range rep.Latency {
		grades[l.Page] = l.Grade
	}
	for _, id := range ids {
		p := rep.Pages[id]
		fmt.Fprintf(out, "  Page %-10s %s %d %.0fms\n", id, formatStatusWithColor(string(grades[id])), p.Status, p.ResponseTimeMS)
	}

	fmt.Fprintf(out, "  Consistency:  %s\n", formatStatusWithColor(passFailWord(rep.Consistency.Pass)))
	fmt.Fprintf(out, "  Security:     %d finding(s)\n", len(rep.SecurityIssues))
	fmt.Fprintf(out, "  404 handling: %s (status %d)\n", formatStatusWithColor(passFailWord(rep.NotFound.Pass)), rep.NotFound.Status)
	if rep.Assets != nil {
		fmt.Fprintf(out, "  Assets:       %d checked, %d failed\n", rep.Assets.Checked, rep.Assets.Failed)
	}

	for _, w := range rep.Warnings {
		fmt.Fprintf(out, "  %s %s\n", colorWarn("!"), w)
	}
	for _, n := range rep.Notes {
		fmt.Fprintf(out, "  %s %s\n", colorInfo("-"), n)
	}
	fmt.Fprintf(out, "\nVerdict: %s\n\n", formatStatusWithColor(string(rep.FinalVerdict)))
}

func passFailWord(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

func init() {
	bindAuditFlags(auditCmd.Flags(), &auditFlags)
}
