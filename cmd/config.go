package cmd

import (
	"fmt"
	"strings"

	"github.com/khanhnv2901/siteverify/internal/checker"
	"github.com/khanhnv2901/siteverify/internal/report"
	consts "github.com/khanhnv2901/siteverify/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/siteverify/internal/shared/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultTimeoutSeconds = 10
	defaultPacingMillis   = 500
	defaultOutputDir      = "results"
	redirectSeparator     = "=>"
)

// AuditConfig is the resolved runtime configuration of one audit. Values come
// from flags, then the config file or SITEVERIFY_* environment, then defaults.
type AuditConfig struct {
	Host           string
	TimeoutSecs    int
	Concurrency    int
	PacingMS       int
	Samples        []checker.PageSample
	Redirects      []checker.RedirectCase
	NotFoundPath   string
	TrustedIssuers []string
	OutputDir      string
	Formats        []report.Format
	CheckAssets    bool
	FailOnWarnings bool
	Progress       bool
}

// auditFlagValues holds the raw flag values bound by the audit command.
type auditFlagValues struct {
	Target         string
	TimeoutSecs    int
	Concurrency    int
	PacingMS       int
	Pages          []string
	Redirects      []string
	NotFoundPath   string
	TrustedIssuers []string
	OutputDir      string
	Formats        []string
	CheckAssets    bool
	FailOnWarnings bool
	Progress       bool
}

func bindAuditFlags(flags *pflag.FlagSet, v *auditFlagValues) {
	flags.StringVarP(&v.Target, "target", "t", "", "hostname of the deployed site (e.g. www.example.com)")
	flags.IntVar(&v.TimeoutSecs, "timeout", defaultTimeoutSeconds, "per-request timeout in seconds")
	flags.IntVarP(&v.Concurrency, "concurrency", "c", consts.DefaultConcurrency, "number of sample pages fetched in parallel (1-8)")
	flags.IntVar(&v.PacingMS, "pacing-ms", defaultPacingMillis, "minimum delay between requests to the same origin, in milliseconds")
	flags.StringArrayVar(&v.Pages, "page", nil, "sample page as id=/path (repeatable)")
	flags.StringArrayVar(&v.Redirects, "redirect", nil, "redirect case as source=>expected (repeatable)")
	flags.StringVar(&v.NotFoundPath, "not-found-path", consts.DefaultNotFoundPath, "path expected to answer 404")
	flags.StringSliceVar(&v.TrustedIssuers, "trusted-issuer", consts.DefaultTrustedIssuers, "certificate issuer organizations treated as known free CAs")
	flags.StringVarP(&v.OutputDir, "output-dir", "o", defaultOutputDir, "directory for report files")
	flags.StringSliceVarP(&v.Formats, "format", "f", []string{string(report.FormatJSON)}, "report formats: json, markdown, yaml")
	flags.BoolVar(&v.CheckAssets, "check-assets", false, "also probe local CSS/JS assets referenced by sample pages")
	flags.BoolVar(&v.FailOnWarnings, "fail-on-warnings", false, "exit with status 2 unless the verdict is PASS")
	flags.BoolVar(&v.Progress, "progress", false, "show a live progress line while pages are sampled")
}

// loadAuditConfig merges flag values with viper-sourced settings and validates
// the result.
func loadAuditConfig(flags *pflag.FlagSet, v auditFlagValues) (AuditConfig, error) {
	applyStringDefault(flags, "target", "target", func(s string) { v.Target = s })
	applyIntDefault(flags, "timeout", "timeout_secs", func(n int) { v.TimeoutSecs = n })
	applyIntDefault(flags, "concurrency", "concurrency", func(n int) { v.Concurrency = n })
	applyIntDefault(flags, "pacing-ms", "pacing_ms", func(n int) { v.PacingMS = n })
	applyStringDefault(flags, "not-found-path", "not_found_path", func(s string) { v.NotFoundPath = s })
	applyStringSliceDefault(flags, "trusted-issuer", "trusted_issuers", func(s []string) { v.TrustedIssuers = s })
	applyStringDefault(flags, "output-dir", "output_dir", func(s string) { v.OutputDir = s })
	applyStringSliceDefault(flags, "format", "formats", func(s []string) { v.Formats = s })
	applyBoolDefault(flags, "check-assets", "check_assets", func(b bool) { v.CheckAssets = b })
	applyBoolDefault(flags, "fail-on-warnings", "fail_on_warnings", func(b bool) { v.FailOnWarnings = b })

	cfg := AuditConfig{
		Host:           checker.NormalizeHost(v.Target),
		TimeoutSecs:    v.TimeoutSecs,
		Concurrency:    checker.ClampConcurrency(v.Concurrency),
		PacingMS:       v.PacingMS,
		NotFoundPath:   v.NotFoundPath,
		TrustedIssuers: v.TrustedIssuers,
		OutputDir:      v.OutputDir,
		CheckAssets:    v.CheckAssets,
		FailOnWarnings: v.FailOnWarnings,
		Progress:       v.Progress,
	}

	if cfg.Host == "" {
		return cfg, sharedErrors.ErrMissingTarget
	}
	if cfg.TimeoutSecs <= 0 {
		return cfg, fmt.Errorf("%w: timeout must be positive, got %d", sharedErrors.ErrInvalidConfig, cfg.TimeoutSecs)
	}
	if cfg.PacingMS < 0 {
		return cfg, fmt.Errorf("%w: pacing-ms must not be negative, got %d", sharedErrors.ErrInvalidConfig, cfg.PacingMS)
	}
	if !strings.HasPrefix(cfg.NotFoundPath, "/") {
		return cfg, fmt.Errorf("%w: not-found path %q must start with /", sharedErrors.ErrInvalidPath, cfg.NotFoundPath)
	}
	if cfg.OutputDir == "" {
		return cfg, fmt.Errorf("%w: output directory is required", sharedErrors.ErrInvalidConfig)
	}

	samples, err := loadSamples(flags, v.Pages)
	if err != nil {
		return cfg, err
	}
	cfg.Samples = samples

	redirects, err := loadRedirects(flags, v.Redirects)
	if err != nil {
		return cfg, err
	}
	cfg.Redirects = redirects

	formats, err := report.ParseFormats(v.Formats)
	if err != nil {
		return cfg, err
	}
	cfg.Formats = formats

	return cfg, nil
}

func loadSamples(flags *pflag.FlagSet, raw []string) ([]checker.PageSample, error) {
	var samples []checker.PageSample

	switch {
	case flagChanged(flags, "page"):
		for _, entry := range raw {
			id, path, ok := strings.Cut(entry, "=")
			if !ok {
				return nil, fmt.Errorf("%w: page %q must be id=/path", sharedErrors.ErrInvalidConfig, entry)
			}
			samples = append(samples, checker.PageSample{ID: strings.TrimSpace(id), Path: strings.TrimSpace(path)})
		}
	case viper.IsSet("sample_pages"):
		if err := viper.UnmarshalKey("sample_pages", &samples); err != nil {
			return nil, fmt.Errorf("%w: sample_pages: %v", sharedErrors.ErrInvalidConfig, err)
		}
	}

	if len(samples) == 0 {
		return checker.DefaultSamples(), nil
	}
	return samples, validateSamples(samples)
}

func validateSamples(samples []checker.PageSample) error {
	seen := make(map[string]bool, len(samples))
	for _, s := range samples {
		if s.ID == "" {
			return fmt.Errorf("%w: sample page id must not be empty", sharedErrors.ErrInvalidConfig)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: %q", sharedErrors.ErrDuplicatePage, s.ID)
		}
		seen[s.ID] = true
		if !strings.HasPrefix(s.Path, "/") {
			return fmt.Errorf("%w: page %q path %q must start with /", sharedErrors.ErrInvalidPath, s.ID, s.Path)
		}
	}
	return nil
}

// loadRedirects returns nil when nothing is configured so the auditor derives
// the canonical cases from the target host.
func loadRedirects(flags *pflag.FlagSet, raw []string) ([]checker.RedirectCase, error) {
	var cases []checker.RedirectCase

	switch {
	case flagChanged(flags, "redirect"):
		for _, entry := range raw {
			source, expected, ok := strings.Cut(entry, redirectSeparator)
			source, expected = strings.TrimSpace(source), strings.TrimSpace(expected)
			if !ok || source == "" || expected == "" {
				return nil, fmt.Errorf("%w: redirect %q must be source%sexpected", sharedErrors.ErrInvalidConfig, entry, redirectSeparator)
			}
			cases = append(cases, checker.RedirectCase{Name: source, Source: source, Expected: expected})
		}
	case viper.IsSet("redirects"):
		if err := viper.UnmarshalKey("redirects", &cases); err != nil {
			return nil, fmt.Errorf("%w: redirects: %v", sharedErrors.ErrInvalidConfig, err)
		}
	default:
		return nil, nil
	}

	for i := range cases {
		if cases[i].Name == "" {
			cases[i].Name = cases[i].Source
		}
		if cases[i].Source == "" || cases[i].Expected == "" {
			return nil, fmt.Errorf("%w: redirect %q needs source and expected", sharedErrors.ErrInvalidConfig, cases[i].Name)
		}
	}
	return cases, nil
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	if flags == nil {
		return false
	}
	flag := flags.Lookup(name)
	return flag != nil && flag.Changed
}

// The apply*Default helpers copy a viper value into the runtime config when
// the key is set and the user did not pass the corresponding flag.

func applyIntDefault(flags *pflag.FlagSet, name, key string, setter func(int)) {
	if setter == nil || flagChanged(flags, name) || !viper.IsSet(key) {
		return
	}
	setter(viper.GetInt(key))
}

func applyBoolDefault(flags *pflag.FlagSet, name, key string, setter func(bool)) {
	if setter == nil || flagChanged(flags, name) || !viper.IsSet(key) {
		return
	}
	setter(viper.GetBool(key))
}

func applyStringDefault(flags *pflag.FlagSet, name, key string, setter func(string)) {
	if setter == nil || flagChanged(flags, name) || !viper.IsSet(key) {
		return
	}
	setter(viper.GetString(key))
}

func applyStringSliceDefault(flags *pflag.FlagSet, name, key string, setter func([]string)) {
	if setter == nil || flagChanged(flags, name) || !viper.IsSet(key) {
		return
	}
	setter(viper.GetStringSlice(key))
}
