package audit

import (
	"time"

	"github.com/khanhnv2901/siteverify/internal/checker"
)

// Report is the persisted, machine-readable outcome of one run. Raw page
// bodies never appear in it.
type Report struct {
	Timestamp      time.Time            `json:"timestamp"`
	Domain         string               `json:"domain"`
	DurationMS     int64                `json:"duration_ms"`
	SSL            SSLSection           `json:"ssl_results"`
	Redirects      []RedirectEntry      `json:"redirect_results"`
	Pages          map[string]PageEntry `json:"pages_info"`
	Consistency    ConsistencySection   `json:"consistency"`
	Latency        []LatencyEntry       `json:"latency"`
	SecurityIssues []SecurityEntry      `json:"security_issues"`
	NotFound       NotFoundEntry        `json:"not_found_result"`
	Assets         *AssetSection        `json:"assets,omitempty"`
	StageLog       []StageEntry         `json:"stage_log"`
	Warnings       []string             `json:"warnings"`
	Notes          []string             `json:"notes"`
	FinalVerdict   Verdict              `json:"final_verdict"`
}

type SSLSection struct {
	CertFound     bool              `json:"cert_found"`
	Issuer        map[string]string `json:"issuer,omitempty"`
	Subject       map[string]string `json:"subject,omitempty"`
	Version       int               `json:"version,omitempty"`
	NotBefore     string            `json:"not_before,omitempty"`
	NotAfter      string            `json:"not_after,omitempty"`
	DNSNames      []string          `json:"subject_alt_names,omitempty"`
	IsKnownFreeCA bool              `json:"is_known_free_ca"`
	CoversDomain  bool              `json:"covers_domain"`
	Pass          bool              `json:"pass"`
	Error         string            `json:"error,omitempty"`
}

type RedirectEntry struct {
	Name     string `json:"name"`
	Source   string `json:"source"`
	Expected string `json:"expected"`
	Actual   string `json:"actual,omitempty"`
	Status   int    `json:"status,omitempty"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// PageEntry summarizes one sample page; Index keeps the configured order
// since pages_info is keyed by page id.
type PageEntry struct {
	Index          int     `json:"index"`
	Path           string  `json:"path"`
	URL            string  `json:"url"`
	Status         int     `json:"status,omitempty"`
	ResponseTimeMS float64 `json:"response_time_ms,omitempty"`
	Server         string  `json:"server,omitempty"`
	ContentType    string  `json:"content_type,omitempty"`
	CacheControl   string  `json:"cache_control,omitempty"`
	ContentLength  int     `json:"content_length,omitempty"`
	FinalURL       string  `json:"final_url,omitempty"`
	Note           string  `json:"note,omitempty"`
	Error          string  `json:"error,omitempty"`
	*checker.PageSignals
}

type ConsistencySection struct {
	SampleSize    int         `json:"sample_size"`
	Excluded      []string    `json:"excluded_pages"`
	LowConfidence bool        `json:"low_confidence"`
	Pass          bool        `json:"pass"`
	Axes          []AxisEntry `json:"axes"`
}

type AxisEntry struct {
	Axis      checker.Axis      `json:"axis"`
	Values    []string          `json:"values"`
	PerPage   map[string]string `json:"per_page"`
	Tolerance int               `json:"tolerance"`
	Pass      bool              `json:"pass"`
}

type LatencyEntry struct {
	Page      string               `json:"page"`
	Status    int                  `json:"status,omitempty"`
	ElapsedMS float64              `json:"response_time_ms"`
	Grade     checker.LatencyGrade `json:"grade"`
	Error     string               `json:"error,omitempty"`
}

type SecurityEntry struct {
	Page      string                      `json:"page"`
	Type      checker.SecurityFindingKind `json:"type"`
	Pattern   string                      `json:"pattern,omitempty"`
	Details   []string                    `json:"details"`
	Remaining int                         `json:"remaining,omitempty"`
}

type NotFoundEntry struct {
	URL      string `json:"url"`
	Status   int    `json:"status,omitempty"`
	Expected int    `json:"expected"`
	Pass     bool   `json:"pass"`
	Error    string `json:"error,omitempty"`
}

type AssetSection struct {
	Checked              int          `json:"checked"`
	Failed               int          `json:"failed"`
	Assets               []AssetEntry `json:"files"`
	ExternalDependencies []string     `json:"external_dependencies"`
}

type AssetEntry struct {
	Ref          string `json:"ref"`
	URL          string `json:"url"`
	Status       int    `json:"status,omitempty"`
	ContentType  string `json:"content_type,omitempty"`
	CacheControl string `json:"cache_control,omitempty"`
	OK           bool   `json:"ok"`
	Error        string `json:"error,omitempty"`
}

func newSSLSection(c checker.CertificateInfo) SSLSection {
	if c.Err != nil {
		return SSLSection{Error: c.Err.Error()}
	}
	return SSLSection{
		CertFound:     true,
		Issuer:        c.Issuer,
		Subject:       c.Subject,
		Version:       c.Version,
		NotBefore:     c.NotBefore.UTC().Format(time.RFC3339),
		NotAfter:      c.NotAfter.UTC().Format(time.RFC3339),
		DNSNames:      c.DNSNames,
		IsKnownFreeCA: c.IsKnownFreeCA,
		CoversDomain:  c.CoversTargetDomain,
		Pass:          c.Pass(),
	}
}

func newRedirectEntries(results []checker.RedirectResult) []RedirectEntry {
	entries := make([]RedirectEntry, 0, len(results))
	for _, r := range results {
		e := RedirectEntry{
			Name:     r.Case.Name,
			Source:   r.Case.Source,
			Expected: r.Case.Expected,
			Actual:   r.Actual,
			Status:   r.Status,
			Success:  r.Success,
		}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		entries = append(entries, e)
	}
	return entries
}

func newPageEntries(pages []checker.PageResult) map[string]PageEntry {
	entries := make(map[string]PageEntry, len(pages))
	for i, p := range pages {
		e := PageEntry{
			Index:       i,
			Path:        p.Sample.Path,
			URL:         p.URL,
			Error:       p.Failure(),
			PageSignals: p.Signals,
		}
		if resp := p.Probe.Response; p.Probe.OK() {
			e.Status = resp.Status
			e.ResponseTimeMS = float64(resp.Elapsed.Microseconds()) / 1000
			e.Server = resp.Server
			e.ContentType = resp.ContentType
			e.CacheControl = resp.CacheControl
			e.ContentLength = resp.ContentLength
			e.FinalURL = resp.FinalURL
			e.Note = resp.Note
		}
		entries[p.Sample.ID] = e
	}
	return entries
}

func newConsistencySection(c checker.ConsistencyReport) ConsistencySection {
	section := ConsistencySection{
		SampleSize:    c.SampleSize,
		Excluded:      c.Excluded,
		LowConfidence: c.LowConfidence,
		Pass:          c.Pass(),
		Axes:          make([]AxisEntry, 0, len(c.Findings)),
	}
	for _, f := range c.Findings {
		section.Axes = append(section.Axes, AxisEntry{
			Axis:      f.Axis,
			Values:    f.Values,
			PerPage:   f.PerPage,
			Tolerance: f.Tolerance,
			Pass:      f.Pass,
		})
	}
	return section
}

func newLatencyEntries(results []checker.LatencyResult) []LatencyEntry {
	entries := make([]LatencyEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, LatencyEntry{
			Page:      r.Page,
			Status:    r.Status,
			ElapsedMS: r.ElapsedMS,
			Grade:     r.Grade,
			Error:     r.Error,
		})
	}
	return entries
}

func newSecurityEntries(findings []checker.SecurityFinding) []SecurityEntry {
	entries := make([]SecurityEntry, 0, len(findings))
	for _, f := range findings {
		entries = append(entries, SecurityEntry{
			Page:      f.Page,
			Type:      f.Kind,
			Pattern:   f.Pattern,
			Details:   f.Snippets,
			Remaining: f.Remaining,
		})
	}
	return entries
}

func newNotFoundEntry(r checker.NotFoundResult) NotFoundEntry {
	e := NotFoundEntry{
		URL:      r.URL,
		Status:   r.Status,
		Expected: r.Expected,
		Pass:     r.Pass,
	}
	if r.Err != nil {
		e.Error = r.Err.Error()
	}
	return e
}

func newAssetSection(r checker.AssetReport) *AssetSection {
	section := &AssetSection{
		Checked:              len(r.Assets),
		Failed:               r.Failed(),
		Assets:               make([]AssetEntry, 0, len(r.Assets)),
		ExternalDependencies: r.External,
	}
	if section.ExternalDependencies == nil {
		section.ExternalDependencies = []string{}
	}
	for _, a := range r.Assets {
		e := AssetEntry{
			Ref:          a.Ref,
			URL:          a.URL,
			Status:       a.Status,
			ContentType:  a.ContentType,
			CacheControl: a.CacheControl,
			OK:           a.OK,
		}
		if a.Err != nil {
			e.Error = a.Err.Error()
		}
		section.Assets = append(section.Assets, e)
	}
	return section
}
