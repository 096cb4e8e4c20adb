package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/khanhnv2901/siteverify/internal/audit"
	"github.com/nao1215/markdown"
)

// writeMarkdown renders a human-readable summary of the report.
func writeMarkdown(out io.Writer, rep *audit.Report) error {
	md := markdown.NewMarkdown(out)

	md.H1("Site Verification Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Domain", "`" + rep.Domain + "`"},
			{"Run At", rep.Timestamp.Format("2006-01-02 15:04:05 MST")},
			{"Duration", fmt.Sprintf("%d ms", rep.DurationMS)},
			{"Verdict", string(rep.FinalVerdict)},
		},
	})
	md.PlainText("")

	if rep.FinalVerdict == audit.VerdictPass {
		md.Tip("All checks passed.")
	} else {
		md.Warningf("%d check(s) raised warnings.", len(rep.Warnings))
		md.PlainText("")
		md.BulletList(rep.Warnings...)
	}
	md.PlainText("")

	writeSSL(md, rep)
	writeRedirects(md, rep)
	writePages(md, rep)
	writeConsistency(md, rep)
	writeSecurity(md, rep)
	writeNotFound(md, rep)
	writeAssets(md, rep)

	if len(rep.Notes) > 0 {
		md.H2("Notes")
		md.PlainText("")
		md.BulletList(rep.Notes...)
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by siteverify*")
	return md.Build()
}

func writeSSL(md *markdown.Markdown, rep *audit.Report) {
	md.H2("HTTPS Certificate")
	md.PlainText("")
	ssl := rep.SSL
	if ssl.Error != "" {
		md.Cautionf("Certificate inspection failed: %s", ssl.Error)
		md.PlainText("")
		return
	}
	md.Table(markdown.TableSet{
		Header: []string{"Field", "Value"},
		Rows: [][]string{
			{"Issuer", ssl.Issuer["organizationName"]},
			{"Subject", ssl.Subject["commonName"]},
			{"Valid", ssl.NotBefore + " ~ " + ssl.NotAfter},
			{"Covered Domains", strings.Join(ssl.DNSNames, ", ")},
			{"Known Free CA", yesNo(ssl.IsKnownFreeCA)},
			{"Covers " + rep.Domain, yesNo(ssl.CoversDomain)},
		},
	})
	md.PlainText("")
}

func writeRedirects(md *markdown.Markdown, rep *audit.Report) {
	md.H2("Redirects")
	md.PlainText("")
	if len(rep.Redirects) == 0 {
		md.PlainText("No redirect cases configured.")
		md.PlainText("")
		return
	}
	rows := make([][]string, 0, len(rep.Redirects))
	for _, r := range rep.Redirects {
		actual := r.Actual
		if r.Error != "" {
			actual = "error: " + r.Error
		}
		rows = append(rows, []string{r.Name, r.Source, r.Expected, actual, passFail(r.Success)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Case", "Source", "Expected", "Actual", "Result"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writePages(md *markdown.Markdown, rep *audit.Report) {
	md.H2("Sample Pages")
	md.PlainText("")

	grades := make(map[string]string, len(rep.Latency))
	for _, l := range rep.Latency {
		grades[l.Page] = string(l.Grade)
	}

	ids := make([]string, 0, len(rep.Pages))
	for id := range rep.Pages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return rep.Pages[ids[i]].Index < rep.Pages[ids[j]].Index })

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		p := rep.Pages[id]
		status := strconv.Itoa(p.Status)
		if p.Error != "" && p.Status == 0 {
			status = "ERROR"
		}
		rows = append(rows, []string{id, p.Path, status, fmt.Sprintf("%.2f", p.ResponseTimeMS), grades[id]})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Page", "Path", "Status", "Response (ms)", "Grade"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeConsistency(md *markdown.Markdown, rep *audit.Report) {
	md.H2("Cross-Page Consistency")
	md.PlainText("")
	c := rep.Consistency
	if c.LowConfidence {
		md.Note("No sample page was fetched successfully; consistency results carry no evidence.")
		md.PlainText("")
	}
	rows := make([][]string, 0, len(c.Axes))
	for _, axis := range c.Axes {
		rows = append(rows, []string{
			string(axis.Axis),
			strings.Join(axis.Values, ", "),
			strconv.Itoa(axis.Tolerance),
			passFail(axis.Pass),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Axis", "Distinct Values", "Tolerance", "Result"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeSecurity(md *markdown.Markdown, rep *audit.Report) {
	md.H2("Security")
	md.PlainText("")
	if len(rep.SecurityIssues) == 0 {
		md.PlainText("No security issues found.")
		md.PlainText("")
		return
	}
	rows := make([][]string, 0, len(rep.SecurityIssues))
	for _, s := range rep.SecurityIssues {
		detail := strings.Join(s.Details, "; ")
		if s.Remaining > 0 {
			detail += fmt.Sprintf(" (+%d more)", s.Remaining)
		}
		rows = append(rows, []string{s.Page, string(s.Type), s.Pattern, "`" + strings.ReplaceAll(detail, "`", "'") + "`"})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Page", "Type", "Pattern", "Details"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeNotFound(md *markdown.Markdown, rep *audit.Report) {
	md.H2("404 Handling")
	md.PlainText("")
	nf := rep.NotFound
	switch {
	case nf.Error != "":
		md.PlainTextf("`%s` failed: %s", nf.URL, nf.Error)
	case nf.Pass:
		md.PlainTextf("`%s` answered %d as expected.", nf.URL, nf.Status)
	default:
		md.PlainTextf("`%s` answered %d, expected %d.", nf.URL, nf.Status, nf.Expected)
	}
	md.PlainText("")
}

func writeAssets(md *markdown.Markdown, rep *audit.Report) {
	if rep.Assets == nil {
		return
	}
	md.H2("Assets")
	md.PlainText("")
	md.PlainTextf("%d checked, %d failed.", rep.Assets.Checked, rep.Assets.Failed)
	md.PlainText("")
	for _, a := range rep.Assets.Assets {
		if !a.OK {
			md.PlainTextf("- `%s` status %d %s", a.Ref, a.Status, a.Error)
		}
	}
	if len(rep.Assets.ExternalDependencies) > 0 {
		md.PlainText("")
		md.PlainText("External dependencies:")
		md.PlainText("")
		md.BulletList(rep.Assets.ExternalDependencies...)
	}
	md.PlainText("")
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func passFail(b bool) string {
	if b {
		return "PASS"
	}
	return "FAIL"
}
