package checker

import (
	"sort"
	"strconv"

	consts "github.com/khanhnv2901/siteverify/internal/shared/constants"
)

// Axis names one cross-page comparison dimension.
type Axis string

const (
	AxisServerHeader   Axis = "server_header"
	AxisLogoSource     Axis = "logo_src"
	AxisNavItemCount   Axis = "nav_item_count"
	AxisFooterFragment Axis = "footer_fragment_count"
)

// missingValue stands in for an absent header or logo so that absence is
// itself a comparable value.
const missingValue = "N/A"

// ConsistencyFinding is the distinct-value set observed on one axis.
type ConsistencyFinding struct {
	Axis      Axis
	Values    []string
	PerPage   map[string]string
	Tolerance int
	Pass      bool
}

// ConsistencyReport covers every axis over the successfully fetched pages.
type ConsistencyReport struct {
	Findings      []ConsistencyFinding
	SampleSize    int
	Excluded      []string
	LowConfidence bool
}

// Pass reports whether every axis is within tolerance.
func (r ConsistencyReport) Pass() bool {
	for _, f := range r.Findings {
		if !f.Pass {
			return false
		}
	}
	return true
}

// Finding returns the finding for axis.
func (r ConsistencyReport) Finding(axis Axis) (ConsistencyFinding, bool) {
	for _, f := range r.Findings {
		if f.Axis == axis {
			return f, true
		}
	}
	return ConsistencyFinding{}, false
}

type axisRule struct {
	axis      Axis
	tolerance int
	value     func(PageResult) string
}

var axisRules = []axisRule{
	{
		axis:      AxisServerHeader,
		tolerance: consts.ServerHeaderTolerance,
		value: func(p PageResult) string {
			return orMissing(p.Probe.Response.Server)
		},
	},
	{
		axis:      AxisLogoSource,
		tolerance: consts.LogoSourceTolerance,
		value: func(p PageResult) string {
			return orMissing(p.Signals.LogoSrc)
		},
	},
	{
		axis:      AxisNavItemCount,
		tolerance: consts.NavItemCountTolerance,
		value: func(p PageResult) string {
			return strconv.Itoa(len(p.Signals.NavItems))
		},
	},
	{
		axis:      AxisFooterFragment,
		tolerance: consts.FooterCountTolerance,
		value: func(p PageResult) string {
			return strconv.Itoa(len(p.Signals.FooterFragments))
		},
	},
}

// CheckConsistency compares signals across pages. Pages that were not fetched
// are excluded from every axis. An axis with no evidence passes, and the
// report is flagged LowConfidence. The result does not depend on page order.
func CheckConsistency(pages []PageResult) ConsistencyReport {
	report := ConsistencyReport{Excluded: []string{}}

	fetched := make([]PageResult, 0, len(pages))
	for _, p := range pages {
		if p.Fetched() && p.Signals != nil {
			fetched = append(fetched, p)
		} else {
			report.Excluded = append(report.Excluded, p.Sample.ID)
		}
	}
	sort.Strings(report.Excluded)
	report.SampleSize = len(fetched)
	report.LowConfidence = len(fetched) == 0

	for _, rule := range axisRules {
		report.Findings = append(report.Findings, evaluateAxis(rule, fetched))
	}
	return report
}

func evaluateAxis(rule axisRule, pages []PageResult) ConsistencyFinding {
	finding := ConsistencyFinding{
		Axis:      rule.axis,
		Values:    []string{},
		PerPage:   make(map[string]string, len(pages)),
		Tolerance: rule.tolerance,
	}

	distinct := make(map[string]struct{})
	for _, p := range pages {
		v := rule.value(p)
		finding.PerPage[p.Sample.ID] = v
		distinct[v] = struct{}{}
	}

	for v := range distinct {
		finding.Values = append(finding.Values, v)
	}
	sort.Strings(finding.Values)
	finding.Pass = len(finding.Values) <= rule.tolerance
	return finding
}

func orMissing(v string) string {
	if v == "" {
		return missingValue
	}
	return v
}
