package dashboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/zalepa/mascc/dataset"
)

// DefaultTopN is the length of the top organizations ranking.
const DefaultTopN = 10

// UnknownOrg labels rows with neither a parent nor an organization name.
const UnknownOrg = "(Unknown)"

// YearOverYear selects how the year-ago comparison month is found.
type YearOverYear int

const (
	// YearOverYearPositional compares against the total 13 entries from the
	// end of the series. It assumes the series has no missing months.
	YearOverYearPositional YearOverYear = iota
	// YearOverYearCalendar compares against the month exactly 12 calendar
	// months before the latest one, if the series has it.
	YearOverYearCalendar
)

// ParseYearOverYear maps a config value to a YearOverYear mode. The empty
// string selects the positional mode.
func ParseYearOverYear(s string) (YearOverYear, error) {
	switch s {
	case "", "position":
		return YearOverYearPositional, nil
	case "calendar":
		return YearOverYearCalendar, nil
	}
	return 0, fmt.Errorf("invalid year-over-year mode %q; valid options: position, calendar", s)
}

func (y YearOverYear) String() string {
	if y == YearOverYearCalendar {
		return "calendar"
	}
	return "position"
}

// AggregateOptions tunes Aggregate. The zero value means DefaultTopN entries
// and positional year-over-year lookup.
type AggregateOptions struct {
	TopN         int
	YearOverYear YearOverYear
}

// Point is one month of the trend series.
type Point struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// OrgTotal is one entry of the top organizations ranking.
type OrgTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// KPIs holds the headline values. A nil field means there was not enough
// history to compute it.
type KPIs struct {
	Current *float64 `json:"current"`
	Prior   *float64 `json:"prior"`
	YearAgo *float64 `json:"yearAgo"`
}

// KPIText is the display form of KPIs.
type KPIText struct {
	Current        string `json:"current"`
	MonthOverMonth string `json:"monthOverMonth"`
	YearOverYear   string `json:"yearOverYear"`
}

// Text formats the KPIs for display.
func (k KPIs) Text() KPIText {
	return KPIText{
		Current:        FormatNumber(k.Current),
		MonthOverMonth: FormatDelta(k.Current, k.Prior),
		YearOverYear:   FormatDelta(k.Current, k.YearAgo),
	}
}

// Result is the aggregated view of a selection.
type Result struct {
	Selection   Selection  `json:"selection"`
	Series      []Point    `json:"series"`
	KPIs        KPIs       `json:"kpis"`
	LatestMonth string     `json:"latestMonth"`
	Top         []OrgTotal `json:"top"`
}

// TrendTitle is the heading of the trend chart.
func (r Result) TrendTitle() string {
	return fmt.Sprintf("Enrollment Trend — %s, %s", r.Selection.State, r.Selection.County)
}

// TopTitle is the heading of the top organizations chart.
func (r Result) TopTitle() string {
	return fmt.Sprintf("Top Parent Organizations — %s, %s — %s", r.Selection.State, r.Selection.County, r.LatestMonth)
}

// Filter returns the rows of sel's state and county, restricted to sel's
// parents when any are selected. A selection without a state or county
// matches nothing.
func Filter(rows []dataset.Row, sel Selection) []dataset.Row {
	if sel.State == "" || sel.County == "" {
		return nil
	}
	var parents map[string]bool
	if len(sel.Parents) > 0 {
		parents = make(map[string]bool, len(sel.Parents))
		for _, p := range sel.Parents {
			parents[p] = true
		}
	}
	var out []dataset.Row
	for _, r := range rows {
		if r[dataset.ColState] != sel.State || r[dataset.ColCounty] != sel.County {
			continue
		}
		if parents != nil && !parents[r[dataset.ColParentOrg]] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Aggregate filters rows by sel and computes the monthly trend, the KPIs and
// the top organizations of the latest month.
func Aggregate(rows []dataset.Row, sel Selection, opts AggregateOptions) Result {
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	filtered := Filter(rows, sel)
	series := MonthlyTotals(filtered)

	res := Result{Selection: sel, Series: series}
	n := len(series)
	if n > 0 {
		res.LatestMonth = series[n-1].Month
		res.KPIs.Current = ptr(series[n-1].Total)
	}
	if n > 1 {
		res.KPIs.Prior = ptr(series[n-2].Total)
	}
	switch opts.YearOverYear {
	case YearOverYearCalendar:
		res.KPIs.YearAgo = calendarYearAgo(series)
	default:
		if n > 12 {
			res.KPIs.YearAgo = ptr(series[n-13].Total)
		}
	}
	if n > 0 {
		res.Top = TopOrganizations(filtered, res.LatestMonth, topN)
	}
	return res
}

// MonthlyTotals sums enrollment by month key and returns the totals in
// ascending month order.
func MonthlyTotals(rows []dataset.Row) []Point {
	totals := make(map[string]float64)
	for _, r := range rows {
		totals[MonthKey(r[dataset.ColReportPeriod])] += enrollment(r[dataset.ColEnrollment])
	}
	series := make([]Point, 0, len(totals))
	for m, t := range totals {
		series = append(series, Point{Month: m, Total: t})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month < series[j].Month
	})
	return series
}

// TopOrganizations ranks the organizations of month by summed enrollment,
// largest first, keeping at most n entries. Equal totals keep the order in
// which the organizations first appear in rows.
func TopOrganizations(rows []dataset.Row, month string, n int) []OrgTotal {
	index := make(map[string]int)
	var orgs []OrgTotal
	for _, r := range rows {
		if MonthKey(r[dataset.ColReportPeriod]) != month {
			continue
		}
		name := orgLabel(r)
		i, ok := index[name]
		if !ok {
			i = len(orgs)
			index[name] = i
			orgs = append(orgs, OrgTotal{Name: name})
		}
		orgs[i].Total += enrollment(r[dataset.ColEnrollment])
	}
	sort.SliceStable(orgs, func(i, j int) bool {
		return orgs[i].Total > orgs[j].Total
	})
	if len(orgs) > n {
		orgs = orgs[:n]
	}
	return orgs
}

func orgLabel(r dataset.Row) string {
	if p := r[dataset.ColParentOrg]; p != "" {
		return p
	}
	if o := r[dataset.ColOrgName]; o != "" {
		return o
	}
	return UnknownOrg
}

func calendarYearAgo(series []Point) *float64 {
	if len(series) == 0 {
		return nil
	}
	latest, err := time.Parse("2006-01", series[len(series)-1].Month)
	if err != nil {
		return nil
	}
	want := latest.AddDate(-1, 0, 0).Format("2006-01")
	for _, p := range series {
		if p.Month == want {
			return ptr(p.Total)
		}
	}
	return nil
}

func ptr(v float64) *float64 { return &v }
