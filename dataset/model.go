// Package dataset loads the processed enrollment CSV files produced by the
// upstream ETL into in-memory rows.
package dataset

// Column names read from the main enrollment file.
const (
	ColReportPeriod = "report_period"
	ColState        = "state"
	ColCounty       = "county"
	ColParentOrg    = "parent_org"
	ColOrgName      = "org_name"
	ColEnrollment   = "enrollment"
)

// RequiredColumns lists the columns the dashboard reads from the main file.
var RequiredColumns = []string{
	ColState, ColCounty, ColParentOrg, ColOrgName, ColReportPeriod, ColEnrollment,
}

// Row holds one CSV record keyed by header name. Values are kept as raw
// strings because enrollment counts may carry thousands separators or be
// suppressed entirely.
type Row map[string]string

// Set is the pair of row collections the dashboard starts from. Both are
// read-only once loaded.
type Set struct {
	Main []Row
	KPI  []Row

	// MainHeader is the header of the main file, in file order.
	MainHeader []string
}

// MissingColumns returns the entries of RequiredColumns that are absent from
// header.
func MissingColumns(header []string) []string {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var missing []string
	for _, c := range RequiredColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
