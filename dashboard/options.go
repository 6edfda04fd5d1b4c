package dashboard

import (
	"strings"

	"golang.org/x/text/collate"

	"github.com/zalepa/mascc/dataset"
)

// DefaultState is preselected when present in the data.
const DefaultState = "Arizona"

// Selection is the filter state for one dashboard view. An empty Parents list
// means every parent organization is included. Treat it as a value: nothing
// in this package modifies a Selection after construction.
type Selection struct {
	State   string   `json:"state"`
	County  string   `json:"county"`
	Parents []string `json:"parents"`
}

// NewSelection builds a Selection holding its own copy of parents.
func NewSelection(state, county string, parents ...string) Selection {
	var ps []string
	for _, p := range parents {
		if strings.TrimSpace(p) != "" {
			ps = append(ps, p)
		}
	}
	return Selection{State: state, County: county, Parents: ps}
}

// Options is the set of selectable values for a selection, together with the
// selection they resolve to.
type Options struct {
	States    []string  `json:"states"`
	Counties  []string  `json:"counties"`
	Parents   []string  `json:"parents"`
	Selection Selection `json:"selection"`
}

// DistinctSorted removes blank and duplicate values and sorts the rest
// alphabetically using en-US collation.
func DistinctSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	collate.New(displayLocale).SortStrings(out)
	return out
}

func column(rows []dataset.Row, col string, keep func(dataset.Row) bool) []string {
	var vals []string
	for _, r := range rows {
		if keep == nil || keep(r) {
			vals = append(vals, r[col])
		}
	}
	return vals
}

// DeriveOptions computes the state, county and parent option lists for a
// partial selection and resolves that selection against them:
//
//   - an unknown or empty state falls back to defaultState when present,
//     otherwise to the first state;
//   - an unknown or empty county falls back to the first county of the state;
//   - parents are kept only if they occur in the resolved state and county.
//
// Selecting a new state with an empty county and no parents reproduces the
// state -> county -> parent cascade.
func DeriveOptions(rows []dataset.Row, partial Selection, defaultState string) Options {
	opts := Options{States: DistinctSorted(column(rows, dataset.ColState, nil))}

	state := partial.State
	if !contains(opts.States, state) {
		state = ""
		if contains(opts.States, defaultState) {
			state = defaultState
		} else if len(opts.States) > 0 {
			state = opts.States[0]
		}
	}

	opts.Counties = DistinctSorted(column(rows, dataset.ColCounty, func(r dataset.Row) bool {
		return r[dataset.ColState] == state
	}))
	county := partial.County
	if !contains(opts.Counties, county) {
		county = ""
		if len(opts.Counties) > 0 {
			county = opts.Counties[0]
		}
	}

	opts.Parents = []string{}
	if county != "" {
		opts.Parents = DistinctSorted(column(rows, dataset.ColParentOrg, func(r dataset.Row) bool {
			return r[dataset.ColState] == state && r[dataset.ColCounty] == county
		}))
	}
	var parents []string
	for _, p := range opts.Parents {
		if contains(partial.Parents, p) {
			parents = append(parents, p)
		}
	}

	opts.Selection = NewSelection(state, county, parents...)
	return opts
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
