// Package dashboard derives filter options and aggregates enrollment rows
// into the trend series, KPIs and top parent organization ranking shown by
// every mascc view. Nothing here renders or performs IO.
package dashboard
