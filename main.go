package main

import (
	"fmt"
	"os"

	"github.com/zalepa/mascc/cmd"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "web":
		cmd.Web(os.Args[2:])
	case "viz":
		cmd.Viz(os.Args[2:])
	case "report":
		cmd.Report(os.Args[2:])
	case "export":
		cmd.Export(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: mascc <command> [flags]

Commands:
  web      Serve the interactive enrollment dashboard
  viz      Show the dashboard for one selection in the terminal
  report   Write the dashboard for one selection as a PDF
  export   Write the aggregated series, KPIs and ranking as CSV or XLSX
`)
}
