package cli

import (
	"flag"
	"fmt"
	"os"
)

type ExitCode int

const (
	ExitOK ExitCode = iota
	ExitInvalid
	ExitFormat
	ExitRuntime
)

type CliArgs struct {
	InputFile   string
	CompareFile string
	ConfigFile  string
	OutputFile  string
	BaseLabel   string
	TargetLabel string
	SummaryOnly bool
	OutputJSON  bool
	Verbose     bool
}

func ParseArgs() (*CliArgs, ExitCode) {
	args := &CliArgs{}

	flag.StringVar(&args.InputFile, "input", "", "Path to the HAR capture to analyze")
	flag.StringVar(&args.CompareFile, "compare", "", "Second HAR capture; diff it against -input")
	flag.StringVar(&args.ConfigFile, "config", "", "Path to a thresholds YAML file")
	flag.StringVar(&args.OutputFile, "out", "", "Write the JSON report to this path")
	flag.StringVar(&args.BaseLabel, "base-label", "base", "Label for the -input capture in comparisons")
	flag.StringVar(&args.TargetLabel, "target-label", "target", "Label for the -compare capture")
	flag.BoolVar(&args.SummaryOnly, "summary-only", false, "Print only the summary section")
	flag.BoolVar(&args.OutputJSON, "json", false, "Print the full report as JSON on stdout")
	flag.BoolVar(&args.Verbose, "verbose", false, "Enable debug logging")

	flag.Parse()

	if args.InputFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		flag.Usage()
		return nil, ExitInvalid
	}

	return args, ExitOK
}
