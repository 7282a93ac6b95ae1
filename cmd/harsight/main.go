package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/harsight/harsight/internal/breakdown"
	"github.com/harsight/harsight/internal/cli"
	"github.com/harsight/harsight/internal/compare"
	"github.com/harsight/harsight/internal/config"
	"github.com/harsight/harsight/internal/har"
	"github.com/harsight/harsight/internal/metrics"
	"github.com/harsight/harsight/internal/models"
	"github.com/harsight/harsight/internal/output"
	"github.com/harsight/harsight/internal/reader"
)

var (
	readFn            = reader.Read
	buildFn           = breakdown.Build
	analyzeFn         = metrics.Analyze
	compareFn         = compare.Compare
	printSummaryFn    = output.PrintSummary
	printComparisonFn = output.PrintComparison
	writeJSONFn       = output.WriteJSON
	writeJSONFileFn   = output.WriteJSONFile
)

func main() {
	os.Exit(int(run()))
}

func run() cli.ExitCode {
	args, code := cli.ParseArgs()
	if code != cli.ExitOK {
		return code
	}

	logrus.SetOutput(os.Stderr)
	if args.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := loadConfig(args.ConfigFile)
	if err != nil {
		return handleError("Failed to load configuration", err)
	}

	return execute(args, cfg)
}

func execute(args *cli.CliArgs, cfg config.Thresholds) cli.ExitCode {
	base, code := analyzeCapture(args.InputFile, cfg)
	if code != cli.ExitOK {
		return code
	}

	if args.CompareFile != "" {
		return runCompare(args, cfg, base)
	}

	metrics.Stamp(base.Report, args.InputFile)
	return outputReport(args, base.Report)
}

func runCompare(args *cli.CliArgs, cfg config.Thresholds, base compare.Run) cli.ExitCode {
	target, code := analyzeCapture(args.CompareFile, cfg)
	if code != cli.ExitOK {
		return code
	}

	base.Label = args.BaseLabel
	target.Label = args.TargetLabel

	report := compareFn(base, target, cfg)
	compare.Stamp(report)

	if args.OutputFile != "" {
		if err := writeJSONFileFn(args.OutputFile, report); err != nil {
			return handleError("Failed to write report", err)
		}
	}
	if args.OutputJSON {
		if err := writeJSONFn(os.Stdout, report); err != nil {
			return handleError("Failed to encode report", err)
		}
		return cli.ExitOK
	}

	printComparisonFn(report)
	return cli.ExitOK
}

func analyzeCapture(path string, cfg config.Thresholds) (compare.Run, cli.ExitCode) {
	f, err := readFn(path)
	if err != nil {
		if har.IsFormatError(err) {
			fmt.Fprintf(os.Stderr, "Not a valid HAR capture (%s): %v\n", path, err)
			return compare.Run{}, cli.ExitFormat
		}
		handleError("Failed to read capture", err)
		return compare.Run{}, cli.ExitRuntime
	}

	b, err := buildFn(f, cfg)
	if err != nil {
		handleError("Failed to analyze capture", err)
		return compare.Run{}, cli.ExitRuntime
	}

	logrus.WithFields(logrus.Fields{
		"path":     path,
		"requests": b.Totals.Requests,
		"bytes":    b.Totals.TotalBytes,
	}).Debug("built capture breakdown")

	return compare.Run{Breakdown: b, Report: analyzeFn(b, cfg)}, cli.ExitOK
}

func loadConfig(path string) (config.Thresholds, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func outputReport(args *cli.CliArgs, report *models.MetricsReport) cli.ExitCode {
	if args.OutputFile != "" {
		if err := writeJSONFileFn(args.OutputFile, report); err != nil {
			return handleError("Failed to write report", err)
		}
	}

	if args.OutputJSON {
		if err := writeJSONFn(os.Stdout, report); err != nil {
			return handleError("Failed to encode report", err)
		}
		return cli.ExitOK
	}

	printSummaryFn(report, args.SummaryOnly)
	return cli.ExitOK
}

func handleError(msg string, err error) cli.ExitCode {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	return cli.ExitRuntime
}
