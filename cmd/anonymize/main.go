// Command anonymize reads the issue tracker export, replaces identifying
// columns with stable labels, normalizes the timestamp columns and writes
// the result to an Excel workbook.
//
// Usage:
//
//	anonymize [-config pipeline.json] [-input path] [-output-dir dir] [-output-file name.xlsx]
//	          [-validate] [-probe] [-v] [-metrics-backend none|pushgateway|datadog]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"anonymizer/internal/config"
	"anonymizer/internal/metrics"
	"anonymizer/internal/metrics/datadog"
	"anonymizer/internal/metrics/prompush"

	// register all backends with the storage factory.
	_ "anonymizer/internal/storage/all"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

// realMain parses args, runs the pipeline and returns the process exit code.
func realMain(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("anonymize", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		cfgPath        = fs.String("config", "", "pipeline config JSON path (default: built-in issue tracker pipeline)")
		input          = fs.String("input", "", "override the source file path")
		outputDir      = fs.String("output-dir", "", "override the output directory")
		outputFile     = fs.String("output-file", "", "override the output file name")
		validate       = fs.Bool("validate", false, "validate the configuration and exit")
		probeOnly      = fs.Bool("probe", false, "inspect the input against the pipeline, print a JSON report and a suggested pipeline, and exit")
		verbose        = fs.Bool("v", false, "enable verbose logs")
		metricsBackend = fs.String("metrics-backend", "", "metrics backend to use (none, pushgateway, datadog); env METRICS_BACKEND")
		pushGatewayURL = fs.String("pushgateway-url", "", "Pushgateway base URL; env PUSHGATEWAY_URL")
		dogstatsdAddr  = fs.String("dogstatsd-addr", "", "DogStatsD address; env DD_DOGSTATSD_ADDR")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	setupLogging(stderr, *verbose)

	p := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(stderr, "ERROR: cannot load config %s: %v\n", *cfgPath, err)
			return 1
		}
		p = loaded
	}
	if *input != "" {
		p.Source.File.Path = *input
	}
	if *outputDir != "" {
		p.Output.Dir = *outputDir
	}
	if *outputFile != "" {
		p.Output.Filename = *outputFile
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Error().Str("config", *cfgPath).Msg("configuration is invalid")
		return 1
	}
	if *validate {
		log.Info().Str("config", *cfgPath).Msg("configuration is valid")
		return 0
	}

	if *probeOnly {
		if err := probeInput(context.Background(), p, stdout); err != nil {
			fmt.Fprintln(stderr, describe(err, p))
			return 1
		}
		return 0
	}

	flush := setupMetrics(p.Job,
		firstNonEmpty(*metricsBackend, os.Getenv("METRICS_BACKEND")),
		firstNonEmpty(*pushGatewayURL, os.Getenv("PUSHGATEWAY_URL"), "http://localhost:9091"),
		firstNonEmpty(*dogstatsdAddr, os.Getenv("DD_DOGSTATSD_ADDR"), "127.0.0.1:8125"),
	)
	defer flush()

	start := time.Now()
	log.Debug().
		Str("source", p.Source.File.Path).
		Str("encoding", p.Source.File.Encoding).
		Str("output", p.Output.Path()).
		Str("storage", p.Storage.Kind).
		Msg("pipeline: starting")

	res, err := run(context.Background(), p, stdout)
	if err != nil {
		log.Debug().Err(err).Msg("pipeline: failed")
		fmt.Fprintln(stderr, describe(err, p))
		return 1
	}

	logSummary(res, time.Since(start))
	return 0
}

func setupLogging(w io.Writer, verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	})
}

// setupMetrics installs the named backend and returns the function that
// flushes it at exit.
func setupMetrics(job, backendName, gwURL, ddAddr string) func() {
	var b metrics.Backend
	switch backendName {
	case "pushgateway":
		pb, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			log.Warn().Err(err).Msg("metrics: failed to init pushgateway backend; using nop")
			return func() {}
		}
		log.Debug().Str("url", gwURL).Str("job", job).Msg("metrics: pushgateway enabled")
		b = pb

	case "datadog":
		db, err := datadog.NewBackend(datadog.Config{
			Addr:       ddAddr,
			GlobalTags: []string{"job:" + job},
		})
		if err != nil {
			log.Warn().Err(err).Msg("metrics: failed to init datadog backend; using nop")
			return func() {}
		}
		log.Debug().Str("addr", ddAddr).Msg("metrics: datadog enabled")
		b = db

	case "", "none":
		return func() {}

	default:
		log.Warn().Str("backend", backendName).Msg("metrics: unknown backend; metrics disabled")
		return func() {}
	}

	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn().Err(err).Msg("metrics: flush error")
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
