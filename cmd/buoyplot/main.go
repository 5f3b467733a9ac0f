// Command buoyplot normalizes a wave-buoy CSV export and renders the selected
// charts plus a top significant wave height report.
//
// Usage:
//
//	buoyplot -input bulk.csv -charts sigWave,rose -out plots/
//	buoyplot -input bulk.csv -serve
//
// With no -input on an interactive terminal, the file and chart selection are
// prompted for on stdin.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/couchcryptid/wave-data-etl/internal/adapter/csvsource"
	"github.com/couchcryptid/wave-data-etl/internal/adapter/fsout"
	"github.com/couchcryptid/wave-data-etl/internal/adapter/gochart"
	"github.com/couchcryptid/wave-data-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/wave-data-etl/internal/adapter/kafka"
	"github.com/couchcryptid/wave-data-etl/internal/charts"
	"github.com/couchcryptid/wave-data-etl/internal/config"
	"github.com/couchcryptid/wave-data-etl/internal/domain"
	"github.com/couchcryptid/wave-data-etl/internal/observability"
	"github.com/couchcryptid/wave-data-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	serve, err := applyFlags(cfg, os.Args[1:])
	if err != nil {
		slog.Error("invalid flags", "error", err)
		os.Exit(2)
	}

	if cfg.Input == "" && isTerminal(os.Stdin) {
		if err := prompt(cfg, os.Stdin, os.Stdout); err != nil {
			slog.Error("read selection", "error", err)
			os.Exit(1)
		}
	}
	if cfg.Input == "" {
		slog.Error("no input file: set -input or BUOY_INPUT")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	if err := run(cfg, serve, logger); err != nil {
		logger.Error("buoyplot failed", "error", err)
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, args []string) (serve bool, err error) {
	fs := flag.NewFlagSet("buoyplot", flag.ContinueOnError)
	input := fs.String("input", cfg.Input, "path to the buoy CSV export")
	schema := fs.String("schema", cfg.Schema.String(), "source layout: auto, multi-field or epoch")
	selection := fs.String("charts", cfg.ChartSelection, "comma-separated chart ids, or all")
	out := fs.String("out", cfg.OutputDir, "directory for chart images and the report")
	fs.BoolVar(&serve, "serve", false, "keep serving charts over HTTP after the batch")
	if err := fs.Parse(args); err != nil {
		return false, err
	}

	kind, err := domain.ParseSchemaKind(*schema)
	if err != nil {
		return false, fmt.Errorf("-schema: %w", err)
	}
	cfg.Input = *input
	cfg.Schema = kind
	cfg.ChartSelection = *selection
	cfg.OutputDir = *out
	return serve, nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// prompt asks for the input path and the chart selection. An empty answer
// keeps the configured selection.
func prompt(cfg *config.Config, in io.Reader, out io.Writer) error {
	r := bufio.NewReader(in)

	fmt.Fprint(out, "Path to buoy CSV file: ")
	path, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	cfg.Input = strings.TrimSpace(path)

	fmt.Fprintln(out, "Available charts:")
	for i, spec := range charts.Specs() {
		fmt.Fprintf(out, "  %d. %-16s %s\n", i+1, spec.ID, spec.Title)
	}
	fmt.Fprintf(out, "Charts to build (comma-separated, all) [%s]: ", cfg.ChartSelection)
	sel, err := r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if sel = strings.TrimSpace(sel); sel != "" {
		cfg.ChartSelection = sel
	}
	return nil
}

func tableLen(p *pipeline.Pipeline) int {
	if t := p.Table(); t != nil {
		return t.Len()
	}
	return 0
}

func run(cfg *config.Config, serve bool, logger *slog.Logger) error {
	metrics := observability.NewMetrics()

	source := csvsource.NewFileSource(cfg.Input, logger)
	transformer := pipeline.NewTransformer(cfg.Schema, cfg.EpochReference, logger, metrics)
	dispatcher := charts.NewDispatcher(
		gochart.NewRenderer(cfg.ChartWidth, cfg.ChartHeight, cfg.HistogramBins),
		logger, metrics,
	)
	sink := fsout.NewSink(cfg.OutputDir, logger, metrics)

	var loaders []pipeline.RecordLoader
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger, metrics)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		loaders = append(loaders, writer)
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	}

	p := pipeline.New(source, transformer, dispatcher, sink, logger, metrics, pipeline.Options{
		Charts:     charts.ParseSelection(cfg.ChartSelection),
		ReportTopN: cfg.ReportTopN,
	}, loaders...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := p.Run(ctx)
	logger.Info("batch complete", "output_dir", sink.Dir(), "records", tableLen(p))
	if !serve || p.Table() == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("batch finished with errors, serving anyway", "error", runErr)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, dispatcher, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
	return runErr
}
