// Command summ_eval scores dialog summaries against the PoliInfo2 gold
// standard and prints the result envelope as JSON on stdout.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/apperr"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/config"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/dataset"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/pipeline"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/report"
	"github.com/DjordjeVuckovic/poliinfo-eval/pkg/config/env"
)

const defaultEnvPath = "cmd/summ_eval/.env"

type buildFunc func(ctx context.Context, cfg *config.EvalConfig) (*pipeline.Pipeline, error)

func main() {
	cli := parseFlags()
	if cli.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if err := env.LoadDotEnv(os.Getenv("APP_ENV"), defaultEnvPath); err != nil {
		slog.Debug("Skipping .env ...", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cli, os.Getenv, pipeline.Build, os.Stdout, os.Stderr); err != nil {
		slog.Error("Evaluation failed", "error", err)
		_ = report.WriteFailure(os.Stdout)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cli cliConfig, getenv func(string) string, build buildFunc, stdout, stderr io.Writer) error {
	if err := cli.validate(); err != nil {
		return apperr.NewValidationWrap("invalid arguments", err)
	}

	cfg, err := cli.loadEvalConfig(getenv)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gold, err := loadInstances("gold", cli.GoldPath)
	if err != nil {
		return err
	}
	targets, err := loadInstances("input", cli.InputPath)
	if err != nil {
		return err
	}

	p, err := build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer p.Close()

	res, err := p.Runner.Run(ctx, targets, gold)
	if err != nil {
		return err
	}

	if err := report.WriteJSON(stdout, res.Envelope); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	if cli.Table {
		report.WriteTable(stderr, res.Envelope)
	}

	if cli.Output != "" {
		withMeta := *res.Envelope
		withMeta.Meta = &report.Meta{
			RunID:       res.RunID,
			GeneratedAt: time.Now().UTC(),
			Target:      filepath.Base(cli.InputPath),
			Gold:        filepath.Base(cli.GoldPath),
			Analyzer:    p.Analyzer,
			Environment: report.NewEnvironmentInfo(),
		}
		if err := report.WriteFile(cli.Output, &withMeta); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		slog.Info("Report written", "path", cli.Output)
	}

	return nil
}

func loadInstances(kind, path string) ([]dataset.Instance, error) {
	instances, err := dataset.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s data: %w", kind, err)
	}
	if err := dataset.Validate(instances); err != nil {
		return nil, fmt.Errorf("%s data: %w", kind, err)
	}
	slog.Debug("Instances loaded", "kind", kind, "path", path, "count", len(instances))
	return instances, nil
}
