// Package main PoliInfo Evaluation API
// @title PoliInfo Evaluation API
// @version 1.0
// @description ROUGE scoring of dialog summaries against the PoliInfo2 gold standard
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/DjordjeVuckovic/poliinfo-eval/docs"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/api/router"
	apiserver "github.com/DjordjeVuckovic/poliinfo-eval/internal/api/server"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/config"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/dataset"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/pipeline"
	pkgserver "github.com/DjordjeVuckovic/poliinfo-eval/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := apiserver.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	evalCfg, err := loadEvalConfig(sCfg.EvalConfigPath)
	if err != nil {
		slog.Error("Failed to load evaluation config", "error", err)
		os.Exit(1)
	}

	gold, err := dataset.LoadFile(sCfg.GoldPath)
	if err == nil {
		err = dataset.Validate(gold)
	}
	if err != nil {
		slog.Error("Failed to load gold data", "path", sCfg.GoldPath, "error", err)
		os.Exit(1)
	}
	slog.Info("Gold data loaded", "instances", len(gold))

	p, err := pipeline.Build(context.Background(), evalCfg)
	if err != nil {
		slog.Error("Failed to build evaluation pipeline", "error", err)
		os.Exit(1)
	}
	defer p.Close()

	healthChecker := pkgserver.NewAllHealthChecker(p.Backends.Health...)

	s := apiserver.New(sCfg, healthChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "PoliInfo Evaluation API is running")
	})

	var routerOpts []router.EvaluationRouterOption
	if p.Backends.Runs != nil {
		routerOpts = append(routerOpts, router.WithRunLister(p.Backends.Runs))
	}
	router.NewEvaluationRouter(s.Echo, p.Runner, gold, routerOpts...).Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	if err := s.Start(); err != nil {
		slog.Error("Failed to start server", "error", err)
		p.Close()
		os.Exit(1)
	}
}

func loadEvalConfig(path string) (*config.EvalConfig, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}
