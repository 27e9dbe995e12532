package runner

import (
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/dataset"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/eval"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/report"
)

const (
	DefaultParallelism   = 1
	DefaultProgressEvery = 50
)

type Config struct {
	// Parallelism is the number of instances scored at once; 1 is sequential.
	Parallelism int
	// ProgressEvery logs a progress line every N instances; 0 disables it.
	ProgressEvery      int
	BudgetSource       eval.BudgetSource
	DeprecatedPrefixes []string
	// Version is stamped on the envelope; empty falls back to report.Version.
	Version string
}

func DefaultConfig() Config {
	return Config{
		Parallelism:        DefaultParallelism,
		ProgressEvery:      DefaultProgressEvery,
		BudgetSource:       eval.BudgetFromTarget,
		DeprecatedPrefixes: dataset.DefaultDeprecatedPrefixes,
		Version:            report.Version,
	}
}
