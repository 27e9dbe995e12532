package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/config"
)

type cliConfig struct {
	GoldPath    string
	InputPath   string
	UnidicPath  string
	ConfigPath  string
	Analyzer    string
	MeCabBin    string
	Parallel    int
	Output      string
	Table       bool
	PgConnStr   string
	EsAddresses string
	EsIndex     string
	Verbose     bool
}

func parseFlags() cliConfig {
	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	return cfg
}

func parseArgs(args []string, output io.Writer) (cliConfig, error) {
	cfg := cliConfig{}
	fs := flag.NewFlagSet("summ_eval", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.GoldPath, "g", "", "Path to the gold-standard data (shorthand)")
	fs.StringVar(&cfg.GoldPath, "gs-data", "", "Path to the gold-standard data")
	fs.StringVar(&cfg.InputPath, "f", "", "Path to the system output to evaluate (shorthand)")
	fs.StringVar(&cfg.InputPath, "input-file", "", "Path to the system output to evaluate")
	fs.StringVar(&cfg.UnidicPath, "d", "", "UniDic dictionary directory for MeCab (shorthand)")
	fs.StringVar(&cfg.UnidicPath, "unidic-path", "", "UniDic dictionary directory for MeCab")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to an evaluation config YAML")
	fs.StringVar(&cfg.Analyzer, "analyzer", "", "Morphological analyzer: mecab or kagome")
	fs.StringVar(&cfg.MeCabBin, "mecab-bin", "", "MeCab executable")
	fs.IntVar(&cfg.Parallel, "parallel", 0, "Number of instances evaluated concurrently")
	fs.StringVar(&cfg.Output, "output", "", "Also write the report to this file (.json, .yaml or .yml)")
	fs.BoolVar(&cfg.Table, "table", false, "Print a summary table to stderr")
	fs.StringVar(&cfg.PgConnStr, "pg", "", "PostgreSQL connection string for storing runs")
	fs.StringVar(&cfg.EsAddresses, "es-addresses", "", "Elasticsearch addresses for indexing runs, comma-separated")
	fs.StringVar(&cfg.EsIndex, "es-index", "", "Elasticsearch index name")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}
	return cfg, nil
}

func (c cliConfig) validate() error {
	if c.GoldPath == "" {
		return errors.New("--gs-data is required")
	}
	if c.InputPath == "" {
		return errors.New("--input-file is required")
	}
	if c.Parallel < 0 {
		return fmt.Errorf("--parallel must not be negative, got %d", c.Parallel)
	}
	return nil
}

// loadEvalConfig layers flags over env over the YAML file over defaults.
func (c cliConfig) loadEvalConfig(getenv func(string) string) (*config.EvalConfig, error) {
	cfg := config.Default()
	if c.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(c.ConfigPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}

	if c.UnidicPath != "" {
		cfg.Analyzer.DicDir = c.UnidicPath
	}
	if c.Analyzer != "" {
		if c.Analyzer != config.AnalyzerMeCab && c.Analyzer != config.AnalyzerKagome {
			return nil, fmt.Errorf("invalid --analyzer %q (want mecab or kagome)", c.Analyzer)
		}
		cfg.Analyzer.Kind = c.Analyzer
	}
	if c.MeCabBin != "" {
		cfg.Analyzer.MeCabBin = c.MeCabBin
	}
	if c.Parallel > 0 {
		cfg.Runner.Parallelism = c.Parallel
	}
	if c.PgConnStr != "" {
		cfg.Storage.PG = c.PgConnStr
	}
	if c.EsAddresses != "" {
		cfg.Storage.ESAddresses = c.EsAddresses
	}
	if c.EsIndex != "" {
		cfg.Storage.ESIndex = c.EsIndex
	}
	return cfg, nil
}
