// Package config loads the evaluation settings from YAML, fills defaults and
// applies environment overrides.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/dataset"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/eval"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/extract"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/report"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/runner"
	"github.com/DjordjeVuckovic/poliinfo-eval/pkg/utils"
	"gopkg.in/yaml.v3"
)

const (
	AnalyzerMeCab  = "mecab"
	AnalyzerKagome = "kagome"
)

var (
	DefaultVariants = []string{"ROUGE-1", "ROUGE-2", "ROUGE-3", "ROUGE-4", "ROUGE-L", "ROUGE-SU4", "ROUGE-W-1.2"}
	DefaultStats    = []string{"R", "F"}
)

type EvalConfig struct {
	Version              string             `yaml:"version"`
	DeprecatedIDPrefixes []string           `yaml:"deprecated_id_prefixes"`
	Rouge                RougeConfig        `yaml:"rouge"`
	Granularities        []string           `yaml:"granularities"`
	Availability         AvailabilityConfig `yaml:"availability"`
	Analyzer             AnalyzerConfig     `yaml:"analyzer"`
	Runner               RunnerConfig       `yaml:"runner"`
	Storage              StorageConfig      `yaml:"storage"`
}

type RougeConfig struct {
	Variants []string `yaml:"variants"`
	Stats    []string `yaml:"stats"`
}

type AvailabilityConfig struct {
	BudgetSource string `yaml:"budget_source"`
}

type AnalyzerConfig struct {
	Kind     string `yaml:"kind"`
	MeCabBin string `yaml:"mecab_bin"`
	DicDir   string `yaml:"dicdir"`
}

type RunnerConfig struct {
	Parallelism   int `yaml:"parallelism"`
	ProgressEvery int `yaml:"progress_every"`
}

type StorageConfig struct {
	PG          string `yaml:"pg"`
	ESAddresses string `yaml:"es_addresses"`
	ESIndex     string `yaml:"es_index"`
}

// Default returns a validated config with every default filled in.
func Default() *EvalConfig {
	c := &EvalConfig{}
	// defaults never fail validation
	_ = validate(c)
	return c
}

func LoadFromFile(path string) (*EvalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*EvalConfig, error) {
	var c EvalConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}
	if err := validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

var validStats = map[string]bool{"R": true, "P": true, "F": true}

func validate(c *EvalConfig) error {
	if c.Version == "" {
		c.Version = report.Version
	}
	if c.DeprecatedIDPrefixes == nil {
		c.DeprecatedIDPrefixes = dataset.DefaultDeprecatedPrefixes
	}
	if len(c.Rouge.Variants) == 0 {
		c.Rouge.Variants = DefaultVariants
	}
	if len(c.Rouge.Stats) == 0 {
		c.Rouge.Stats = DefaultStats
	}
	for _, s := range c.Rouge.Stats {
		if !validStats[s] {
			return fmt.Errorf("invalid rouge stat %q (want R, P or F)", s)
		}
	}
	if len(c.Granularities) == 0 {
		for _, g := range extract.All() {
			c.Granularities = append(c.Granularities, string(g))
		}
	}
	for _, g := range c.Granularities {
		if _, err := extract.ParseGranularity(g); err != nil {
			return err
		}
	}
	if err := checkRepresentative(c); err != nil {
		return err
	}
	if _, err := eval.ParseBudgetSource(c.Availability.BudgetSource); err != nil {
		return err
	}
	if c.Availability.BudgetSource == "" {
		c.Availability.BudgetSource = string(eval.BudgetFromTarget)
	}
	switch c.Analyzer.Kind {
	case "":
		c.Analyzer.Kind = AnalyzerMeCab
	case AnalyzerMeCab, AnalyzerKagome:
	default:
		return fmt.Errorf("invalid analyzer kind %q (want mecab or kagome)", c.Analyzer.Kind)
	}
	if c.Analyzer.MeCabBin == "" {
		c.Analyzer.MeCabBin = "mecab"
	}
	if c.Runner.Parallelism <= 0 {
		c.Runner.Parallelism = runner.DefaultParallelism
	}
	if c.Runner.ProgressEvery < 0 {
		return fmt.Errorf("runner.progress_every must not be negative, got %d", c.Runner.ProgressEvery)
	}
	if c.Runner.ProgressEvery == 0 {
		c.Runner.ProgressEvery = runner.DefaultProgressEvery
	}
	if c.Storage.ESIndex == "" {
		c.Storage.ESIndex = "summ_eval"
	}
	return nil
}

// checkRepresentative rejects selections that would leave the representative
// ROUGE-1-R 内容語 score uncomputed.
func checkRepresentative(c *EvalConfig) error {
	if !slices.Contains(c.Rouge.Variants, "ROUGE-1") {
		return fmt.Errorf("rouge.variants must include ROUGE-1 for the representative score")
	}
	if !slices.Contains(c.Rouge.Stats, "R") {
		return fmt.Errorf("rouge.stats must include R for the representative score")
	}
	for _, g := range c.Granularities {
		if pg, _ := extract.ParseGranularity(g); pg == extract.ContentWords {
			return nil
		}
	}
	return fmt.Errorf("granularities must include %s for the representative score", extract.ContentWords)
}

// ApplyEnv overrides fields from UNIDIC_PATH, MECAB_BIN, SUMM_PG_CONN,
// SUMM_ES_ADDRESSES, SUMM_ES_INDEX and SUMM_PARALLELISM when set.
func (c *EvalConfig) ApplyEnv(getenv func(string) string) error {
	if v := getenv("UNIDIC_PATH"); v != "" {
		c.Analyzer.DicDir = v
	}
	if v := getenv("MECAB_BIN"); v != "" {
		c.Analyzer.MeCabBin = v
	}
	if v := getenv("SUMM_PG_CONN"); v != "" {
		c.Storage.PG = v
	}
	if v := getenv("SUMM_ES_ADDRESSES"); v != "" {
		c.Storage.ESAddresses = v
	}
	if v := getenv("SUMM_ES_INDEX"); v != "" {
		c.Storage.ESIndex = v
	}
	if v := getenv("SUMM_PARALLELISM"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid SUMM_PARALLELISM %q", v)
		}
		c.Runner.Parallelism = n
	}
	return nil
}

// Metrics lists the metric keys selected by the rouge section.
func (c *EvalConfig) Metrics() []string {
	return eval.MetricKeys(c.Rouge.Variants, c.Rouge.Stats)
}

// ParsedGranularities returns the configured granularities. The config must
// have been validated.
func (c *EvalConfig) ParsedGranularities() []extract.Granularity {
	out := make([]extract.Granularity, 0, len(c.Granularities))
	for _, g := range c.Granularities {
		pg, _ := extract.ParseGranularity(g)
		out = append(out, pg)
	}
	return out
}

func (c *EvalConfig) RunnerConfig() runner.Config {
	src, _ := eval.ParseBudgetSource(c.Availability.BudgetSource)
	return runner.Config{
		Parallelism:        c.Runner.Parallelism,
		ProgressEvery:      c.Runner.ProgressEvery,
		BudgetSource:       src,
		DeprecatedPrefixes: c.DeprecatedIDPrefixes,
		Version:            c.Version,
	}
}

// ESAddressList splits the comma-separated Elasticsearch addresses.
func (c *EvalConfig) ESAddressList() []string {
	return utils.SplitList(c.Storage.ESAddresses, ",")
}

// CheckVariants fails when a configured variant is not in available.
func (c *EvalConfig) CheckVariants(available []string) error {
	known := make(map[string]bool, len(available))
	for _, v := range available {
		known[v] = true
	}
	for _, v := range c.Rouge.Variants {
		if !known[v] {
			return fmt.Errorf("rouge variant %q is not computed (available: %s)", v, strings.Join(available, ", "))
		}
	}
	return nil
}
