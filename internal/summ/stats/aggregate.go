// Package stats macro-averages instance records over a corpus.
package stats

import (
	"fmt"
	"slices"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/apperr"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/eval"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/extract"
)

// RepMetric and RepGranularity select the representative score from the
// available QA averages.
const (
	RepMetric      = "ROUGE-1-R"
	RepGranularity = extract.ContentWords
)

// PartValues holds one Values table per record part.
type PartValues map[eval.Part]eval.Values

// CorpusStats are the running sums behind a Macro.
type CorpusStats struct {
	Instances    int
	Available    map[eval.Part]int
	SumAvailable PartValues
	SumTotal     PartValues
}

type Macro struct {
	AvailableRate map[eval.Part]float64
	// Available divides the sums over available instances by the available count.
	Available PartValues
	// Total divides the same available-only sums by the instance count.
	Total PartValues
	// AllInstances divides the sums over every instance by the instance count.
	AllInstances PartValues
	RepScore     float64
}

// Aggregator accumulates instance records. It is not safe for concurrent use.
type Aggregator struct {
	metrics       []string
	granularities []extract.Granularity
	stats         CorpusStats
}

func NewAggregator(metrics []string, granularities []extract.Granularity) *Aggregator {
	return &Aggregator{
		metrics:       append([]string(nil), metrics...),
		granularities: append([]extract.Granularity(nil), granularities...),
		stats: CorpusStats{
			Available:    make(map[eval.Part]int, 3),
			SumAvailable: newPartValues(metrics, granularities),
			SumTotal:     newPartValues(metrics, granularities),
		},
	}
}

func newPartValues(metrics []string, granularities []extract.Granularity) PartValues {
	pv := make(PartValues, 3)
	for _, p := range eval.Parts() {
		v := make(eval.Values, len(metrics))
		for _, m := range metrics {
			byG := make(map[extract.Granularity]float64, len(granularities))
			for _, g := range granularities {
				byG[g] = 0
			}
			v[m] = byG
		}
		pv[p] = v
	}
	return pv
}

// Add folds one record into the sums. A-part values enter as the mean across
// speakers.
func (a *Aggregator) Add(rec *eval.InstanceRecord) {
	a.stats.Instances++
	for _, p := range eval.Parts() {
		available := rec.Available(p)
		if available {
			a.stats.Available[p]++
		}
		for _, m := range a.metrics {
			for _, g := range a.granularities {
				v := rec.Value(p, m, g)
				a.stats.SumTotal[p][m][g] += v
				if available {
					a.stats.SumAvailable[p][m][g] += v
				}
			}
		}
	}
}

func (a *Aggregator) Stats() CorpusStats {
	return a.stats
}

// Macro computes the corpus averages. It fails when the aggregator does not
// track the representative metric, and with apperr.ErrEmptyAggregate when
// there are no instances or a part has no available instance.
func (a *Aggregator) Macro() (*Macro, error) {
	if !slices.Contains(a.metrics, RepMetric) || !slices.Contains(a.granularities, RepGranularity) {
		return nil, fmt.Errorf("representative score needs %s at %s", RepMetric, RepGranularity)
	}
	n := a.stats.Instances
	if n == 0 {
		return nil, fmt.Errorf("%w: no instances evaluated", apperr.ErrEmptyAggregate)
	}

	m := &Macro{
		AvailableRate: make(map[eval.Part]float64, 3),
		Available:     newPartValues(a.metrics, a.granularities),
		Total:         newPartValues(a.metrics, a.granularities),
		AllInstances:  newPartValues(a.metrics, a.granularities),
	}
	for _, p := range eval.Parts() {
		na := a.stats.Available[p]
		if na == 0 {
			return nil, fmt.Errorf("%w: no available instances for %s", apperr.ErrEmptyAggregate, p)
		}
		m.AvailableRate[p] = float64(na) / float64(n)
		for _, metric := range a.metrics {
			for _, g := range a.granularities {
				sa := a.stats.SumAvailable[p][metric][g]
				m.Available[p][metric][g] = sa / float64(na)
				m.Total[p][metric][g] = sa / float64(n)
				m.AllInstances[p][metric][g] = a.stats.SumTotal[p][metric][g] / float64(n)
			}
		}
	}
	m.RepScore = m.Available[eval.PartQA][RepMetric][RepGranularity]
	return m, nil
}
