package report

import (
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/eval"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/extract"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/stats"
)

// Build assembles the success envelope from instance records, in input order,
// and their macro averages.
func Build(records []*eval.InstanceRecord, macro *stats.Macro, metrics []string, granularities []extract.Granularity) *Envelope {
	env := &Envelope{
		Success:  true,
		RepScore: macro.RepScore,
		Version:  Version,
		MacroAve: MacroAve{
			AvailableRate: make(map[string]float64, 3),
			Available:     make(map[string]Table, 3),
			Total:         make(map[string]Table, 3),
		},
		Ins: make([]InstanceEntry, 0, len(records)),
	}

	for _, p := range eval.Parts() {
		env.MacroAve.AvailableRate[string(p)] = macro.AvailableRate[p]
		env.MacroAve.Available[string(p)] = toTable(macro.Available[p], metrics, granularities)
		env.MacroAve.Total[string(p)] = toTable(macro.Total[p], metrics, granularities)
	}

	for _, rec := range records {
		env.Ins = append(env.Ins, InstanceEntry{
			ID: rec.ID,
			QA: PartRecord[float64]{
				Available: rec.Flags.QA,
				Values:    toTable(rec.QA, metrics, granularities),
			},
			Q: PartRecord[float64]{
				Available: rec.Flags.Q,
				Values:    toTable(rec.Q, metrics, granularities),
			},
			A: PartRecord[[]float64]{
				Available: rec.Flags.A,
				Values:    toLists(rec.A, metrics, granularities),
			},
		})
	}
	return env
}

func toTable(v eval.Values, metrics []string, granularities []extract.Granularity) Table {
	t := make(Table, len(metrics))
	for _, m := range metrics {
		row := make(map[string]float64, len(granularities))
		for _, g := range granularities {
			row[string(g)] = v[m][g]
		}
		t[m] = row
	}
	return t
}

func toLists(vs []eval.Values, metrics []string, granularities []extract.Granularity) map[string]map[string][]float64 {
	t := make(map[string]map[string][]float64, len(metrics))
	for _, m := range metrics {
		row := make(map[string][]float64, len(granularities))
		for _, g := range granularities {
			list := make([]float64, len(vs))
			for i, v := range vs {
				list[i] = v[m][g]
			}
			row[string(g)] = list
		}
		t[m] = row
	}
	return t
}
