package stats

import (
	"testing"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/apperr"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/eval"
	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cw = extract.ContentWords

func values(v float64) eval.Values {
	return eval.Values{RepMetric: {cw: v}}
}

func record(flags eval.Flags, q float64, a ...float64) *eval.InstanceRecord {
	rec := &eval.InstanceRecord{Flags: flags, Q: values(q)}
	sum := q
	for _, x := range a {
		rec.A = append(rec.A, values(x))
		sum += x
	}
	rec.QA = values(sum / float64(len(a)+1))
	return rec
}

func newTestAggregator() *Aggregator {
	return NewAggregator([]string{RepMetric}, []extract.Granularity{cw})
}

func TestAggregator_Macro(t *testing.T) {
	agg := newTestAggregator()
	agg.Add(record(eval.Flags{Q: true, A: true, QA: true}, 1.0, 0.5, 0.0))
	agg.Add(record(eval.Flags{Q: true, A: false, QA: false}, 0.5, 1.0))

	m, err := agg.Macro()
	require.NoError(t, err)

	assert.InDelta(t, 0.5, m.AvailableRate[eval.PartQA], 1e-9)
	assert.InDelta(t, 1.0, m.AvailableRate[eval.PartQ], 1e-9)
	assert.InDelta(t, 0.5, m.AvailableRate[eval.PartA], 1e-9)

	// Q: both available, (1.0 + 0.5) / 2
	assert.InDelta(t, 0.75, m.Available[eval.PartQ][RepMetric][cw], 1e-9)
	// A: first instance only, speaker mean 0.25
	assert.InDelta(t, 0.25, m.Available[eval.PartA][RepMetric][cw], 1e-9)
	// QA first instance: (1 + 0.5 + 0) / 3
	assert.InDelta(t, 0.5, m.Available[eval.PartQA][RepMetric][cw], 1e-9)
	assert.InDelta(t, 0.5, m.RepScore, 1e-9)
}

func TestAggregator_TotalDividesAvailableSumByInstanceCount(t *testing.T) {
	agg := newTestAggregator()
	agg.Add(record(eval.Flags{Q: true, A: true, QA: true}, 0.8))
	agg.Add(record(eval.Flags{Q: false, A: true, QA: false}, 0.4))

	m, err := agg.Macro()
	require.NoError(t, err)

	// only the first Q is available, yet the divisor is both instances
	assert.InDelta(t, 0.8, m.Available[eval.PartQ][RepMetric][cw], 1e-9)
	assert.InDelta(t, 0.4, m.Total[eval.PartQ][RepMetric][cw], 1e-9)
	assert.InDelta(t, 0.6, m.AllInstances[eval.PartQ][RepMetric][cw], 1e-9)

	st := agg.Stats()
	assert.Equal(t, 2, st.Instances)
	assert.Equal(t, 1, st.Available[eval.PartQ])
	assert.InDelta(t, 1.2, st.SumTotal[eval.PartQ][RepMetric][cw], 1e-9)
}

func TestAggregator_Empty(t *testing.T) {
	_, err := newTestAggregator().Macro()
	assert.ErrorIs(t, err, apperr.ErrEmptyAggregate)

	agg := newTestAggregator()
	agg.Add(record(eval.Flags{Q: false, A: true, QA: false}, 1.0))
	_, err = agg.Macro()
	require.ErrorIs(t, err, apperr.ErrEmptyAggregate)
	assert.Contains(t, err.Error(), "QA")
}

func TestAggregator_NoSpeakersContributeZero(t *testing.T) {
	agg := newTestAggregator()
	agg.Add(record(eval.Flags{Q: true, A: true, QA: true}, 1.0))

	m, err := agg.Macro()
	require.NoError(t, err)
	assert.Zero(t, m.Available[eval.PartA][RepMetric][cw])
	assert.InDelta(t, 1.0, m.Available[eval.PartQA][RepMetric][cw], 1e-9)
}

func TestAggregator_MissingRepresentative(t *testing.T) {
	agg := NewAggregator([]string{"ROUGE-2-R"}, []extract.Granularity{cw})
	agg.Add(record(eval.Flags{Q: true, A: true, QA: true}, 1.0))

	_, err := agg.Macro()
	require.Error(t, err)
	assert.Contains(t, err.Error(), RepMetric)

	agg = NewAggregator([]string{RepMetric}, []extract.Granularity{extract.ShortUnitSurface})
	_, err = agg.Macro()
	assert.ErrorContains(t, err, string(RepGranularity))
}
