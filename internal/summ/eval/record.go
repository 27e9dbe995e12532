// Package eval scores one target instance against its gold counterpart.
package eval

import "github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/extract"

// Part names one section of an instance record.
type Part string

const (
	PartQA Part = "QA"
	PartQ  Part = "Q"
	PartA  Part = "A"
)

// Parts lists the record sections in output order.
func Parts() []Part {
	return []Part{PartQA, PartQ, PartA}
}

// Values maps "<variant>-<stat>" to per-granularity scores.
type Values map[string]map[extract.Granularity]float64

// InstanceRecord holds every score computed for one instance.
type InstanceRecord struct {
	ID    string
	Flags Flags
	Q     Values
	// A has one entry per answer speaker, in input order.
	A  []Values
	QA Values
}

// Available reports the flag for part.
func (r *InstanceRecord) Available(p Part) bool {
	switch p {
	case PartQ:
		return r.Flags.Q
	case PartA:
		return r.Flags.A
	default:
		return r.Flags.QA
	}
}

// Value returns the scalar score of part for one metric and granularity.
// For the A part this is the mean across speakers, or 0 with no speakers.
func (r *InstanceRecord) Value(p Part, metric string, g extract.Granularity) float64 {
	switch p {
	case PartQ:
		return r.Q[metric][g]
	case PartA:
		return meanOf(r.A, metric, g)
	default:
		return r.QA[metric][g]
	}
}

func meanOf(vs []Values, metric string, g extract.Granularity) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v[metric][g]
	}
	return sum / float64(len(vs))
}
