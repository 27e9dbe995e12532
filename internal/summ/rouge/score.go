// Package rouge implements the ROUGE-N, ROUGE-L, ROUGE-W and ROUGE-S(U)
// overlap metrics over pre-tokenized, space-separated id strings.
package rouge

import "math"

// Score holds ROUGE precision, recall and F-measure.
type Score struct {
	Precision float64
	Recall    float64
	FMeasure  float64
}

// tally pools matched units and unit totals across references.
type tally struct {
	hit  float64
	ref  float64
	peer float64
}

func (t *tally) add(o tally) {
	t.hit += o.hit
	t.ref += o.ref
	t.peer += o.peer
}

func (t tally) score(alpha float64) Score {
	p := ratio(t.hit, t.peer)
	r := ratio(t.hit, t.ref)
	return Score{Precision: p, Recall: r, FMeasure: fMeasure(p, r, alpha)}
}

// weightedScore applies the inverse of the ROUGE-W weighting function to the
// pooled ratios.
func (t tally) weightedScore(weight, alpha float64) Score {
	p := math.Pow(ratio(t.hit, t.peer), 1/weight)
	r := math.Pow(ratio(t.hit, t.ref), 1/weight)
	return Score{Precision: p, Recall: r, FMeasure: fMeasure(p, r, alpha)}
}

func ratio(hit, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return hit / total
}

// fMeasure is P*R / ((1-alpha)*P + alpha*R).
func fMeasure(precision, recall, alpha float64) float64 {
	denom := (1-alpha)*precision + alpha*recall
	if denom <= 0 {
		return 0
	}
	return precision * recall / denom
}
