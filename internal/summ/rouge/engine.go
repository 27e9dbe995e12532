package rouge

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Engine scores a batch of summaries against their references.
// summary is documents x sentences; reference is documents x references x
// sentences. Sentences are space-separated tokens. The result maps
// "<variant>-<R|P|F>" to the score averaged over documents.
type Engine interface {
	Score(ctx context.Context, summary [][]string, reference [][][]string) (map[string]float64, error)
}

// Native is an in-process Engine following ROUGE-1.5.5 counting: model
// references are pooled per document and documents are averaged.
type Native struct {
	opts *options
}

var _ Engine = (*Native)(nil)

// NewNative builds an engine. Without options it computes ROUGE-1..4,
// ROUGE-L, ROUGE-SU4 and ROUGE-W-1.2 with alpha 0.5.
func NewNative(opt ...Option) *Native {
	return &Native{opts: newOptions(opt...)}
}

// Variants lists the metric names the engine reports, in a stable order.
func (e *Native) Variants() []string {
	var out []string
	for n := 1; n <= e.opts.nGram; n++ {
		out = append(out, "ROUGE-"+strconv.Itoa(n))
	}
	if e.opts.lcs {
		out = append(out, "ROUGE-L")
	}
	if e.opts.skipGap >= 0 {
		name := "ROUGE-S"
		if e.opts.skipUnigram {
			name = "ROUGE-SU"
		}
		out = append(out, name+strconv.Itoa(e.opts.skipGap))
	}
	if e.opts.wlcsWeight > 1 {
		out = append(out, "ROUGE-W-"+strconv.FormatFloat(e.opts.wlcsWeight, 'f', -1, 64))
	}
	return out
}

// Score implements Engine.
func (e *Native) Score(ctx context.Context, summary [][]string, reference [][][]string) (map[string]float64, error) {
	if ctx == nil {
		return nil, errors.New("context is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(summary) != len(reference) {
		return nil, fmt.Errorf("summary has %d documents, reference has %d", len(summary), len(reference))
	}

	variants := e.Variants()
	result := make(map[string]float64, len(variants)*3)
	for _, v := range variants {
		result[v+"-R"] = 0
		result[v+"-P"] = 0
		result[v+"-F"] = 0
	}
	if len(summary) == 0 {
		return result, nil
	}

	docs := float64(len(summary))
	for d := range summary {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		peer := tokenize(summary[d])
		refs := make([][]string, len(reference[d]))
		for i, r := range reference[d] {
			refs[i] = tokenize(r)
		}
		for v, s := range e.scoreDocument(peer, refs) {
			result[v+"-R"] += s.Recall / docs
			result[v+"-P"] += s.Precision / docs
			result[v+"-F"] += s.FMeasure / docs
		}
	}
	return result, nil
}

func (e *Native) scoreDocument(peer []string, refs [][]string) map[string]Score {
	o := e.opts
	out := make(map[string]Score)

	for n := 1; n <= o.nGram; n++ {
		pc := nGrams(peer, n)
		var t tally
		for _, r := range refs {
			t.add(overlap(nGrams(r, n), pc))
		}
		out["ROUGE-"+strconv.Itoa(n)] = t.score(o.alpha)
	}

	if o.lcs {
		var t tally
		for _, r := range refs {
			t.add(tally{
				hit:  float64(lcsLength(r, peer)),
				ref:  float64(len(r)),
				peer: float64(len(peer)),
			})
		}
		out["ROUGE-L"] = t.score(o.alpha)
	}

	if o.skipGap >= 0 {
		pc := skipBigrams(peer, o.skipGap, o.skipUnigram)
		var t tally
		for _, r := range refs {
			t.add(overlap(skipBigrams(r, o.skipGap, o.skipUnigram), pc))
		}
		name := "ROUGE-S"
		if o.skipUnigram {
			name = "ROUGE-SU"
		}
		out[name+strconv.Itoa(o.skipGap)] = t.score(o.alpha)
	}

	if o.wlcsWeight > 1 {
		var t tally
		for _, r := range refs {
			t.add(tally{
				hit:  wlcs(r, peer, o.wlcsWeight),
				ref:  math.Pow(float64(len(r)), o.wlcsWeight),
				peer: math.Pow(float64(len(peer)), o.wlcsWeight),
			})
		}
		out["ROUGE-W-"+strconv.FormatFloat(o.wlcsWeight, 'f', -1, 64)] = t.weightedScore(o.wlcsWeight, o.alpha)
	}
	return out
}

// tokenize concatenates the sentences of one document into a token stream.
func tokenize(sentences []string) []string {
	var out []string
	for _, s := range sentences {
		out = append(out, strings.Fields(s)...)
	}
	return out
}
