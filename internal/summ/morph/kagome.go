package morph

import (
	"context"
	"fmt"

	"github.com/ikawaha/kagome-dict/uni"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Feature positions in the UniDic feature vector shipped with kagome-dict/uni.
const (
	uniPOSLevels    = 4
	uniLemmaFeature = 7
)

// Kagome analyzes sentences in-process with the UniDic dictionary, producing
// the same token shape as MeCab with UniDic.
type Kagome struct {
	t *tokenizer.Tokenizer
}

func NewKagome() (*Kagome, error) {
	t, err := tokenizer.New(uni.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("create kagome tokenizer: %w", err)
	}
	return &Kagome{t: t}, nil
}

func (k *Kagome) Analyze(ctx context.Context, sentence string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := k.t.Tokenize(sentence)
	tokens := make([]Token, 0, len(raw))
	for _, rt := range raw {
		pos := rt.POS()
		if len(pos) > uniPOSLevels {
			pos = pos[:uniPOSLevels]
		}
		tok := Token{
			Surface: rt.Surface,
			POS:     joinPOS(pos),
		}
		if lemma, ok := rt.FeatureAt(uniLemmaFeature); ok && lemma != "*" {
			tok.BaseForm = lemma
		} else {
			tok.BaseForm = rt.Surface
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
