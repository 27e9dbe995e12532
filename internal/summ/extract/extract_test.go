package extract

import (
	"testing"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/morph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noun(surface string) morph.Token {
	return morph.Token{Surface: surface, POS: "名詞-普通名詞-一般", BaseForm: surface}
}

func num(surface, lemma string) morph.Token {
	return morph.Token{Surface: surface, POS: "名詞-数詞", BaseForm: lemma}
}

func tok(surface, pos, base string) morph.Token {
	return morph.Token{Surface: surface, POS: pos, BaseForm: base}
}

func TestExtract_ContentWords(t *testing.T) {
	tests := []struct {
		name   string
		tokens []morph.Token
		want   []string
	}{
		{
			name: "compound noun merges",
			tokens: []morph.Token{
				tok("東", "名詞-固有名詞-地名-一般", "東"),
				tok("京", "名詞-固有名詞-地名-一般", "京"),
				tok("都", "接尾辞-名詞的-一般", "都"),
				tok("に", "助詞-格助詞", "に"),
			},
			want: []string{"東京都"},
		},
		{
			name: "light verb dropped regardless of surface",
			tokens: []morph.Token{
				noun("検討"),
				tok("し", "動詞-非自立可能", "為る"),
				tok("ます", "助動詞", "ます"),
				tok("なる", "動詞-非自立可能", "成る"),
			},
			want: []string{"検討"},
		},
		{
			name: "numerals collapse into one decimal token",
			tokens: []morph.Token{
				num("千", "千"),
				num("二", "二"),
				num("百", "百"),
				tok("を", "助詞-格助詞", "を"),
			},
			want: []string{"1200"},
		},
		{
			name: "numeral flushes before following noun",
			tokens: []morph.Token{
				num("三", "三"),
				noun("月"),
				tok("に", "助詞-格助詞", "に"),
			},
			want: []string{"3月"},
		},
		{
			name: "prefix noun joins trailing numeral",
			tokens: []morph.Token{
				tok("第", "接頭辞", "第"),
				num("２", "二"),
			},
			want: []string{"第2"},
		},
		{
			name: "formal and adverbial nouns break compounds",
			tokens: []morph.Token{
				noun("予算"),
				tok("事", "名詞-普通名詞-一般", "事"),
				noun("確保"),
				tok("所", "名詞-普通名詞-副詞可能", "所"),
			},
			want: []string{"予算", "事", "確保", "所"},
		},
		{
			name: "content verbs and adjectives kept by surface",
			tokens: []morph.Token{
				noun("県"),
				tok("が", "助詞-格助詞", "が"),
				tok("進め", "動詞-一般", "進める"),
				tok("、", "補助記号-読点", "、"),
				tok("新しい", "形容詞-一般", "新しい"),
				noun("制度"),
			},
			want: []string{"県", "進め", "新しい", "制度"},
		},
		{
			name: "unclassified token emitted after flush",
			tokens: []morph.Token{
				noun("議会"),
				{Surface: "ｘ"},
				noun("答弁"),
			},
			want: []string{"議会", "ｘ", "答弁"},
		},
		{
			name: "zero lemma",
			tokens: []morph.Token{
				num("０", "ゼロ-zero"),
				noun("件"),
			},
			want: []string{"0件"},
		},
		{
			name: "nouns buffer lemmas, content words keep surface",
			tokens: []morph.Token{
				tok("子ども", "名詞-普通名詞-一般", "子供"),
				tok("達", "接尾辞-名詞的-一般", "達"),
				tok("が", "助詞-格助詞", "が"),
				tok("遊ん", "動詞-一般", "遊ぶ"),
			},
			want: []string{"子供達", "遊ん"},
		},
		{
			name: "noun without lemma falls back to surface",
			tokens: []morph.Token{
				tok("ＤＸ", "名詞-普通名詞-一般", ""),
				tok("推進", "名詞-普通名詞-サ変可能", "推進"),
			},
			want: []string{"ＤＸ推進"},
		},
		{
			name:   "empty stream",
			tokens: nil,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.tokens, ContentWords)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_ShortUnits(t *testing.T) {
	tokens := []morph.Token{
		tok("進め", "動詞-一般", "進める"),
		tok("ます", "助動詞", "ます"),
		{Surface: "ｘ"},
	}

	assert.Equal(t, []string{"進め", "ます", "ｘ"}, Extract(tokens, ShortUnitSurface))
	assert.Equal(t, []string{"進める", "ます", "ｘ"}, Extract(tokens, ShortUnitBase))
}

func TestExtract_Restartable(t *testing.T) {
	tokens := []morph.Token{noun("東"), noun("京"), tok("に", "助詞-格助詞", "に"), num("五", "五")}
	first := Extract(tokens, ContentWords)
	second := Extract(tokens, ContentWords)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"東京", "5"}, first)
}

func TestAccumulator_States(t *testing.T) {
	acc := newAccumulator(4)
	require.Equal(t, idle, acc.state)

	acc.feed(noun("県"))
	assert.Equal(t, bufferingNoun, acc.state)

	acc.feed(num("二", "二"))
	assert.Equal(t, bufferingNumeral, acc.state)
	assert.Equal(t, []string{"県"}, acc.nouns)

	acc.feed(noun("条"))
	assert.Equal(t, bufferingNoun, acc.state)
	assert.Empty(t, acc.numerals)
	assert.Equal(t, []string{"県", "2", "条"}, acc.nouns)

	acc.feed(tok("は", "助詞-係助詞", "は"))
	assert.Equal(t, idle, acc.state)
	assert.Equal(t, []string{"県2条"}, acc.out)
	assert.Equal(t, "buffering-numeral", bufferingNumeral.String())
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("content")
	require.NoError(t, err)
	assert.Equal(t, ContentWords, g)

	g, err = ParseGranularity("短単位（表層形）")
	require.NoError(t, err)
	assert.Equal(t, ShortUnitSurface, g)

	_, err = ParseGranularity("long-unit")
	assert.Error(t, err)

	assert.Len(t, All(), 3)
}
