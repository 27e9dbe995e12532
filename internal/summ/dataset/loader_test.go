package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `[
  {
    "ID": "PoliInfo2-DialogSummarization-JA-Test-0001",
    "Date": "2019-06-25",
    "Prefecture": "東京都",
    "Meeting": "令和元年第二回定例会",
    "MainTopic": "教育",
    "QuestionSpeaker": "議員A",
    "SubTopic": "予算",
    "QuestionSummary": "教育予算を確保すべき",
    "QuestionLength": 50,
    "QuestionStartingLine": 10,
    "QuestionEndingLine": 20,
    "AnswerSpeaker": ["知事"],
    "AnswerSummary": ["確保に努める"],
    "AnswerLength": [50],
    "AnswerStartingLine": [30],
    "AnswerEndingLine": [40]
  }
]`

func TestLoad(t *testing.T) {
	got, err := Load(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	require.Len(t, got, 1)

	ins := got[0]
	assert.Equal(t, "PoliInfo2-DialogSummarization-JA-Test-0001", ins.ID)
	assert.Equal(t, 50, ins.QuestionLength)
	assert.Equal(t, []string{"知事"}, ins.AnswerSpeaker)
	assert.Equal(t, 10, ins.QuestionRunes())
	assert.Equal(t, 6, ins.AnswerRunes(0))
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(strings.NewReader(`{"ID": 1}`))
	require.Error(t, err)
	assert.True(t, apperr.IsInputError(err))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "gold.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleJSON), 0o644))
	got, err := LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	yamlPath := filepath.Join(dir, "gold.yaml")
	yamlDoc := "- ID: x-1\n  QuestionSummary: 質問\n  QuestionLength: 3\n  AnswerSummary: [回答]\n  AnswerLength: [2]\n"
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlDoc), 0o644))
	got, err = LoadFile(yamlPath)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "x-1", got[0].ID)
	assert.Equal(t, []int{2}, got[0].AnswerLength)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Instance{
		ID:            "a",
		AnswerSummary: []string{"x", "y"},
		AnswerLength:  []int{1, 1},
		AnswerSpeaker: []string{"s1", "s2"},
	}

	tests := []struct {
		name      string
		instances []Instance
		wantErr   string
	}{
		{name: "valid", instances: []Instance{valid}},
		{name: "no answers", instances: []Instance{{ID: "a"}}},
		{name: "empty id", instances: []Instance{{}}, wantErr: "empty ID"},
		{name: "duplicate id", instances: []Instance{valid, valid}, wantErr: "duplicate ID"},
		{
			name:      "answer length mismatch",
			instances: []Instance{{ID: "a", AnswerSummary: []string{"x"}, AnswerLength: []int{1, 2}}},
			wantErr:   "answer lengths",
		},
		{
			name:      "truncated speakers",
			instances: []Instance{{ID: "a", AnswerSummary: []string{"x", "y"}, AnswerLength: []int{1, 2}, AnswerSpeaker: []string{"s"}}},
			wantErr:   "AnswerSpeaker",
		},
		{
			name:      "negative budget",
			instances: []Instance{{ID: "a", QuestionLength: -1}},
			wantErr:   "negative QuestionLength",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.instances)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, apperr.IsInputError(err))
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	err := Validate([]Instance{{}, {ID: "b", QuestionLength: -2}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty ID")
	assert.Contains(t, err.Error(), "negative QuestionLength")
}

func TestValidate_StableErrorOrder(t *testing.T) {
	ins := []Instance{{
		ID:                 "a",
		AnswerSummary:      []string{"x", "y"},
		AnswerLength:       []int{1, 1},
		AnswerSpeaker:      []string{"s"},
		AnswerStartingLine: []int{1},
		AnswerEndingLine:   []int{2},
	}}

	first := Validate(ins).Error()
	speaker := strings.Index(first, "AnswerSpeaker")
	start := strings.Index(first, "AnswerStartingLine")
	end := strings.Index(first, "AnswerEndingLine")
	require.True(t, speaker >= 0 && start >= 0 && end >= 0, first)
	assert.Less(t, speaker, start)
	assert.Less(t, start, end)

	for range 20 {
		assert.Equal(t, first, Validate(ins).Error())
	}
}

func TestIndex(t *testing.T) {
	gold := []Instance{{ID: "a"}, {ID: "b"}}
	idx := Index(gold)
	require.Len(t, idx, 2)
	assert.Same(t, &gold[1], idx["b"])
}

func TestCheckLegacyIDs(t *testing.T) {
	legacy := DefaultDeprecatedPrefixes[0] + "12"

	assert.NoError(t, CheckLegacyIDs([]Instance{{ID: "PoliInfo2-DialogSummarization-JA-Test-0001"}}, DefaultDeprecatedPrefixes))

	err := CheckLegacyIDs([]Instance{{ID: "ok"}, {ID: legacy}}, DefaultDeprecatedPrefixes)
	require.ErrorIs(t, err, apperr.ErrLegacyInput)
	assert.Contains(t, err.Error(), legacy)

	assert.NoError(t, CheckLegacyIDs([]Instance{{ID: legacy}}, nil))
}
