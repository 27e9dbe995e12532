// Package dataset loads and validates dialog summarization instances.
package dataset

import "unicode/utf8"

// Instance is one question/answer exchange. The same shape is used for the
// system output (target) and the gold standard.
type Instance struct {
	ID                   string   `json:"ID" yaml:"ID"`
	Date                 string   `json:"Date" yaml:"Date"`
	Prefecture           string   `json:"Prefecture" yaml:"Prefecture"`
	Meeting              string   `json:"Meeting" yaml:"Meeting"`
	MainTopic            string   `json:"MainTopic" yaml:"MainTopic"`
	QuestionSpeaker      string   `json:"QuestionSpeaker" yaml:"QuestionSpeaker"`
	SubTopic             string   `json:"SubTopic" yaml:"SubTopic"`
	QuestionSummary      string   `json:"QuestionSummary" yaml:"QuestionSummary"`
	QuestionLength       int      `json:"QuestionLength" yaml:"QuestionLength"`
	QuestionStartingLine int      `json:"QuestionStartingLine" yaml:"QuestionStartingLine"`
	QuestionEndingLine   int      `json:"QuestionEndingLine" yaml:"QuestionEndingLine"`
	AnswerSpeaker        []string `json:"AnswerSpeaker" yaml:"AnswerSpeaker"`
	AnswerSummary        []string `json:"AnswerSummary" yaml:"AnswerSummary"`
	AnswerLength         []int    `json:"AnswerLength" yaml:"AnswerLength"`
	AnswerStartingLine   []int    `json:"AnswerStartingLine" yaml:"AnswerStartingLine"`
	AnswerEndingLine     []int    `json:"AnswerEndingLine" yaml:"AnswerEndingLine"`
}

// QuestionRunes is the question summary length in characters.
func (i *Instance) QuestionRunes() int {
	return utf8.RuneCountInString(i.QuestionSummary)
}

// AnswerRunes is the length of the k-th answer summary in characters.
func (i *Instance) AnswerRunes(k int) int {
	return utf8.RuneCountInString(i.AnswerSummary[k])
}
