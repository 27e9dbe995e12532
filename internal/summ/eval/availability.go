package eval

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/summ/dataset"
)

// BudgetSource selects which instance supplies the length budgets.
type BudgetSource string

const (
	BudgetFromTarget BudgetSource = "target"
	BudgetFromGold   BudgetSource = "gold"
)

func ParseBudgetSource(s string) (BudgetSource, error) {
	switch BudgetSource(strings.ToLower(strings.TrimSpace(s))) {
	case "", BudgetFromTarget:
		return BudgetFromTarget, nil
	case BudgetFromGold:
		return BudgetFromGold, nil
	default:
		return "", fmt.Errorf("unknown budget source %q (want target or gold)", s)
	}
}

// Flags records which parts of an instance respect their length budgets.
type Flags struct {
	Q  bool
	A  bool
	QA bool
}

// Availability compares target summary lengths, in characters, against the
// budgets. Equality is within budget. An instance without answers has A set.
func Availability(target, gold *dataset.Instance, src BudgetSource) Flags {
	budget := target
	if src == BudgetFromGold && gold != nil {
		budget = gold
	}

	q := target.QuestionRunes() <= budget.QuestionLength

	a := true
	for k := range target.AnswerSummary {
		if k >= len(budget.AnswerLength) || target.AnswerRunes(k) > budget.AnswerLength[k] {
			a = false
			break
		}
	}

	return Flags{Q: q, A: a, QA: q && a}
}
