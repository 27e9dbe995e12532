package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/apperr"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// DefaultDeprecatedPrefixes are ID prefixes of retired dry-run data.
var DefaultDeprecatedPrefixes = []string{"PoliInfo2-DialogSummarization-JA-Dry-Test-00"}

// LoadFile reads a JSON array of instances, or a YAML sequence when the file
// extension is .yaml or .yml.
func LoadFile(path string) ([]Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var out []Instance
		if err := yaml.NewDecoder(f).Decode(&out); err != nil {
			return nil, apperr.NewValidationWrap(fmt.Sprintf("parse dataset YAML %s", path), err)
		}
		return out, nil
	default:
		out, err := Load(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return out, nil
	}
}

// Load decodes a JSON array of instances.
func Load(r io.Reader) ([]Instance, error) {
	var out []Instance
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, apperr.NewValidationWrap("parse dataset JSON", err)
	}
	return out, nil
}

// Validate reports every structural problem in instances at once.
func Validate(instances []Instance) error {
	var result *multierror.Error
	seen := make(map[string]int, len(instances))

	for i := range instances {
		ins := &instances[i]
		if ins.ID == "" {
			result = multierror.Append(result, fmt.Errorf("instance %d: empty ID", i))
		} else if prev, ok := seen[ins.ID]; ok {
			result = multierror.Append(result, fmt.Errorf("instance %d: duplicate ID %q (first at %d)", i, ins.ID, prev))
		} else {
			seen[ins.ID] = i
		}

		if ins.QuestionLength < 0 {
			result = multierror.Append(result, fmt.Errorf("instance %q: negative QuestionLength %d", ins.ID, ins.QuestionLength))
		}

		n := len(ins.AnswerSummary)
		if len(ins.AnswerLength) != n {
			result = multierror.Append(result, fmt.Errorf("instance %q: %d answer summaries but %d answer lengths", ins.ID, n, len(ins.AnswerLength)))
		}
		for _, meta := range []struct {
			name string
			n    int
		}{
			{"AnswerSpeaker", len(ins.AnswerSpeaker)},
			{"AnswerStartingLine", len(ins.AnswerStartingLine)},
			{"AnswerEndingLine", len(ins.AnswerEndingLine)},
		} {
			// metadata arrays may be omitted, but not truncated
			if meta.n != 0 && meta.n != n {
				result = multierror.Append(result, fmt.Errorf("instance %q: %s has %d entries, want %d", ins.ID, meta.name, meta.n, n))
			}
		}
		for k, l := range ins.AnswerLength {
			if l < 0 {
				result = multierror.Append(result, fmt.Errorf("instance %q: negative AnswerLength[%d] %d", ins.ID, k, l))
			}
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return apperr.NewValidationWrap("invalid dataset", err)
	}
	return nil
}

// Index maps gold instances by ID.
func Index(gold []Instance) map[string]*Instance {
	idx := make(map[string]*Instance, len(gold))
	for i := range gold {
		idx[gold[i].ID] = &gold[i]
	}
	return idx
}

// CheckLegacyIDs fails when any instance ID starts with a deprecated prefix.
func CheckLegacyIDs(instances []Instance, prefixes []string) error {
	for i := range instances {
		for _, p := range prefixes {
			if p != "" && strings.HasPrefix(instances[i].ID, p) {
				return fmt.Errorf("%w: %q uses deprecated prefix %q", apperr.ErrLegacyInput, instances[i].ID, p)
			}
		}
	}
	return nil
}
