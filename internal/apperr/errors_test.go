package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DjordjeVuckovic/poliinfo-eval/internal/apperr"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("field is required")

	if err.Error() != "field is required" {
		t.Errorf("expected 'field is required', got %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Errorf("expected nil unwrap, got %v", err.Unwrap())
	}
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("answer arrays differ in length")
	err := apperr.NewValidationWrap("invalid instance", inner)

	if err.Error() != "invalid instance: answer arrays differ in length" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected Unwrap to return inner error")
	}
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("empty ID")

	wrapped := fmt.Errorf("load targets: %w", original)
	doubleWrapped := fmt.Errorf("run: %w", wrapped)

	var ve *apperr.ValidationError
	if !errors.As(doubleWrapped, &ve) {
		t.Fatal("errors.As should find ValidationError through double wrapping")
	}
	if ve.Message != "empty ID" {
		t.Errorf("expected 'empty ID', got %q", ve.Message)
	}
}

func TestIsInputError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation", apperr.NewValidation("bad"), true},
		{"legacy", fmt.Errorf("check: %w", apperr.ErrLegacyInput), true},
		{"missing gold", fmt.Errorf("id=x: %w", apperr.ErrMissingGold), true},
		{"external", fmt.Errorf("mecab: %w", apperr.ErrExternalService), false},
		{"empty aggregate", apperr.ErrEmptyAggregate, false},
		{"plain", fmt.Errorf("database connection failed"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apperr.IsInputError(tt.err); got != tt.want {
				t.Errorf("IsInputError() = %v, want %v", got, tt.want)
			}
		})
	}
}
