package apperr

import "errors"

var (
	// ErrLegacyInput marks input whose instance IDs use a deprecated prefix.
	ErrLegacyInput = errors.New("input data uses a deprecated ID version")
	// ErrMissingGold marks a target instance with no gold counterpart.
	ErrMissingGold = errors.New("instance not found in gold data")
	// ErrExternalService marks a failure of the analyzer or the scoring engine.
	ErrExternalService = errors.New("external service failure")
	// ErrEmptyAggregate marks a macro average over zero instances.
	ErrEmptyAggregate = errors.New("aggregate over zero instances")
)

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// IsInputError reports whether err was caused by the submitted data rather than
// by the evaluator itself.
func IsInputError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrLegacyInput) || errors.Is(err, ErrMissingGold)
}
