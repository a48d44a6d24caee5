package marking

import "errors"

// ErrValidation matches every rejection produced by this package.
var ErrValidation = errors.New("marking validation")

// ValidationError reports why a raw value was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// FieldOf returns the field name carried by a validation error, or "".
func FieldOf(err error) string {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return ""
	}
	return verr.Field
}
