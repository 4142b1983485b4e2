package validator

import "errors"

// ErrValidationFailed is returned when validation fails for a reason other than a field rule,
// e.g. a non-struct value.
var ErrValidationFailed = errors.New("validation failed")
