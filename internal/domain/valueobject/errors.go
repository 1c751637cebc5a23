package valueobject

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the root of every input validation failure. Callers map
// it to HTTP 422 and gRPC InvalidArgument.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrDayOutOfRange          = fmt.Errorf("%w: day must be between 1 and 31", ErrInvalidInput)
	ErrHourOutOfRange         = fmt.Errorf("%w: hour must be between 0 and 23", ErrInvalidInput)
	ErrStepExceedsMax         = fmt.Errorf("%w: step exceeds maximum of %d", ErrInvalidInput, MaxStep)
	ErrStepOutOfRange         = fmt.Errorf("%w: step must be between 1 and %d", ErrInvalidInput, MaxStep)
	ErrUnknownTransactionType = fmt.Errorf("%w: unknown transaction type", ErrInvalidInput)
	ErrNegativeAmount         = fmt.Errorf("%w: monetary values must not be negative", ErrInvalidInput)
)
