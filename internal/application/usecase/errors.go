package usecase

import "errors"

// ErrInferenceFailed is surfaced for any prediction failure that is neither
// invalid input nor an unloadable model. Callers show a generic message.
var ErrInferenceFailed = errors.New("inference failed")
