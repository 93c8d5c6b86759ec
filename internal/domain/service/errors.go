package service

import "errors"

// Error definitions shared across adapters, the inference engine and the
// presentation shells. Callers classify failures with errors.Is; layers add
// context by wrapping with fmt.Errorf("%w: ...").
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrEmptyInput        = errors.New("no valid text data found")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInference         = errors.New("inference failed")
	ErrConfiguration     = errors.New("configuration error")
)
