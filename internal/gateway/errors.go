package gateway

import "errors"

// Sentinel errors for gateway operations.
var (
	ErrEmptyInput = errors.New("chat input is empty")
)
