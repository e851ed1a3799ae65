package base

import "errors"

// ErrInvalidConfig is wrapped by every architecture configuration error.
var ErrInvalidConfig = errors.New("invalid model config")
