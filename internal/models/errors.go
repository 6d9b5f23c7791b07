// internal/models/errors.go
package models

import "errors"

// Sentinel errors returned by the registry and engine. Callers wrap them with
// context via fmt.Errorf("%w: ...") and match with errors.Is.
var (
	ErrNotFound     = errors.New("party not found")
	ErrInvalidState = errors.New("invalid state")
	ErrCapacity     = errors.New("party full")
	ErrNameConflict = errors.New("display name taken")
	ErrValidation   = errors.New("validation failed")
)
