package db

import "fmt"

var (
	ErrNotFound          = fmt.Errorf("not found")
	ErrInvalidData       = fmt.Errorf("invalid data provided")
	ErrAlreadyExists     = fmt.Errorf("already exists")
	ErrInvalidTransition = fmt.Errorf("invalid status transition")
	// ErrUpdateWouldOverwrite is returned by conditional updates when the
	// document no longer matches the expected state.
	ErrUpdateWouldOverwrite = fmt.Errorf("document changed concurrently")
)
