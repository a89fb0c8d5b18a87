package services

import "errors"

var (
	// ErrInvalidInput means the FoodAnalysisInput was malformed (missing
	// data or unsupported type). Fails fast before any I/O.
	ErrInvalidInput = errors.New("invalid analysis input")

	// ErrNoItemsResolved means every item in the request failed to resolve
	// against every source. The only resolution-stage condition surfaced to
	// the caller: fabricated nutrition must never be displayed for a
	// completely unrecognized input.
	ErrNoItemsResolved = errors.New("no food items could be resolved")
)
