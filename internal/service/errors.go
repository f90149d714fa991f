package service

import "errors"

// Failure taxonomy for the generation workflow and saved-recipe store. All
// collaborator errors are wrapped into one of these before leaving the
// service layer, so handlers can map kinds to status codes without knowing
// which transport failed.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInvalidRequest         = errors.New("images or requirements required")
	ErrRecognitionFailure     = errors.New("ingredient recognition failed")
	ErrGenerationFailure      = errors.New("recipe generation failed")
	ErrPersistenceFailure     = errors.New("persistence failed")
	ErrNotFound               = errors.New("not found")
	ErrGenerationInFlight     = errors.New("a generation is already in flight")
)
