package entity

import "errors"

// Domain errors
var (
	// Ingestion errors
	ErrFetch             = errors.New("fetch failed")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrNotInitialized    = errors.New("corpus is not initialized")

	// Pipeline errors
	ErrEmbedding      = errors.New("embedding failed")
	ErrPromptTooLarge = errors.New("prompt too large")
	ErrGeneration     = errors.New("generation failed")

	// Collaborator errors
	ErrPrediction      = errors.New("prediction failed")
	ErrListingsSource  = errors.New("listings source unavailable")
	ErrUnsupportedType = errors.New("unsupported format")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
