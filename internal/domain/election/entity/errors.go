package entity

import "errors"

// Domain errors for election data
var (
	// Validation errors
	ErrEmptyStateName      = errors.New("state name is required")
	ErrInvalidStateStatus  = errors.New("invalid state status")
	ErrEmptyCandidateName  = errors.New("candidate name is required")
	ErrNegativeCount       = errors.New("counts cannot be negative")
	ErrInvalidPercentage   = errors.New("percentage must be between 0 and 100")
	ErrEmptyLGAName        = errors.New("LGA name is required")
	ErrEmptyHighlightTitle = errors.New("highlight title is required")

	// Lookup errors
	ErrStateNotFound = errors.New("state not found")
)
