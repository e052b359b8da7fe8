// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Error kinds surfaced by the engine. Callers match with errors.Is; the
// wrapped message carries the offending id, field, or score.
var (
	// ErrNotInitialized is returned when an engine method runs before the
	// engine has been constructed through New.
	ErrNotInitialized = errors.New("knowledge engine not initialized")

	// ErrInvalidArgument covers malformed items, missing required fields,
	// and unrecognized query types.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict is returned on duplicate item or taxonomy node ids.
	ErrConflict = errors.New("already exists")

	// ErrNotFound is returned when a primary entity lookup fails.
	ErrNotFound = errors.New("not found")

	// ErrLowTrust is a policy rejection: the computed trust score fell
	// below the configured minimum. The item is never stored.
	ErrLowTrust = errors.New("trust score below minimum")

	// ErrDimensionMismatch is returned when comparing vectors of
	// different lengths.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrFeatureDisabled is returned when an operation needs a feature
	// switch that is off.
	ErrFeatureDisabled = errors.New("feature disabled")
)
