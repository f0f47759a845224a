package models

import "errors"

// Sentinel errors shared across the engine.
// Use errors.Is to check: errors.Is(err, models.ErrInvalidSnapshot)
var (
	// ErrInvalidRating is returned for a rating outside the known set.
	ErrInvalidRating = errors.New("mnemo: invalid rating")
	// ErrUnknownSchemaVersion is returned when a persisted ledger or
	// snapshot carries a version newer than this build understands.
	// The engine fails closed rather than attempt a lossy downgrade.
	ErrUnknownSchemaVersion = errors.New("mnemo: unknown schema version")
	// ErrInvalidSnapshot is returned when an import payload fails
	// shape or invariant validation. Nothing is imported.
	ErrInvalidSnapshot = errors.New("mnemo: invalid snapshot")
	// ErrStoreWrite is returned when a durable write did not complete.
	// The transaction is rolled back; the rating is not recorded.
	ErrStoreWrite = errors.New("mnemo: store write failed")
	// ErrCourseNotFound is returned for operations on a course the
	// catalog does not know.
	ErrCourseNotFound = errors.New("mnemo: course not found")
)
