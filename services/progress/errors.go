package progress

import "errors"

var (
	// ErrNotFound is returned when a hierarchy entity or progress record
	// does not exist.
	ErrNotFound = errors.New("progress record not found")

	// ErrConflict is returned on a duplicate start or a double completion.
	// Callers should treat it as "already in that state", not as fatal.
	ErrConflict = errors.New("progress record already in requested state")

	// ErrNotEnrolled is returned when progress creation is attempted for a
	// course the user has not paid for.
	ErrNotEnrolled = errors.New("user not enrolled in course")

	// ErrInconsistent is returned when a parent record is found COMPLETED
	// while one of its children is not. This should be unreachable; it is
	// never repaired, only reported.
	ErrInconsistent = errors.New("progress hierarchy inconsistent")
)
