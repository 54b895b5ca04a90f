package common

import "errors"

var (
	// ErrNotFound is returned when a mutation targets an id that no longer
	// exists. The operation is a no-op; callers decide whether to retry.
	ErrNotFound = errors.New("entity not found")

	// ErrOwnerUnreachable is returned by relay clients when the owner
	// context cannot be reached. This is a hard error, never a silent no-op.
	ErrOwnerUnreachable = errors.New("owner context unreachable")

	// ErrInvalidRequestType is returned by handlers receiving a request of
	// an unexpected concrete type.
	ErrInvalidRequestType = errors.New("invalid request type")

	// ErrPartialPreset is returned when one of the two preset collections
	// committed and the other failed. Each collection is individually
	// consistent; the committed half is not rolled back.
	ErrPartialPreset = errors.New("preset partially applied")
)
