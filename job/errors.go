package job

import "errors"

var (
	// ErrNotFound is returned for unknown job ids.
	ErrNotFound = errors.New("job: not found")
	// ErrNotReady is returned when an artifact is requested for a pending job.
	ErrNotReady = errors.New("job: not ready")
	// ErrAlreadyFinal is returned on a second transition of the same job.
	ErrAlreadyFinal = errors.New("job: already completed")
	// ErrExists is returned when creating a duplicate job id.
	ErrExists = errors.New("job: already exists")
)
