package service

import "errors"

// ErrNoInput is returned when a request carries no document.
var ErrNoInput = errors.New("service: no invoice documents provided")

// JobError reports a failed background job.
type JobError struct {
	ID      string
	Message string
}

func (e *JobError) Error() string {
	return "service: job " + e.ID + " failed: " + e.Message
}
