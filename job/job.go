// Package job tracks asynchronous report generation: each job moves once
// from pending to ready or failed and is written by a single producer.
package job

import (
	"context"
	"time"
)

// Status is a job lifecycle state.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Final reports whether no further transition is allowed.
func (s Status) Final() bool {
	return s == StatusReady || s == StatusFailed
}

// Job is a snapshot of one tracked job.
type Job struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Artifact  *Artifact `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	DoneAt    time.Time `json:"doneAt,omitempty"`
}

// Store persists job state.
type Store interface {
	// Create registers a new pending job.
	Create(ctx context.Context, id string) error
	// Complete moves a pending job to ready with its artifact.
	Complete(ctx context.Context, id string, artifact *Artifact) error
	// Fail moves a pending job to failed.
	Fail(ctx context.Context, id string, message string) error
	// Get returns the job or ErrNotFound.
	Get(ctx context.Context, id string) (*Job, error)
	// Prune removes final jobs finished before the cutoff.
	Prune(ctx context.Context, before time.Time) (int, error)
	Close() error
}
