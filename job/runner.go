package job

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Func produces the artifact of one job.
type Func func(ctx context.Context) (*Artifact, error)

// Runner executes jobs in background goroutines and records their outcome.
type Runner struct {
	store Store
	logf  func(format string, args ...any)
	wg    sync.WaitGroup
}

// NewRunner creates a Runner over store; logf may be nil.
func NewRunner(store Store, logf func(format string, args ...any)) *Runner {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Runner{store: store, logf: logf}
}

// Store returns the underlying store.
func (r *Runner) Store() Store { return r.store }

// Submit registers a pending job and runs fn in the background. The job
// context is detached from ctx cancellation so a finished request does not
// abort its job.
func (r *Runner) Submit(ctx context.Context, fn Func) (string, error) {
	id := uuid.NewString()
	if err := r.store.Create(ctx, id); err != nil {
		return "", err
	}
	jobCtx := context.WithoutCancel(ctx)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		artifact, err := r.run(jobCtx, fn)
		if err != nil {
			if ferr := r.store.Fail(jobCtx, id, err.Error()); ferr != nil {
				r.logf("job: id=%s fail err=%v", id, ferr)
			}
			r.logf("job: id=%s status=%s err=%v", id, StatusFailed, err)
			return
		}
		if cerr := r.store.Complete(jobCtx, id, artifact); cerr != nil {
			r.logf("job: id=%s complete err=%v", id, cerr)
			if ferr := r.store.Fail(jobCtx, id, cerr.Error()); ferr != nil {
				r.logf("job: id=%s fail err=%v", id, ferr)
			}
			return
		}
		r.logf("job: id=%s status=%s rows=%d", id, StatusReady, artifact.Rows)
	}()
	return id, nil
}

func (r *Runner) run(ctx context.Context, fn Func) (artifact *Artifact, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("job: panic: %v", p)
		}
	}()
	artifact, err = fn(ctx)
	if err == nil && artifact == nil {
		artifact = &Artifact{}
	}
	return artifact, err
}

// Wait blocks until every submitted job has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}
