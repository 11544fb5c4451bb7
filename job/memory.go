package job

import (
	"context"
	"time"

	"github.com/viant/nfereport/cache"
)

// MemoryStore keeps jobs in process memory.
type MemoryStore struct {
	jobs *cache.Map[string, Job]
	now  func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: cache.NewMap[string, Job](), now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, id string) error {
	return s.jobs.Update(id, func(prev *Job) (*Job, error) {
		if prev != nil {
			return prev, ErrExists
		}
		return &Job{ID: id, Status: StatusPending, CreatedAt: s.now()}, nil
	})
}

func (s *MemoryStore) Complete(_ context.Context, id string, artifact *Artifact) error {
	return s.finish(id, func(j *Job) {
		j.Status = StatusReady
		j.Artifact = artifact
	})
}

func (s *MemoryStore) Fail(_ context.Context, id string, message string) error {
	return s.finish(id, func(j *Job) {
		j.Status = StatusFailed
		j.Error = message
	})
}

func (s *MemoryStore) finish(id string, apply func(*Job)) error {
	return s.jobs.Update(id, func(prev *Job) (*Job, error) {
		if prev == nil {
			return nil, ErrNotFound
		}
		if prev.Status.Final() {
			return prev, ErrAlreadyFinal
		}
		next := *prev
		apply(&next)
		next.DoneAt = s.now()
		return &next, nil
	})
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Job, error) {
	j, ok := s.jobs.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	out := *j
	return &out, nil
}

func (s *MemoryStore) Prune(_ context.Context, before time.Time) (int, error) {
	var expired []string
	s.jobs.Range(func(id string, j *Job) bool {
		if j.Status.Final() && j.DoneAt.Before(before) {
			expired = append(expired, id)
		}
		return true
	})
	for _, id := range expired {
		s.jobs.Delete(id)
	}
	return len(expired), nil
}

func (s *MemoryStore) Close() error { return nil }
