package repository

import (
	"context"
	"sync"
)

// MemoryDraftRepository is a process-local DraftRepository.  It backs tests
// and keeps the service usable when Redis is unreachable at startup, at the
// cost of drafts not surviving a restart.
type MemoryDraftRepository struct {
	mu     sync.RWMutex
	drafts map[string][]byte
}

// NewMemoryDraftRepository returns an empty in-memory repository.
func NewMemoryDraftRepository() *MemoryDraftRepository {
	return &MemoryDraftRepository{drafts: make(map[string][]byte)}
}

// Load returns a copy of the stored envelope so callers cannot mutate the
// repository's state through the returned slice.
func (r *MemoryDraftRepository) Load(ctx context.Context, email string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.drafts[email]
	if !ok {
		return nil, ErrNoDraft
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

// Save stores a copy of the envelope.
func (r *MemoryDraftRepository) Save(ctx context.Context, email string, envelope []byte) error {
	cp := make([]byte, len(envelope))
	copy(cp, envelope)
	r.mu.Lock()
	r.drafts[email] = cp
	r.mu.Unlock()
	return nil
}

// Clear removes the envelope; clearing a missing draft is a no-op.
func (r *MemoryDraftRepository) Clear(ctx context.Context, email string) error {
	r.mu.Lock()
	delete(r.drafts, email)
	r.mu.Unlock()
	return nil
}
