package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDraftRepository keeps draft envelopes in Redis under one key per
// email.  Redis gives the draft exactly the durability the workflow needs:
// it survives page reloads and service restarts, and a successful
// completion deletes the key atomically.
type RedisDraftRepository struct {
	rdb *redis.Client
	ttl time.Duration // 0 means drafts never expire
}

// NewRedisDraftRepository returns a repository bound to the given client.
// ttl bounds how long an abandoned draft lingers; pass 0 to keep pending
// drafts indefinitely (there is deliberately no timeout on how long a draft
// may remain pending).
func NewRedisDraftRepository(rdb *redis.Client, ttl time.Duration) *RedisDraftRepository {
	return &RedisDraftRepository{rdb: rdb, ttl: ttl}
}

// draftKey namespaces draft entries away from the cache and rate-limit keys
// sharing the same Redis database.
func draftKey(email string) string { return "draft:" + email }

// Load fetches the envelope or reports ErrNoDraft.
func (r *RedisDraftRepository) Load(ctx context.Context, email string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, draftKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoDraft
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Save stores the envelope, replacing any previous value.
func (r *RedisDraftRepository) Save(ctx context.Context, email string, envelope []byte) error {
	return r.rdb.Set(ctx, draftKey(email), envelope, r.ttl).Err()
}

// Clear removes the envelope.  Deleting a missing key succeeds.
func (r *RedisDraftRepository) Clear(ctx context.Context, email string) error {
	return r.rdb.Del(ctx, draftKey(email)).Err()
}
