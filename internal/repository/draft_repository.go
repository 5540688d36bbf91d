// Package repository provides persistence for the in-progress registration
// draft.  The draft is the only state this service owns: everything else is
// read from or written to the external backend registration service.
package repository

import (
	"context"
	"errors"
)

// ErrNoDraft is returned by Load when the user has no persisted draft.
var ErrNoDraft = errors.New("no draft stored")

// DraftRepository is the single-owner persisted-value store for the priced
// registration draft.  The workflow is the only caller: Save happens on the
// collecting→confirming transition, Clear on successful completion or
// abandonment, and Load whenever a session needs to reconstruct the
// confirming view after a reload.  Values are opaque serialized envelopes;
// the repository never inspects them.
type DraftRepository interface {
	// Load returns the stored envelope for the given email, or ErrNoDraft.
	Load(ctx context.Context, email string) ([]byte, error)
	// Save stores the envelope, replacing any previous one.
	Save(ctx context.Context, email string, envelope []byte) error
	// Clear removes the stored envelope.  Clearing a missing draft is not
	// an error.
	Clear(ctx context.Context, email string) error
}
