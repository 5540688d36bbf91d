package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aibf/conference-registration/internal/fees"
	"github.com/aibf/conference-registration/internal/roster"
)

// envelopeVersion tags persisted drafts so a future shape change can be
// migrated instead of silently misread.
const envelopeVersion = 1

// ErrDraftVersion is returned when a stored envelope carries an unknown
// version tag.
var ErrDraftVersion = errors.New("unsupported draft version")

// Draft is the priced registration produced by the collecting phase.  It is
// immutable once created: re-running the collecting phase replaces it
// wholesale, and nothing else writes it.  The confirming view is rendered
// from this struct alone, which is why it carries everything the user
// entered plus the full itemized quote.
type Draft struct {
	ID         string        `json:"id"` // doubles as the backend idempotency reference
	EventID    uint64        `json:"event_id"`
	Email      string        `json:"email"`
	PackageID  string        `json:"package_id"`
	Counts     fees.Counts   `json:"counts"`
	Roster     roster.Roster `json:"roster"`
	Meals      []fees.Meal   `json:"meals"`
	HomeRegion string        `json:"home_region"`
	Quote      fees.Quote    `json:"quote"`
	CreatedAt  time.Time     `json:"created_at"`
}

// envelope wraps a draft with its version tag for storage.
type envelope struct {
	Version int   `json:"version"`
	Draft   Draft `json:"draft"`
}

// encodeDraft serializes a draft into its stored envelope form.
func encodeDraft(d Draft) ([]byte, error) {
	return json.Marshal(envelope{Version: envelopeVersion, Draft: d})
}

// decodeDraft reads a stored envelope back into a draft.  The decoded draft
// must be field-for-field identical to what was written: a page reload in
// the confirming phase reconstructs the whole view from this value.
func decodeDraft(b []byte) (Draft, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Draft{}, fmt.Errorf("decode draft: %w", err)
	}
	if env.Version != envelopeVersion {
		return Draft{}, fmt.Errorf("%w: %d", ErrDraftVersion, env.Version)
	}
	return env.Draft, nil
}
