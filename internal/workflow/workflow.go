// Package workflow drives the two-phase registration flow: collect details,
// then confirm payment.  Phase one prices the form into an immutable draft
// and persists it; phase two renders the draft read-only next to the bank
// transfer instructions and submits it to the backend registration service.
// The persisted draft is the only shared mutable resource: it is written by
// the details submit, read on reload, and cleared by a successful
// completion or an explicit abandon.
package workflow

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aibf/conference-registration/internal/backend"
	"github.com/aibf/conference-registration/internal/eligibility"
	"github.com/aibf/conference-registration/internal/fees"
	"github.com/aibf/conference-registration/internal/model"
	"github.com/aibf/conference-registration/internal/queue"
	"github.com/aibf/conference-registration/internal/repository"
	"github.com/aibf/conference-registration/internal/roster"
)

// Phase names the workflow state a session is in.  There is no stored phase
// flag: a persisted draft means confirming, otherwise collecting.
type Phase string

const (
	PhaseCollecting Phase = "collecting"
	PhaseConfirming Phase = "confirming"
)

// ErrSubmissionInFlight reports that a completion for this user is already
// running.  The second of two rapid completions is blocked here, before it
// can reach the backend.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// ErrNoActiveEvent reports that the backend has no event open for
// registration, so no draft can be created.
var ErrNoActiveEvent = errors.New("no active event")

// RegistrationService is the slice of the backend client the workflow
// needs.  Tests substitute a fake.
type RegistrationService interface {
	LatestEvent(ctx context.Context, email string) (model.Event, error)
	CreateRegistration(ctx context.Context, reg model.Registration, clientRef string) (model.Registration, error)
}

// Publisher emits the registration.confirmed event to the message broker.
// Failures are logged and swallowed: notification is best-effort and must
// never fail a completed registration.
type Publisher interface {
	PublishRegistrationConfirmed(ctx context.Context, ev queue.RegistrationConfirmedEvent) error
}

// State is what a session needs to render itself after a reload: the phase
// and, in confirming, the full draft.
type State struct {
	Phase Phase  `json:"phase"`
	Draft *Draft `json:"draft,omitempty"`
}

// Manager owns the workflow for every session.  There is exactly one active
// workflow per user; the inFlight set serializes completions per email while
// everything else is either pure or single-writer on the draft repository.
type Manager struct {
	drafts   repository.DraftRepository
	engine   fees.Engine
	service  RegistrationService
	bus      *eligibility.Bus
	pub      Publisher
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewManager wires a workflow manager.  bus and pub may be nil when the
// caller does not care about eligibility triggers or broker events (tests).
func NewManager(drafts repository.DraftRepository, engine fees.Engine, service RegistrationService, bus *eligibility.Bus, pub Publisher) *Manager {
	if drafts == nil || service == nil {
		panic("nil dependency passed to workflow.NewManager")
	}
	return &Manager{
		drafts:   drafts,
		engine:   engine,
		service:  service,
		bus:      bus,
		pub:      pub,
		inFlight: make(map[string]struct{}),
	}
}

// State loads the persisted draft, if any, and derives the phase.  Going
// back from confirming to collecting is a purely client-side move: the
// draft stays persisted so nothing typed is lost, and the collecting form
// can be re-seeded from the returned draft.
func (m *Manager) State(ctx context.Context, email string) (State, error) {
	b, err := m.drafts.Load(ctx, email)
	if errors.Is(err, repository.ErrNoDraft) {
		return State{Phase: PhaseCollecting}, nil
	}
	if err != nil {
		return State{}, err
	}
	d, err := decodeDraft(b)
	if err != nil {
		// An unreadable envelope (corruption, old version) must not wedge
		// the user; drop it and restart from collecting.
		log.Printf("workflow: discarding unreadable draft for %s: %v", email, err)
		_ = m.drafts.Clear(ctx, email)
		return State{Phase: PhaseCollecting}, nil
	}
	return State{Phase: PhaseConfirming, Draft: &d}, nil
}

// Quote reconciles the roster with the counts and prices the form.  It is
// the per-keystroke recompute path: pure, synchronous, nothing persisted.
// An unknown package returns the zero quote together with the error so the
// caller treats pricing as invalid rather than charging zero.
func (m *Manager) Quote(f Form) (Form, fees.Quote, error) {
	f.Roster = f.Roster.SyncAll(f.Counts.Adults, f.Counts.Children9To13, f.Counts.Children3To8)
	q, err := m.engine.Quote(f.PackageID, f.Counts, f.Meals, f.HomeRegion)
	return f, q, err
}

// SubmitDetails is the collecting→confirming transition.  The roster is
// synced to the counts, the validation gate runs, the pricing engine
// produces the itemized quote, and the resulting draft is persisted before
// the new state is returned.  On a FieldErrors return nothing was stored.
func (m *Manager) SubmitDetails(ctx context.Context, email string, f Form) (Draft, error) {
	f.Email = email
	f.Roster = f.Roster.SyncAll(f.Counts.Adults, f.Counts.Children9To13, f.Counts.Children3To8)
	if fe := validateForm(f, m.engine.Schedule); fe != nil {
		return Draft{}, fe
	}
	ev, err := m.service.LatestEvent(ctx, email)
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return Draft{}, ErrNoActiveEvent
		}
		return Draft{}, err
	}
	q, err := m.engine.Quote(f.PackageID, f.Counts, f.Meals, f.HomeRegion)
	if err != nil {
		// Unreachable after validateForm, but the engine contract is to
		// degrade, not crash.
		return Draft{}, FieldErrors{"package_id": "unknown package"}
	}
	d := Draft{
		ID:         uuid.NewString(),
		EventID:    ev.ID,
		Email:      email,
		PackageID:  f.PackageID,
		Counts:     f.Counts,
		Roster:     f.Roster,
		Meals:      f.Meals,
		HomeRegion: f.HomeRegion,
		Quote:      q,
		CreatedAt:  time.Now().UTC(),
	}
	b, err := encodeDraft(d)
	if err != nil {
		return Draft{}, err
	}
	if err := m.drafts.Save(ctx, email, b); err != nil {
		return Draft{}, err
	}
	return d, nil
}

// Complete submits the persisted draft to the backend registration service.
// Success clears the draft, fires the registration-confirmed eligibility
// trigger and publishes the broker event.  A duplicate is terminal: the
// trigger fires so the gate flips to ALREADY_REGISTERED, but the draft is
// left in place for the user to discard.  Any other failure keeps the
// draft so a retry resubmits exactly the same data.
func (m *Manager) Complete(ctx context.Context, email string) (model.Registration, error) {
	if !m.begin(email) {
		return model.Registration{}, ErrSubmissionInFlight
	}
	defer m.end(email)

	b, err := m.drafts.Load(ctx, email)
	if err != nil {
		return model.Registration{}, err
	}
	d, err := decodeDraft(b)
	if err != nil {
		// Retrying an unreadable envelope can never succeed.  Clear it, as
		// State does, and report no draft so the user restarts collecting.
		log.Printf("workflow: discarding unreadable draft for %s: %v", email, err)
		_ = m.drafts.Clear(ctx, email)
		return model.Registration{}, repository.ErrNoDraft
	}
	reg := model.Registration{
		EventID:   d.EventID,
		Email:     d.Email,
		PackageID: d.PackageID,
		// The registering user is included in the submitted adult count.
		Adults:          d.Counts.Adults + 1,
		Children9To13:   d.Counts.Children9To13,
		Children3To8:    d.Counts.Children3To8,
		AdultNames:      roster.Joined(d.Roster.Adults),
		Child9To13Names: roster.Joined(d.Roster.Children9To13),
		Child3To8Names:  roster.Joined(d.Roster.Children3To8),
		Meals:           joinMeals(d.Meals),
		TotalCents:      d.Quote.TotalCents,
	}
	created, err := m.service.CreateRegistration(ctx, reg, d.ID)
	if err != nil {
		if errors.Is(err, backend.ErrDuplicateRegistration) && m.bus != nil {
			m.bus.Publish(eligibility.TriggerRegistrationConfirmed, email)
		}
		return model.Registration{}, err
	}
	if err := m.drafts.Clear(ctx, email); err != nil {
		// The registration exists; a lingering draft is cosmetic.  Log and
		// carry on rather than reporting failure for a completed flow.
		log.Printf("workflow: clear draft for %s after completion: %v", email, err)
	}
	if m.bus != nil {
		m.bus.Publish(eligibility.TriggerRegistrationConfirmed, email)
	}
	if m.pub != nil {
		ev := queue.RegistrationConfirmedEvent{
			RegistrationID: created.ID,
			EventID:        d.EventID,
			Email:          email,
			PackageID:      d.PackageID,
			Attendees:      reg.Adults + reg.Children9To13 + reg.Children3To8,
			TotalCents:     d.Quote.TotalCents,
			ConfirmedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		if err := m.pub.PublishRegistrationConfirmed(ctx, ev); err != nil {
			log.Printf("workflow: publish registration.confirmed for %s: %v", email, err)
		}
	}
	return created, nil
}

// Abandon discards the persisted draft, exiting the flow.
func (m *Manager) Abandon(ctx context.Context, email string) error {
	return m.drafts.Clear(ctx, email)
}

// begin marks a completion as in flight for email.  It returns false when
// one is already running, which is how the double-submit race is cut off.
func (m *Manager) begin(email string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.inFlight[email]; busy {
		return false
	}
	m.inFlight[email] = struct{}{}
	return true
}

func (m *Manager) end(email string) {
	m.mu.Lock()
	delete(m.inFlight, email)
	m.mu.Unlock()
}

// joinMeals flattens the meal selection to the comma-joined wire shape.
func joinMeals(meals []fees.Meal) string {
	out := ""
	for i, ml := range meals {
		if i > 0 {
			out += ","
		}
		out += string(ml)
	}
	return out
}
