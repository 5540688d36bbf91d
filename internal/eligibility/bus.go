package eligibility

import "sync"

// Trigger names an event after which a user's eligibility must be
// re-derived.  The set is closed: eligibility changes only on these four
// transitions, so there is no interval polling anywhere in the service.
type Trigger string

const (
	TriggerLogin                 Trigger = "login"
	TriggerLogout                Trigger = "logout"
	TriggerProfileSaved          Trigger = "profile-saved"
	TriggerRegistrationConfirmed Trigger = "registration-confirmed"
)

// Subscriber receives a trigger together with the email it concerns.
type Subscriber func(t Trigger, email string)

// Bus is a small synchronous in-process fan-out for eligibility triggers.
// Handlers publish on the well-defined transitions; subscribers typically
// drop cached eligibility snapshots.  Delivery happens on the publishing
// goroutine, so subscribers must be fast and must not publish re-entrantly.
type Bus struct {
	mu   sync.RWMutex
	subs []Subscriber
}

// NewBus returns an empty bus.
func NewBus() *Bus { return &Bus{} }

// Subscribe registers fn for all future triggers.  There is no unsubscribe;
// subscriptions live for the life of the process.
func (b *Bus) Subscribe(fn Subscriber) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()
}

// Publish delivers the trigger to every subscriber in subscription order.
func (b *Bus) Publish(t Trigger, email string) {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(t, email)
	}
}
