// Package backend is the HTTP client for the external backend registration
// service: the system of record for users, events and registrations.  It
// owns the at-most-once registration invariant and recomputes pricing
// authoritatively; this service only reads from it and submits drafts to it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aibf/conference-registration/internal/model"
)

// ErrDuplicateRegistration reports that the backend already holds a
// registration for this user and event.  It is terminal: retrying the same
// draft can never succeed.
var ErrDuplicateRegistration = errors.New("already registered for this event")

// ErrSubmissionFailed wraps transport failures and backend rejections other
// than duplicates.  It is retryable: the draft is preserved and a retry
// resubmits the same data.
var ErrSubmissionFailed = errors.New("registration submission failed")

// ErrNotFound is returned for 404 responses on lookups.
var ErrNotFound = errors.New("not found")

// Client talks JSON over HTTP to the backend service.  All methods take a
// context; the zero timeout on the embedded http.Client is overridden so a
// wedged backend cannot pin handler goroutines.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the service rooted at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// GoogleSignIn exchanges a Google identity token for the backend user
// record.  The credential is treated as opaque; validation happens on the
// backend.
func (c *Client) GoogleSignIn(ctx context.Context, credential string) (model.UserProfile, error) {
	var u model.UserProfile
	body := map[string]string{"credential": credential}
	err := c.do(ctx, http.MethodPost, "/users/api/google-signin/", nil, body, &u)
	return u, err
}

// CompleteProfile forwards a profile update and returns the stored record.
func (c *Client) CompleteProfile(ctx context.Context, p model.UserProfile) (model.UserProfile, error) {
	var u model.UserProfile
	err := c.do(ctx, http.MethodPost, "/users/api/complete-profile/", nil, p, &u)
	return u, err
}

// User fetches the profile fields used by the completeness predicate.
func (c *Client) User(ctx context.Context, id uint64) (model.UserProfile, error) {
	var u model.UserProfile
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/", id), nil, nil, &u)
	return u, err
}

// LatestEvent fetches the active event.  When email is non-empty the
// backend annotates the record with is_registered for that email.  The
// backend returns a list ordered newest-first; an empty list means no
// event is configured.
func (c *Client) LatestEvent(ctx context.Context, email string) (model.Event, error) {
	q := url.Values{"latest": {"true"}}
	if email != "" {
		q.Set("email", email)
	}
	var events []model.Event
	if err := c.do(ctx, http.MethodGet, "/users/events/", q, nil, &events); err != nil {
		return model.Event{}, err
	}
	if len(events) == 0 {
		return model.Event{}, ErrNotFound
	}
	return events[0], nil
}

// registrationPayload is the wire shape of POST registrations.  Attendee
// names and meals travel as comma-joined strings, and the adult count
// includes the registering user.
type registrationPayload struct {
	EventID         uint64 `json:"event_id"`
	Email           string `json:"email"`
	PackageID       string `json:"package_id"`
	Adults          int    `json:"adults"`
	Children9To13   int    `json:"children_9_13"`
	Children3To8    int    `json:"children_3_8"`
	AdultNames      string `json:"adult_names"`
	Child9To13Names string `json:"child_9_13_names"`
	Child3To8Names  string `json:"child_3_8_names"`
	Meals           string `json:"meals"`
	TotalCents      int64  `json:"total_cents"`
	ClientRef       string `json:"client_ref"`
}

// CreateRegistration submits a completed draft.  clientRef is an
// idempotency reference generated when the draft was priced, letting the
// backend collapse an accidental double submission of the same draft.
// A 409 from the backend maps to ErrDuplicateRegistration; any other
// failure wraps ErrSubmissionFailed.
func (c *Client) CreateRegistration(ctx context.Context, reg model.Registration, clientRef string) (model.Registration, error) {
	payload := registrationPayload{
		EventID:         reg.EventID,
		Email:           reg.Email,
		PackageID:       reg.PackageID,
		Adults:          reg.Adults,
		Children9To13:   reg.Children9To13,
		Children3To8:    reg.Children3To8,
		AdultNames:      reg.AdultNames,
		Child9To13Names: reg.Child9To13Names,
		Child3To8Names:  reg.Child3To8Names,
		Meals:           reg.Meals,
		TotalCents:      reg.TotalCents,
		ClientRef:       clientRef,
	}
	var created model.Registration
	err := c.do(ctx, http.MethodPost, "/users/registrations/", nil, payload, &created)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			if se.code == http.StatusConflict {
				return model.Registration{}, ErrDuplicateRegistration
			}
		}
		return model.Registration{}, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	return created, nil
}

// SetPaymentStatus toggles the administrative payment-received flag on a
// registration via PATCH registrations/{id}.
func (c *Client) SetPaymentStatus(ctx context.Context, id uint64, received bool) error {
	body := map[string]bool{"payment_received": received}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/registrations/%d/", id), nil, body, nil)
}

// statusError carries a non-2xx response so callers can branch on the code.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.code, e.body)
}

// do performs one JSON request/response round trip.  A nil out skips
// decoding; a nil in sends no body.  Non-2xx responses become statusError
// (or ErrNotFound for 404s) with up to 512 bytes of body for diagnostics.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rdr io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
