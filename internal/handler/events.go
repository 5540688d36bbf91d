package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/aibf/conference-registration/internal/backend"
	"github.com/aibf/conference-registration/internal/config"
	"github.com/aibf/conference-registration/internal/eligibility"
	"github.com/aibf/conference-registration/internal/middleware"
	"github.com/aibf/conference-registration/internal/model"
)

// eligibilitySnapshotTTL bounds how long a computed verdict may be reused
// before it is re-derived from the backend.  The trigger bus usually drops
// a snapshot well before this; the TTL is the backstop for triggers missed
// across process restarts.
const eligibilitySnapshotTTL = time.Minute

// EventsHandler serves the public conference view: the latest event plus
// the eligibility verdict that picks the call to action shown next to it.
// Snapshot invalidation runs through the trigger-bus subscription taken in
// NewEventsHandler; the bus itself is not retained because the handler
// never publishes.
type EventsHandler struct {
	Cfg     config.Config
	Backend *backend.Client
	RDB     *redis.Client // nil disables snapshot caching
}

// NewEventsHandler constructs the handler and subscribes it to the
// eligibility trigger bus: login, logout, profile-saved and
// registration-confirmed all invalidate the cached verdict for that email,
// so eligibility recomputes on exactly those events and never on a timer.
func NewEventsHandler(cfg config.Config, b *backend.Client, bus *eligibility.Bus, rdb *redis.Client) *EventsHandler {
	h := &EventsHandler{Cfg: cfg, Backend: b, RDB: rdb}
	if bus != nil {
		bus.Subscribe(func(_ eligibility.Trigger, email string) { h.dropSnapshot(email) })
	}
	return h
}

// eligibilityView is the wire form of a verdict.
type eligibilityView struct {
	CanRegister bool               `json:"can_register"`
	Status      eligibility.Status `json:"status"`
}

// eventResp pairs the event with the caller's verdict.  Event is null when
// the backend has no upcoming event configured.
type eventResp struct {
	Event       *model.Event    `json:"event"`
	Eligibility eligibilityView `json:"eligibility"`
}

// GetLatest handles GET /v1/events/latest.  Authentication is optional: a
// valid bearer personalizes the answer (is_registered, profile
// completeness); without one the verdict is simply NEEDS_LOGIN or CLOSED.
func (h *EventsHandler) GetLatest(c echo.Context) error {
	email, userID := h.optionalSession(c)

	if email != "" {
		if resp, ok := h.loadSnapshot(c.Request().Context(), email); ok {
			return c.JSON(http.StatusOK, resp)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp, err := h.derive(ctx, email, userID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "event lookup failed"})
	}
	if email != "" {
		h.storeSnapshot(ctx, email, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

// derive computes the event view and verdict from backend state.
func (h *EventsHandler) derive(ctx context.Context, email string, userID uint64) (eventResp, error) {
	in := eligibility.Inputs{
		RegistrationOpen: h.Cfg.RegistrationOpen,
		LoggedIn:         email != "",
	}

	var evPtr *model.Event
	ev, err := h.Backend.LatestEvent(ctx, email)
	switch {
	case errors.Is(err, backend.ErrNotFound):
		// No event configured at all counts as closed.
		in.RegistrationOpen = false
	case err != nil:
		return eventResp{}, err
	default:
		evPtr = &ev
		in.AlreadyRegistered = ev.IsRegistered
	}

	if email != "" && userID != 0 {
		// Profile completeness only matters once logged in; a failed
		// profile read degrades to incomplete rather than an error page.
		if profile, err := h.Backend.User(ctx, userID); err == nil {
			in.ProfileComplete = profile.IsComplete()
		}
	}

	return eventResp{
		Event: evPtr,
		Eligibility: eligibilityView{
			CanRegister: eligibility.CanRegister(in),
			Status:      eligibility.Evaluate(in),
		},
	}, nil
}

// optionalSession parses a bearer token when present and returns its email
// and subject claims, or zero values for guests.  Invalid tokens are
// treated as absent rather than rejected: the event page must render for
// everyone.
func (h *EventsHandler) optionalSession(c echo.Context) (string, uint64) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", 0
	}
	claims, ok := middleware.ParseSession(strings.TrimPrefix(auth, "Bearer "), h.Cfg.JWTSecret)
	if !ok {
		return "", 0
	}
	email, _ := claims["email"].(string)
	var userID uint64
	if sub, ok := claims["sub"].(float64); ok {
		userID = uint64(sub)
	}
	return email, userID
}

// ----- snapshot cache -----

func snapshotKey(email string) string { return "elig:" + email }

func (h *EventsHandler) loadSnapshot(ctx context.Context, email string) (eventResp, bool) {
	if h.RDB == nil {
		return eventResp{}, false
	}
	b, err := h.RDB.Get(ctx, snapshotKey(email)).Bytes()
	if err != nil {
		return eventResp{}, false
	}
	var resp eventResp
	if err := json.Unmarshal(b, &resp); err != nil {
		return eventResp{}, false
	}
	return resp, true
}

func (h *EventsHandler) storeSnapshot(ctx context.Context, email string, resp eventResp) {
	if h.RDB == nil {
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := h.RDB.Set(ctx, snapshotKey(email), b, eligibilitySnapshotTTL).Err(); err != nil {
		log.Printf("events: store eligibility snapshot for %s: %v", email, err)
	}
}

func (h *EventsHandler) dropSnapshot(email string) {
	if h.RDB == nil || email == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.RDB.Del(ctx, snapshotKey(email)).Err(); err != nil {
		log.Printf("events: drop eligibility snapshot for %s: %v", email, err)
	}
}
