package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibf/conference-registration/internal/backend"
	"github.com/aibf/conference-registration/internal/config"
	"github.com/aibf/conference-registration/internal/eligibility"
	"github.com/aibf/conference-registration/internal/model"
	"github.com/aibf/conference-registration/internal/utils"
)

// fakeBackend serves just enough of the backend API for events tests.
func fakeBackend(t *testing.T, events []model.Event, profile model.UserProfile) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/events/", func(w http.ResponseWriter, r *http.Request) {
		out := events
		if r.URL.Query().Get("email") == "" {
			// Anonymous lookups never see a personalized flag.
			out = make([]model.Event, len(events))
			copy(out, events)
			for i := range out {
				out[i].IsRegistered = false
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/users/9/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(profile)
	})
	return httptest.NewServer(mux)
}

func getLatest(t *testing.T, h *EventsHandler, token string) eventResp {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/events/latest", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h.GetLatest(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp eventResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGetLatestAnonymous(t *testing.T) {
	srv := fakeBackend(t, []model.Event{{ID: 42, Name: "AIBF Conference 2025"}}, model.UserProfile{})
	defer srv.Close()

	cfg := config.Config{RegistrationOpen: true, JWTSecret: "s"}
	h := NewEventsHandler(cfg, backend.New(srv.URL), nil, nil)

	resp := getLatest(t, h, "")
	require.NotNil(t, resp.Event)
	assert.Equal(t, uint64(42), resp.Event.ID)
	assert.Equal(t, eligibility.StatusNeedsLogin, resp.Eligibility.Status)
	assert.False(t, resp.Eligibility.CanRegister)
}

func TestGetLatestClosedOverridesEverything(t *testing.T) {
	srv := fakeBackend(t, []model.Event{{ID: 42}}, model.UserProfile{})
	defer srv.Close()

	cfg := config.Config{RegistrationOpen: false, JWTSecret: "s"}
	h := NewEventsHandler(cfg, backend.New(srv.URL), nil, nil)

	resp := getLatest(t, h, "")
	assert.Equal(t, eligibility.StatusClosed, resp.Eligibility.Status)
}

func TestGetLatestNoEventIsClosed(t *testing.T) {
	srv := fakeBackend(t, []model.Event{}, model.UserProfile{})
	defer srv.Close()

	cfg := config.Config{RegistrationOpen: true, JWTSecret: "s"}
	h := NewEventsHandler(cfg, backend.New(srv.URL), nil, nil)

	resp := getLatest(t, h, "")
	assert.Nil(t, resp.Event)
	assert.Equal(t, eligibility.StatusClosed, resp.Eligibility.Status)
}

func TestGetLatestSignedIn(t *testing.T) {
	complete := model.UserProfile{
		ID: 9, Email: "jane@example.com",
		Phone: "0400000000", Address: "1 Main St", City: "Brisbane", State: "QLD",
	}
	srv := fakeBackend(t, []model.Event{{ID: 42}}, complete)
	defer srv.Close()

	cfg := config.Config{RegistrationOpen: true, JWTSecret: "s"}
	h := NewEventsHandler(cfg, backend.New(srv.URL), nil, nil)

	tok, err := utils.NewSessionToken("s", 9, "jane@example.com", "Jane", 60)
	require.NoError(t, err)

	resp := getLatest(t, h, tok.Token)
	assert.Equal(t, eligibility.StatusOpen, resp.Eligibility.Status)
	assert.True(t, resp.Eligibility.CanRegister)
}

func TestGetLatestIncompleteProfile(t *testing.T) {
	srv := fakeBackend(t, []model.Event{{ID: 42}}, model.UserProfile{ID: 9, City: "Brisbane"})
	defer srv.Close()

	cfg := config.Config{RegistrationOpen: true, JWTSecret: "s"}
	h := NewEventsHandler(cfg, backend.New(srv.URL), nil, nil)

	tok, err := utils.NewSessionToken("s", 9, "jane@example.com", "Jane", 60)
	require.NoError(t, err)

	resp := getLatest(t, h, tok.Token)
	assert.Equal(t, eligibility.StatusNeedsProfile, resp.Eligibility.Status)
}

func TestGetLatestAlreadyRegistered(t *testing.T) {
	complete := model.UserProfile{
		ID: 9, Phone: "0400000000", Address: "1 Main St", City: "Brisbane", State: "QLD",
	}
	srv := fakeBackend(t, []model.Event{{ID: 42, IsRegistered: true}}, complete)
	defer srv.Close()

	cfg := config.Config{RegistrationOpen: true, JWTSecret: "s"}
	h := NewEventsHandler(cfg, backend.New(srv.URL), nil, nil)

	tok, err := utils.NewSessionToken("s", 9, "jane@example.com", "Jane", 60)
	require.NoError(t, err)

	resp := getLatest(t, h, tok.Token)
	assert.Equal(t, eligibility.StatusAlreadyRegistered, resp.Eligibility.Status)
	assert.False(t, resp.Eligibility.CanRegister)
}

// An invalid bearer must degrade to the anonymous view, never reject.
func TestGetLatestIgnoresBadToken(t *testing.T) {
	srv := fakeBackend(t, []model.Event{{ID: 42}}, model.UserProfile{})
	defer srv.Close()

	cfg := config.Config{RegistrationOpen: true, JWTSecret: "s"}
	h := NewEventsHandler(cfg, backend.New(srv.URL), nil, nil)

	resp := getLatest(t, h, "not-a-jwt")
	assert.Equal(t, eligibility.StatusNeedsLogin, resp.Eligibility.Status)
}
