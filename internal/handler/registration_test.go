package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibf/conference-registration/internal/backend"
	"github.com/aibf/conference-registration/internal/fees"
	"github.com/aibf/conference-registration/internal/model"
	"github.com/aibf/conference-registration/internal/repository"
	"github.com/aibf/conference-registration/internal/workflow"
)

// scriptedService fakes the backend for registration handler tests.
type scriptedService struct {
	createErr error
}

func (s *scriptedService) LatestEvent(ctx context.Context, email string) (model.Event, error) {
	return model.Event{ID: 42, Name: "AIBF Conference 2025"}, nil
}

func (s *scriptedService) CreateRegistration(ctx context.Context, reg model.Registration, clientRef string) (model.Registration, error) {
	if s.createErr != nil {
		return model.Registration{}, s.createErr
	}
	reg.ID = 1001
	return reg, nil
}

func newRegistrationHandler(svc *scriptedService) *RegistrationHandler {
	m := workflow.NewManager(repository.NewMemoryDraftRepository(), fees.NewEngine(), svc, nil, nil)
	return NewRegistrationHandler(m)
}

// call invokes an echo handler directly with a signed-in session.
func call(t *testing.T, h echo.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("email", "jane@example.com")
	require.NoError(t, h(c))
	return rec
}

const detailsBody = `{
	"package_id": "4-day",
	"counts": {"adults": 1},
	"roster": {"adults": ["John Doe"]},
	"home_region": "Victoria",
	"email": "jane@example.com"
}`

func TestQuoteEndpoint(t *testing.T) {
	h := newRegistrationHandler(&scriptedService{})
	rec := call(t, h.Quote, http.MethodPost, detailsBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Quote  fees.Quote `json:"quote"`
		Priced bool       `json:"priced"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Priced)
	// Two adults on the discounted 4-day package plus the Victorian fee.
	assert.Equal(t, int64(2*33800/2+10000), resp.Quote.TotalCents)
}

func TestQuoteEndpointUnknownPackage(t *testing.T) {
	h := newRegistrationHandler(&scriptedService{})
	rec := call(t, h.Quote, http.MethodPost, `{"package_id":"bogus"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Priced bool `json:"priced"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Priced, "an unknown package must mark the quote invalid, not fail the request")
}

func TestSubmitDetailsValidation(t *testing.T) {
	h := newRegistrationHandler(&scriptedService{})
	rec := call(t, h.SubmitDetails, http.MethodPost,
		`{"package_id":"","counts":{"adults":1},"roster":{"adults":["J"]}}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "package_id")
	assert.Contains(t, resp.Fields, "adult[0]")
}

func TestRegistrationFlow(t *testing.T) {
	h := newRegistrationHandler(&scriptedService{})

	// Before anything is submitted the session is collecting, no bank
	// details shown.
	rec := call(t, h.State, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st struct {
		Phase string       `json:"phase"`
		Bank  *BankDetails `json:"bank_details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "collecting", st.Phase)
	assert.Nil(t, st.Bank)

	// Details submit moves to confirming and returns the transfer details.
	rec = call(t, h.SubmitDetails, http.MethodPost, detailsBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "confirming", st.Phase)
	require.NotNil(t, st.Bank)
	assert.Equal(t, "AIBF", st.Bank.AccountName)
	assert.Equal(t, "013 148", st.Bank.BSB)

	// A reload sees the same phase and details.
	rec = call(t, h.State, http.MethodGet, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "confirming", st.Phase)
	require.NotNil(t, st.Bank)

	// Complete submits the draft and resets the flow.
	rec = call(t, h.Complete, http.MethodPost, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":1001`)

	rec = call(t, h.State, http.MethodGet, "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "collecting", st.Phase)
}

func TestCompleteWithoutDraftIs404(t *testing.T) {
	h := newRegistrationHandler(&scriptedService{})
	rec := call(t, h.Complete, http.MethodPost, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompleteDuplicateIs409(t *testing.T) {
	svc := &scriptedService{}
	h := newRegistrationHandler(svc)
	rec := call(t, h.SubmitDetails, http.MethodPost, detailsBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	svc.createErr = backend.ErrDuplicateRegistration
	rec = call(t, h.Complete, http.MethodPost, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"terminal":true`)
}

func TestCompleteBackendFailureIs502(t *testing.T) {
	svc := &scriptedService{}
	h := newRegistrationHandler(svc)
	rec := call(t, h.SubmitDetails, http.MethodPost, detailsBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	svc.createErr = backend.ErrSubmissionFailed
	rec = call(t, h.Complete, http.MethodPost, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"retryable":true`)

	// The draft survived; the session is still confirming.
	rec = call(t, h.State, http.MethodGet, "")
	assert.Contains(t, rec.Body.String(), `"confirming"`)
}

func TestAbandon(t *testing.T) {
	h := newRegistrationHandler(&scriptedService{})
	rec := call(t, h.SubmitDetails, http.MethodPost, detailsBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(t, h.Abandon, http.MethodDelete, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, h.State, http.MethodGet, "")
	assert.Contains(t, rec.Body.String(), `"collecting"`)
}

func TestRegistrationEndpointsRequireSession(t *testing.T) {
	h := newRegistrationHandler(&scriptedService{})
	e := echo.New()
	for _, fn := range []echo.HandlerFunc{h.State, h.SubmitDetails, h.Complete, h.Abandon} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		require.NoError(t, fn(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}
