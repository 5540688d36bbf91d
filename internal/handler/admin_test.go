package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibf/conference-registration/internal/backend"
)

func callSetPayment(t *testing.T, h *AdminHandler, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.SetPayment(c))
	return rec
}

func TestSetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/users/registrations/7/", r.URL.Path)
		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body["payment_received"])
	}))
	defer srv.Close()

	rec := callSetPayment(t, NewAdminHandler(backend.New(srv.URL)), "7", `{"received":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"payment_received":true`)
}

func TestSetPaymentBadID(t *testing.T) {
	h := NewAdminHandler(backend.New("http://127.0.0.1:0"))
	assert.Equal(t, http.StatusBadRequest, callSetPayment(t, h, "abc", `{"received":true}`).Code)
	assert.Equal(t, http.StatusBadRequest, callSetPayment(t, h, "0", `{"received":true}`).Code)
}

func TestSetPaymentUnknownRegistration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	rec := callSetPayment(t, NewAdminHandler(backend.New(srv.URL)), "99", `{"received":false}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
