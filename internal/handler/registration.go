package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aibf/conference-registration/internal/backend"
	"github.com/aibf/conference-registration/internal/fees"
	"github.com/aibf/conference-registration/internal/middleware"
	"github.com/aibf/conference-registration/internal/repository"
	"github.com/aibf/conference-registration/internal/workflow"
)

// BankDetails are the fixed transfer instructions shown in the confirming
// phase.  Payment itself happens out of band; an admin marks it received.
type BankDetails struct {
	AccountName   string `json:"account_name"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	BSB           string `json:"bsb"`
}

var aibfBankDetails = BankDetails{
	AccountName:   "AIBF",
	BankName:      "ANZ Bank",
	AccountNumber: "412910238",
	BSB:           "013 148",
}

// RegistrationHandler exposes the two-phase registration workflow over
// HTTP.  Every route requires a session; the email claim keys the workflow.
type RegistrationHandler struct {
	Manager *workflow.Manager
}

func NewRegistrationHandler(m *workflow.Manager) *RegistrationHandler {
	return &RegistrationHandler{Manager: m}
}

// quoteResp echoes the count-synced form back together with its price, so
// the client can redraw roster slots and the itemized total from one call.
type quoteResp struct {
	Form   workflow.Form `json:"form"`
	Quote  fees.Quote    `json:"quote"`
	Priced bool          `json:"priced"`
}

type stateResp struct {
	Phase workflow.Phase  `json:"phase"`
	Draft *workflow.Draft `json:"draft,omitempty"`
	Bank  *BankDetails    `json:"bank_details,omitempty"`
}

// Quote handles POST registration/quote: the per-keystroke recompute.
// Nothing is persisted.  An unknown package is not an HTTP failure — the
// form is still synced and returned, just with priced=false.
func (h *RegistrationHandler) Quote(c echo.Context) error {
	var f workflow.Form
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	f2, q, err := h.Manager.Quote(f)
	if err != nil && !errors.Is(err, fees.ErrUnknownPackage) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "pricing failed"})
	}
	return c.JSON(http.StatusOK, quoteResp{Form: f2, Quote: q, Priced: err == nil})
}

// State handles GET registration: phase plus draft after a reload.  The
// bank details ride along whenever the session is in confirming, so the
// page can be rebuilt from this one response.
func (h *RegistrationHandler) State(c echo.Context) error {
	email, ok := middleware.SessionEmail(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	st, err := h.Manager.State(ctx, email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load registration state failed"})
	}
	resp := stateResp{Phase: st.Phase, Draft: st.Draft}
	if st.Phase == workflow.PhaseConfirming {
		bd := aibfBankDetails
		resp.Bank = &bd
	}
	return c.JSON(http.StatusOK, resp)
}

// SubmitDetails handles POST registration/details: the collecting→
// confirming transition.  Validation failures come back as a field map
// with 422 and nothing stored.
func (h *RegistrationHandler) SubmitDetails(c echo.Context) error {
	email, ok := middleware.SessionEmail(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session required"})
	}
	var f workflow.Form
	if err := c.Bind(&f); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d, err := h.Manager.SubmitDetails(ctx, email, f)
	if err != nil {
		var fe workflow.FieldErrors
		switch {
		case errors.As(err, &fe):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": fe})
		case errors.Is(err, workflow.ErrNoActiveEvent):
			return c.JSON(http.StatusConflict, echo.Map{"error": "registration is closed"})
		default:
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "could not reach registration service"})
		}
	}
	bd := aibfBankDetails
	return c.JSON(http.StatusCreated, stateResp{Phase: workflow.PhaseConfirming, Draft: &d, Bank: &bd})
}

// Complete handles POST registration/complete: submit the persisted draft.
// The error mapping mirrors the workflow contract — in-flight and duplicate
// are 409s, a missing draft is 404, anything else is a retryable 502 with
// the draft intact.
func (h *RegistrationHandler) Complete(c echo.Context) error {
	email, ok := middleware.SessionEmail(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	created, err := h.Manager.Complete(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrSubmissionInFlight):
			return c.JSON(http.StatusConflict, echo.Map{"error": "a submission is already in progress"})
		case errors.Is(err, repository.ErrNoDraft):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no registration in progress"})
		case errors.Is(err, backend.ErrDuplicateRegistration):
			return c.JSON(http.StatusConflict, echo.Map{"error": "already registered for this event", "terminal": true})
		default:
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "submission failed, please retry", "retryable": true})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"registration": created})
}

// Abandon handles DELETE registration: discard the draft and leave the flow.
func (h *RegistrationHandler) Abandon(c echo.Context) error {
	email, ok := middleware.SessionEmail(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "session required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Manager.Abandon(ctx, email); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "abandon failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
