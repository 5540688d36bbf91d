package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aibf/conference-registration/internal/backend"
)

// AdminHandler proxies the administrative actions the backend exposes.
// Route-level guarding (allow-listed emails) happens in middleware.
type AdminHandler struct {
	Backend *backend.Client
}

func NewAdminHandler(b *backend.Client) *AdminHandler {
	return &AdminHandler{Backend: b}
}

type paymentReq struct {
	Received bool `json:"received"`
}

// SetPayment handles PATCH admin/registrations/:id/payment — the bank
// transfer is verified by a human against the account statement, then
// flagged here.
func (h *AdminHandler) SetPayment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid registration id"})
	}
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Backend.SetPaymentStatus(ctx, id, req.Received); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "update payment status failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "payment_received": req.Received})
}
