package http

import (
	"errors"
	"net/http"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/mascotia/storefront/internal/checkout"
	"github.com/mascotia/storefront/internal/session"
)

type CheckoutHandler struct {
	sessions *session.Registry
	checkout *checkout.Service
	logger   *zap.Logger
}

func NewCheckoutHandler(sessions *session.Registry, svc *checkout.Service, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		sessions: sessions,
		checkout: svc,
		logger:   logger,
	}
}

type CheckoutResponseDTO struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// InitiateCheckout hands the cart off to the payment host and returns
// the redirect URL. The cart itself is erased later, once the
// completed-order event comes back.
func (h *CheckoutHandler) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	s := h.sessions.Get(r.Context(), sessionID)

	result, err := h.checkout.InitiateCheckout(r.Context(), sessionID, s.Items())
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			respondError(w, http.StatusServiceUnavailable, "payment_unavailable", "payment host is unavailable, try again shortly")
		default:
			h.logger.Error("checkout initiation failed",
				zap.String("request_id", getRequestID(r.Context())), zap.Error(err))
			respondError(w, http.StatusBadGateway, "payment_error", "could not start checkout")
		}
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		SessionID: result.SessionID,
		URL:       result.URL,
	})
}
