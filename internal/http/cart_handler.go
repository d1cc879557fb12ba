package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mascotia/storefront/internal/domain"
	"github.com/mascotia/storefront/internal/session"
)

const maxQuantity = 99

type CartHandler struct {
	sessions *session.Registry
	logger   *zap.Logger
}

func NewCartHandler(sessions *session.Registry, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		logger:   logger,
	}
}

type AddItemRequestDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"salePrice,omitempty"`
	Image     string   `json:"image"`
	Quantity  int      `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items    []domain.LineItem `json:"items"`
	Count    int               `json:"count"`
	Subtotal float64           `json:"subtotal"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	s := h.sessions.Get(r.Context(), sessionID)
	respondJSON(w, http.StatusOK, h.cartResponse(s.Items()))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must not be empty")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name must not be empty")
		return
	}
	if req.Price < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must be non-negative")
		return
	}
	if req.SalePrice != nil && *req.SalePrice < 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "salePrice must be non-negative")
		return
	}
	if req.Quantity < 1 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	s := h.sessions.Get(r.Context(), sessionID)
	s.AddItem(r.Context(), domain.LineItem{
		ID:        req.ID,
		Name:      req.Name,
		Price:     req.Price,
		SalePrice: req.SalePrice,
		Image:     req.Image,
	}, req.Quantity)

	h.logger.Debug("item added to cart",
		zap.String("product_id", req.ID),
		zap.String("request_id", getRequestID(r.Context())))

	respondJSON(w, http.StatusCreated, h.cartResponse(s.Items()))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must not be empty")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Quantity below 1 means removal, deliberately not rejected.
	if req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must not exceed 99")
		return
	}

	s := h.sessions.Get(r.Context(), sessionID)
	s.UpdateQuantity(r.Context(), productID, req.Quantity)

	respondJSON(w, http.StatusOK, h.cartResponse(s.Items()))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must not be empty")
		return
	}

	s := h.sessions.Get(r.Context(), sessionID)
	s.RemoveItem(r.Context(), productID)

	respondJSON(w, http.StatusOK, h.cartResponse(s.Items()))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session", "no cart session")
		return
	}

	s := h.sessions.Get(r.Context(), sessionID)
	s.Clear(r.Context())

	respondJSON(w, http.StatusOK, h.cartResponse(s.Items()))
}

func (h *CartHandler) cartResponse(items []domain.LineItem) CartResponseDTO {
	return CartResponseDTO{
		Items:    items,
		Count:    domain.Count(items),
		Subtotal: domain.Subtotal(items),
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
