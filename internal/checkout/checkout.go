package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/mascotia/storefront/internal/domain"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// Session is the hosted payment session the customer is redirected to.
type Session struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type sessionRequest struct {
	ClientReference string                  `json:"client_reference"`
	Snapshot        domain.CheckoutSnapshot `json:"snapshot"`
}

// Service hands the cart off to the hosted payment processor. It owns
// session creation only; payment capture and webhooks stay with the
// processor. Calls go through a circuit breaker so a struggling payment
// host fails fast instead of piling up requests.
type Service struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*Session]
	logger  *zap.Logger
}

func NewService(baseURL string, logger *zap.Logger) *Service {
	settings := gobreaker.Settings{
		Name:    "payment-host",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("payment host breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Service{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker[*Session](settings),
		logger:  logger,
	}
}

// InitiateCheckout snapshots the cart with resolved effective unit
// prices and asks the payment host for a checkout session.
func (s *Service) InitiateCheckout(ctx context.Context, sessionID string, items []domain.LineItem) (*Session, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	request := sessionRequest{
		ClientReference: sessionID,
		Snapshot:        domain.NewCheckoutSnapshot(items),
	}

	return s.breaker.Execute(func() (*Session, error) {
		return s.createSession(ctx, request)
	})
}

func (s *Service) createSession(ctx context.Context, request sessionRequest) (*Session, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal checkout request failed: %w", err)
	}

	url := s.baseURL + "/v1/checkout/sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build checkout request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment host unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("payment host returned status %d: %s", resp.StatusCode, payload)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode checkout session failed: %w", err)
	}
	if session.URL == "" {
		return nil, errors.New("payment host returned no redirect URL")
	}

	return &session, nil
}
