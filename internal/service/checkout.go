package service

import (
	"context"
	"log/slog"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/utafrali/patatpalace/internal/domain"
	apperrors "github.com/utafrali/patatpalace/pkg/errors"
	"github.com/utafrali/patatpalace/pkg/validator"
)

// CheckoutInput is the checkout form.
type CheckoutInput struct {
	Name          string               `json:"name" validate:"nonblank,max=200"`
	Phone         string               `json:"phone" validate:"nonblank,max=50"`
	Address       string               `json:"address" validate:"max=500"`
	Notes         string               `json:"notes" validate:"max=1000"`
	PaymentMethod domain.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash bank"`
}

var checkoutMessages = map[string]string{
	"name":           "Vul uw naam in.",
	"phone":          "Vul uw telefoonnummer in.",
	"address":        "Het adres is te lang.",
	"notes":          "De opmerking is te lang.",
	"payment_method": "Kies een geldige betaalmethode.",
}

// BankDetails is the account customers pay to when choosing bank transfer.
type BankDetails struct {
	AccountName string
	IBAN        string
}

// RandomOrderNumber draws an order number uniformly from
// [domain.MinOrderNumber, domain.MaxOrderNumber].
func RandomOrderNumber() int {
	return domain.MinOrderNumber + rand.Intn(domain.MaxOrderNumber-domain.MinOrderNumber+1)
}

type checkoutSession struct {
	flow      domain.CheckoutFlow
	updatedAt time.Time
}

// CheckoutService runs the cart → checkout → confirmed flow. Flows live in
// process memory only; no order is stored.
type CheckoutService struct {
	carts       *CartService
	producer    EventPublisher
	logger      *slog.Logger
	bank        BankDetails
	orderNumber func() int
	now         func() time.Time

	mu    sync.Mutex
	flows map[string]*checkoutSession
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(carts *CartService, producer EventPublisher, logger *slog.Logger, bank BankDetails) *CheckoutService {
	return &CheckoutService{
		carts:       carts,
		producer:    producer,
		logger:      logger,
		bank:        bank,
		orderNumber: RandomOrderNumber,
		now:         time.Now,
		flows:       make(map[string]*checkoutSession),
	}
}

// Begin snapshots the session's cart into an order summary and moves the
// flow to the checkout state. The cart is not modified. Beginning again
// replaces the previous summary.
func (s *CheckoutService) Begin(ctx context.Context, sessionID string) (domain.CheckoutFlow, error) {
	cart, err := s.carts.GetCart(ctx, sessionID)
	if err != nil {
		return domain.CheckoutFlow{}, err
	}
	summary := domain.NewOrderSummary(cart)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &checkoutSession{
		flow:      domain.CheckoutFlow{State: domain.FlowCheckout, Summary: &summary},
		updatedAt: s.now(),
	}
	s.flows[sessionID] = sess

	s.logger.InfoContext(ctx, "checkout started",
		slog.Int("item_count", summary.ItemCount),
		slog.String("total", summary.Total),
	)

	return sess.flow, nil
}

// Submit confirms the order. It is only valid while the flow is in the
// checkout state. On success the cart is cleared and the confirmation holds
// the order number, the summary taken at Begin and the form echo.
func (s *CheckoutService) Submit(ctx context.Context, sessionID string, input CheckoutInput) (*domain.Confirmation, error) {
	s.mu.Lock()
	sess, ok := s.flows[sessionID]
	if !ok || sess.flow.State != domain.FlowCheckout {
		s.mu.Unlock()
		return nil, apperrors.Conflict("checkout has not been started")
	}
	if err := validator.Validate(input); err != nil {
		s.mu.Unlock()
		return nil, firstFailure(err, checkoutMessages)
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = domain.PaymentCash
	}

	conf := &domain.Confirmation{
		OrderNumber: s.orderNumber(),
		Summary:     *sess.flow.Summary,
		Customer: domain.Customer{
			Name:    input.Name,
			Phone:   input.Phone,
			Address: input.Address,
			Notes:   input.Notes,
		},
		PaymentMethod: input.PaymentMethod,
		ConfirmedAt:   s.now().UTC(),
	}
	if conf.PaymentMethod == domain.PaymentBank {
		conf.BankTransfer = &domain.BankTransfer{
			AccountName: s.bank.AccountName,
			IBAN:        s.bank.IBAN,
			Amount:      conf.Summary.Total,
			Reference:   strconv.Itoa(conf.OrderNumber),
		}
	}

	sess.flow = domain.CheckoutFlow{State: domain.FlowConfirmed, Confirmation: conf}
	sess.updatedAt = s.now()
	s.mu.Unlock()

	if _, err := s.carts.ClearCart(ctx, sessionID); err != nil {
		return nil, err
	}

	ordersConfirmedTotal.WithLabelValues(string(conf.PaymentMethod)).Inc()
	if err := s.producer.PublishCheckoutConfirmed(ctx, sessionID, conf); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.confirmed event",
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order confirmed",
		slog.Int("order_number", conf.OrderNumber),
		slog.String("payment_method", string(conf.PaymentMethod)),
		slog.String("total", conf.Summary.Total),
	)

	return conf, nil
}

// Status returns the session's flow. A session that never began checkout,
// or closed it, is in the cart state.
func (s *CheckoutService) Status(_ context.Context, sessionID string) domain.CheckoutFlow {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.flows[sessionID]; ok {
		return sess.flow
	}
	return domain.CheckoutFlow{State: domain.FlowCart}
}

// Close returns the session to the cart state and drops any confirmation.
func (s *CheckoutService) Close(_ context.Context, sessionID string) domain.CheckoutFlow {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.flows, sessionID)
	return domain.CheckoutFlow{State: domain.FlowCart}
}

// Sweep drops flows untouched for longer than maxAge and returns how many
// were removed.
func (s *CheckoutService) Sweep(maxAge time.Duration) int {
	cutoff := s.now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.flows {
		if sess.updatedAt.Before(cutoff) {
			delete(s.flows, id)
			removed++
		}
	}
	return removed
}
