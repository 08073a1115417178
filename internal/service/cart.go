package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/utafrali/patatpalace/internal/domain"
	"github.com/utafrali/patatpalace/internal/notice"
	"github.com/utafrali/patatpalace/internal/repository"
	apperrors "github.com/utafrali/patatpalace/pkg/errors"
)

// StorageWarning is shown when a cart could not be written to storage.
const StorageWarning = "Uw bestelling kon niet worden opgeslagen. Wijzigingen gaan mogelijk verloren."

// ProductLookup resolves catalog entries by ID.
type ProductLookup interface {
	Get(id string) (domain.Product, error)
}

// Notifier shows transient messages to a session.
type Notifier interface {
	Show(sessionID string, slot notice.Slot, level notice.Level, message string, ttl time.Duration) uint64
}

// EventPublisher publishes storefront domain events.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, cart *domain.Cart) error
	PublishCartCleared(ctx context.Context, sessionID string) error
	PublishCheckoutConfirmed(ctx context.Context, sessionID string, conf *domain.Confirmation) error
}

// CartConfig holds the message timings of the cart service.
type CartConfig struct {
	// CartNoticeTTL is how long the "added to order" notification stays.
	CartNoticeTTL time.Duration
	// WarningTTL is how long a storage warning stays.
	WarningTTL time.Duration
}

// DefaultCartConfig returns the timings used by the shop page.
func DefaultCartConfig() CartConfig {
	return CartConfig{
		CartNoticeTTL: 3 * time.Second,
		WarningTTL:    5 * time.Second,
	}
}

type cartSession struct {
	mu       sync.Mutex
	cart     *domain.Cart
	loaded   bool
	dirty    bool
	evicted  bool
	lastSeen time.Time
}

// CartService implements the cart engine. The in-memory cart of a session is
// authoritative; storage is written after every mutation and read once, on
// first access.
type CartService struct {
	repo     repository.CartRepository
	catalog  ProductLookup
	notices  Notifier
	producer EventPublisher
	logger   *slog.Logger
	cfg      CartConfig
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*cartSession
}

// NewCartService creates a new cart service.
func NewCartService(
	repo repository.CartRepository,
	catalog ProductLookup,
	notices Notifier,
	producer EventPublisher,
	logger *slog.Logger,
	cfg CartConfig,
) *CartService {
	return &CartService{
		repo:     repo,
		catalog:  catalog,
		notices:  notices,
		producer: producer,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*cartSession),
	}
}

// ParseQuantity converts quantity-field text to an integer. Text that does
// not start with a number yields 1; a leading integer is used as-is, so "0"
// and negative values are kept and remove the item. Positive values are
// capped at domain.MaxQuantity.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 1
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			if s[0] == '-' {
				return 0
			}
			return domain.MaxQuantity
		}
		return 1
	}
	return domain.ClampQuantity(n)
}

// GetCart returns a copy of the session's cart, loading it from storage on
// first access.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	return sess.cart.Clone(), nil
}

// AddToCart adds quantity units of a catalog product. An existing row is
// increased in place; a new product is appended with its price taken from
// the catalog text. Quantities below 1 count as 1 and a row never exceeds
// domain.MaxQuantity.
func (s *CartService) AddToCart(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	product, err := s.catalog.Get(productID)
	if err != nil {
		s.logger.WarnContext(ctx, "product not found",
			slog.String("product_id", productID),
		)
		return nil, err
	}
	quantity = domain.ClampQuantity(max(quantity, 1))

	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	cart := sess.cart
	if idx := cart.FindItemIndex(productID); idx >= 0 {
		cart.Items[idx].Quantity = domain.ClampQuantity(cart.Items[idx].Quantity + quantity)
	} else {
		cart.Items = append(cart.Items, domain.LineItem{
			ID:        product.ID,
			Name:      product.Name,
			UnitPrice: domain.ExtractPrice(product.Price),
			Quantity:  quantity,
			Image:     product.Image,
		})
	}

	s.commit(ctx, sess, "add")
	s.notices.Show(sessionID, notice.SlotCart, notice.LevelInfo,
		fmt.Sprintf("%s toegevoegd aan bestelling.", product.Name), s.cfg.CartNoticeTTL)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
		slog.String("total", cart.Total.StringFixed(2)),
	)

	return cart.Clone(), nil
}

// UpdateQuantity sets the quantity of a row, capped at domain.MaxQuantity.
// A quantity of zero or less removes the row. A product that is not in the cart is ignored.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	s.setQuantity(ctx, sess, productID, quantity, "update")
	return sess.cart.Clone(), nil
}

// Increment raises the quantity of a row by one, up to domain.MaxQuantity.
func (s *CartService) Increment(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if idx := sess.cart.FindItemIndex(productID); idx >= 0 && sess.cart.Items[idx].Quantity < domain.MaxQuantity {
		s.setQuantity(ctx, sess, productID, sess.cart.Items[idx].Quantity+1, "increment")
	}
	return sess.cart.Clone(), nil
}

// Decrement lowers the quantity of a row by one. It never goes below 1;
// removing a row takes an explicit remove or a quantity of zero.
func (s *CartService) Decrement(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if idx := sess.cart.FindItemIndex(productID); idx >= 0 && sess.cart.Items[idx].Quantity > 1 {
		s.setQuantity(ctx, sess, productID, sess.cart.Items[idx].Quantity-1, "decrement")
	}
	return sess.cart.Clone(), nil
}

// RemoveFromCart deletes a row. Removing an absent product is a no-op.
func (s *CartService) RemoveFromCart(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	s.remove(ctx, sess, productID)
	return sess.cart.Clone(), nil
}

// ClearCart empties the cart and removes it from storage.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	sess.cart.Items = []domain.LineItem{}
	sess.cart.Recalculate()
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		s.persistFailed(ctx, sess, "clear", err)
	} else {
		sess.dirty = false
	}
	cartOperationsTotal.WithLabelValues("clear").Inc()

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared")
	return sess.cart.Clone(), nil
}

// Sweep forgets the in-memory carts of sessions idle for longer than
// maxIdle. Carts whose last write failed are kept, since storage does not
// hold their current state. It returns the number of sessions removed.
func (s *CartService) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		if !sess.dirty && sess.lastSeen.Before(cutoff) {
			sess.evicted = true
			delete(s.sessions, id)
			removed++
		}
		sess.mu.Unlock()
	}
	return removed
}

// session returns the locked state of sessionID, loading it on first use.
// The caller must unlock sess.mu.
func (s *CartService) session(ctx context.Context, sessionID string) (*cartSession, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	var sess *cartSession
	for {
		s.mu.Lock()
		var ok bool
		sess, ok = s.sessions[sessionID]
		if !ok {
			sess = &cartSession{}
			s.sessions[sessionID] = sess
		}
		s.mu.Unlock()

		sess.mu.Lock()
		if !sess.evicted {
			break
		}
		// Swept between lookup and lock; retry with a fresh entry.
		sess.mu.Unlock()
	}

	sess.lastSeen = s.now()
	if !sess.loaded {
		sess.cart = s.load(ctx, sessionID)
		sess.loaded = true
	}
	return sess, nil
}

// load reads the persisted cart. Missing, malformed and unreadable state all
// yield an empty cart; only the last two are logged.
func (s *CartService) load(ctx context.Context, sessionID string) *domain.Cart {
	cart, err := s.repo.Get(ctx, sessionID)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNotFound):
		return domain.NewCart(sessionID)
	case errors.Is(err, repository.ErrMalformed):
		s.logger.WarnContext(ctx, "discarding malformed persisted cart",
			slog.String("error", err.Error()),
		)
		return domain.NewCart(sessionID)
	default:
		cartPersistFailuresTotal.WithLabelValues("read").Inc()
		s.logger.WarnContext(ctx, "failed to read persisted cart, starting empty",
			slog.String("error", err.Error()),
		)
		return domain.NewCart(sessionID)
	}

	stored := cart.Total
	cart.Recalculate()
	if !stored.Equal(cart.Total) {
		s.logger.WarnContext(ctx, "persisted cart total did not match items, recomputed",
			slog.String("stored_total", stored.String()),
			slog.String("total", cart.Total.String()),
		)
	}
	return cart
}

func (s *CartService) setQuantity(ctx context.Context, sess *cartSession, productID string, quantity int, op string) {
	idx := sess.cart.FindItemIndex(productID)
	if idx < 0 {
		return
	}
	if quantity <= 0 {
		s.remove(ctx, sess, productID)
		return
	}
	sess.cart.Items[idx].Quantity = domain.ClampQuantity(quantity)
	s.commit(ctx, sess, op)
}

func (s *CartService) remove(ctx context.Context, sess *cartSession, productID string) {
	idx := sess.cart.FindItemIndex(productID)
	if idx < 0 {
		return
	}
	items := make([]domain.LineItem, 0, len(sess.cart.Items)-1)
	items = append(items, sess.cart.Items[:idx]...)
	items = append(items, sess.cart.Items[idx+1:]...)
	sess.cart.Items = items
	s.commit(ctx, sess, "remove")
}

// commit recomputes the total, persists the cart and publishes the update.
func (s *CartService) commit(ctx context.Context, sess *cartSession, op string) {
	sess.cart.Recalculate()
	s.persist(ctx, sess, op)
	cartOperationsTotal.WithLabelValues(op).Inc()

	if err := s.producer.PublishCartUpdated(ctx, sess.cart.Clone()); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("error", err.Error()),
		)
	}
}

// persist writes the cart. A failed write leaves the in-memory cart in place
// and warns the session instead of failing the mutation.
func (s *CartService) persist(ctx context.Context, sess *cartSession, op string) {
	if err := s.repo.Save(ctx, sess.cart.Clone()); err != nil {
		s.persistFailed(ctx, sess, op, err)
		return
	}
	sess.dirty = false
}

func (s *CartService) persistFailed(ctx context.Context, sess *cartSession, op string, err error) {
	sess.dirty = true
	cartPersistFailuresTotal.WithLabelValues("write").Inc()
	s.logger.WarnContext(ctx, "failed to persist cart",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	s.notices.Show(sess.cart.SessionID, notice.SlotStorage, notice.LevelWarning, StorageWarning, s.cfg.WarningTTL)
}
