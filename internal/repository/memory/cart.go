package memory

import (
	"context"
	"sync"

	"github.com/utafrali/patatpalace/internal/domain"
	"github.com/utafrali/patatpalace/internal/repository"
	apperrors "github.com/utafrali/patatpalace/pkg/errors"
)

// CartRepository keeps encoded carts in process memory. It stores the same
// bytes the Redis repository would, so decoding behaves identically.
type CartRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewCartRepository creates an empty in-memory cart repository.
func NewCartRepository() *CartRepository {
	return &CartRepository{data: make(map[string][]byte)}
}

// Get retrieves the cart of a session.
func (r *CartRepository) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	r.mu.RLock()
	raw, ok := r.data[repository.Key(sessionID)]
	r.mu.RUnlock()

	if !ok {
		return nil, apperrors.NotFound("cart", sessionID)
	}
	return repository.Decode(sessionID, raw)
}

// Save stores the cart, replacing any previous value.
func (r *CartRepository) Save(_ context.Context, cart *domain.Cart) error {
	raw, err := repository.Encode(cart)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.data[repository.Key(cart.SessionID)] = raw
	r.mu.Unlock()
	return nil
}

// Delete removes the cart of a session.
func (r *CartRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.data, repository.Key(sessionID))
	r.mu.Unlock()
	return nil
}

// Put stores raw bytes under a session key, bypassing encoding.
func (r *CartRepository) Put(sessionID string, raw []byte) {
	r.mu.Lock()
	r.data[repository.Key(sessionID)] = raw
	r.mu.Unlock()
}

// Len returns the number of stored carts.
func (r *CartRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
