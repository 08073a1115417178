package repository

import (
	"context"
	"errors"

	"github.com/utafrali/patatpalace/internal/domain"
)

// KeyPrefix namespaces persisted carts; the full key is KeyPrefix + session ID.
const KeyPrefix = "patatCart:"

// ErrMalformed is returned when a persisted cart cannot be decoded.
var ErrMalformed = errors.New("malformed persisted cart")

// CartRepository defines the interface for cart persistence operations.
type CartRepository interface {
	// Get retrieves the cart of a session. A missing cart is reported as
	// apperrors.ErrNotFound and an undecodable one as ErrMalformed.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save writes the full cart, overwriting any previous state.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the cart of a session.
	Delete(ctx context.Context, sessionID string) error
}

// Key returns the storage key for a session.
func Key(sessionID string) string {
	return KeyPrefix + sessionID
}
