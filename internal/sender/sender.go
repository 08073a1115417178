package sender

import (
	"context"

	"github.com/utafrali/patatpalace/internal/domain"
)

// Sender delivers a contact form message.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg domain.ContactMessage) error
}
