package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/patatpalace/internal/domain"
	"github.com/utafrali/patatpalace/internal/notice"
	"github.com/utafrali/patatpalace/internal/sender"
	apperrors "github.com/utafrali/patatpalace/pkg/errors"
	"github.com/utafrali/patatpalace/pkg/validator"
)

// Contact form messages.
const (
	MsgNameRequired   = "Vul uw naam in."
	MsgEmailInvalid   = "Vul een geldig e-mailadres in."
	MsgMessageMissing = "Vul een bericht in."
	MsgSendFailed     = "Uw bericht kon niet worden verzonden. Probeer het later opnieuw."
)

// ContactInput is the contact form. Fields are checked in declaration order
// and only the first failure is reported.
type ContactInput struct {
	Name    string `json:"name" validate:"nonblank"`
	Email   string `json:"email" validate:"simple_email"`
	Message string `json:"message" validate:"nonblank"`
}

var contactMessages = map[string]string{
	"name":    MsgNameRequired,
	"email":   MsgEmailInvalid,
	"message": MsgMessageMissing,
}

// ContactConfig holds the contact form timings.
type ContactConfig struct {
	// SubmitDelay is the simulated sending time.
	SubmitDelay time.Duration
	// NoticeTTL is how long error and success messages stay.
	NoticeTTL time.Duration
}

// DefaultContactConfig returns the timings used by the shop page.
func DefaultContactConfig() ContactConfig {
	return ContactConfig{
		SubmitDelay: 1500 * time.Millisecond,
		NoticeTTL:   5 * time.Second,
	}
}

// ContactService validates the contact form and simulates sending it.
type ContactService struct {
	sender    sender.Sender
	notices   Notifier
	logger    *slog.Logger
	cfg       ContactConfig
	afterFunc notice.AfterFunc

	mu      sync.Mutex
	pending map[string]notice.Timer
	closed  bool
}

// NewContactService creates a new contact service.
func NewContactService(s sender.Sender, notices Notifier, logger *slog.Logger, cfg ContactConfig) *ContactService {
	return &ContactService{
		sender:  s,
		notices: notices,
		logger:  logger,
		cfg:     cfg,
		afterFunc: func(d time.Duration, f func()) notice.Timer {
			return time.AfterFunc(d, f)
		},
		pending: make(map[string]notice.Timer),
	}
}

// Validate checks the form and returns the first failure, or nil.
func (s *ContactService) Validate(input ContactInput) *ValidationFailure {
	if err := validator.Validate(input); err != nil {
		return firstFailure(err, contactMessages)
	}
	return nil
}

// Submit validates the form. An invalid form posts the first failure to the
// contact-error slot and returns it. A valid form marks the session busy and
// sends the message after the configured delay, then posts a thank-you to
// the contact-success slot. While busy, further submissions are rejected.
func (s *ContactService) Submit(ctx context.Context, sessionID string, input ContactInput) error {
	if fail := s.Validate(input); fail != nil {
		contactSubmissionsTotal.WithLabelValues("invalid").Inc()
		s.notices.Show(sessionID, notice.SlotContactError, notice.LevelError, fail.Message, s.cfg.NoticeTTL)
		s.logger.InfoContext(ctx, "contact form rejected", slog.String("field", fail.Field))
		return fail
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return apperrors.Unavailable("contact form is shutting down", nil)
	}
	if _, busy := s.pending[sessionID]; busy {
		return apperrors.Conflict("a message is already being sent")
	}

	msg := domain.ContactMessage{Name: input.Name, Email: input.Email, Message: input.Message}
	sendCtx := context.WithoutCancel(ctx)
	s.pending[sessionID] = s.afterFunc(s.cfg.SubmitDelay, func() {
		s.deliver(sendCtx, sessionID, msg)
	})

	s.logger.InfoContext(ctx, "contact form accepted")
	return nil
}

func (s *ContactService) deliver(ctx context.Context, sessionID string, msg domain.ContactMessage) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.pending, sessionID)
	s.mu.Unlock()

	if err := s.sender.Send(ctx, msg); err != nil {
		contactSubmissionsTotal.WithLabelValues("failed").Inc()
		s.logger.ErrorContext(ctx, "failed to send contact message",
			slog.String("sender", s.sender.Name()),
			slog.String("error", err.Error()),
		)
		s.notices.Show(sessionID, notice.SlotContactError, notice.LevelError, MsgSendFailed, s.cfg.NoticeTTL)
		return
	}

	contactSubmissionsTotal.WithLabelValues("sent").Inc()
	s.notices.Show(sessionID, notice.SlotContactSuccess, notice.LevelSuccess,
		fmt.Sprintf("Thank you %s! Your message has been sent successfully.", msg.Name), s.cfg.NoticeTTL)
	s.logger.InfoContext(ctx, "form submitted successfully", slog.String("sender", s.sender.Name()))
}

// Status reports the state of the session's submit control.
func (s *ContactService) Status(sessionID string) domain.ContactStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.pending[sessionID]; busy {
		return domain.ContactStatus{Busy: true, Label: domain.ContactLabelBusy}
	}
	return domain.ContactStatus{Label: domain.ContactLabelIdle}
}

// Shutdown cancels all pending submissions.
func (s *ContactService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
	s.closed = true
}
