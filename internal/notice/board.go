package notice

import (
	"slices"
	"sync"
	"time"
)

// Slot identifies a place on the page where one transient message is shown.
// A slot holds at most one message per session.
type Slot string

const (
	SlotCart           Slot = "cart"
	SlotStorage        Slot = "storage"
	SlotContactError   Slot = "contact-error"
	SlotContactSuccess Slot = "contact-success"
)

var slotOrder = []Slot{SlotCart, SlotStorage, SlotContactError, SlotContactSuccess}

// Level is the visual severity of a notice.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a transient message.
type Notice struct {
	Slot      Slot      `json:"slot"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	ShownAt   time.Time `json:"shown_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Timer is the part of *time.Timer the board relies on.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type slotKey struct {
	session string
	slot    Slot
}

type entry struct {
	notice Notice
	token  uint64
	timer  Timer
}

// Board holds the transient messages of all sessions. Every slot owns its
// dismissal timer: showing a new message stops the previous timer, and a
// timer only removes the message it was scheduled for.
type Board struct {
	mu        sync.Mutex
	entries   map[slotKey]*entry
	seq       uint64
	closed    bool
	afterFunc AfterFunc
	now       func() time.Time
}

// Option configures a Board.
type Option func(*Board)

// WithAfterFunc replaces time.AfterFunc, mainly for tests.
func WithAfterFunc(fn AfterFunc) Option {
	return func(b *Board) { b.afterFunc = fn }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// NewBoard creates an empty board.
func NewBoard(opts ...Option) *Board {
	b := &Board{
		entries:   make(map[slotKey]*entry),
		afterFunc: realAfterFunc,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Show puts message into the session's slot, replacing whatever was there.
// With a positive ttl the message is dismissed after ttl; otherwise it stays
// until replaced or dismissed. The returned token identifies this message.
func (b *Board) Show(sessionID string, slot Slot, level Level, message string, ttl time.Duration) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0
	}

	k := slotKey{session: sessionID, slot: slot}
	if prev, ok := b.entries[k]; ok && prev.timer != nil {
		prev.timer.Stop()
	}

	b.seq++
	token := b.seq
	now := b.now()
	e := &entry{
		notice: Notice{Slot: slot, Level: level, Message: message, ShownAt: now},
		token:  token,
	}
	if ttl > 0 {
		e.notice.ExpiresAt = now.Add(ttl)
		e.timer = b.afterFunc(ttl, func() { b.expire(k, token) })
	}
	b.entries[k] = e

	return token
}

func (b *Board) expire(k slotKey, token uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if e, ok := b.entries[k]; ok && e.token == token {
		delete(b.entries, k)
	}
}

// Dismiss removes the session's message in slot, if any.
func (b *Board) Dismiss(sessionID string, slot Slot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	k := slotKey{session: sessionID, slot: slot}
	if e, ok := b.entries[k]; ok {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(b.entries, k)
	}
}

// Get returns the session's current message in slot.
func (b *Board) Get(sessionID string, slot Slot) (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.entries[slotKey{session: sessionID, slot: slot}]
	if !ok {
		return Notice{}, false
	}
	return e.notice, true
}

// Active returns the session's current messages in slot order.
func (b *Board) Active(sessionID string) []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Notice, 0, len(slotOrder))
	for _, slot := range slotOrder {
		if e, ok := b.entries[slotKey{session: sessionID, slot: slot}]; ok {
			out = append(out, e.notice)
		}
	}
	return out
}

// Shutdown stops every outstanding timer and clears the board. Later calls
// to Show are ignored.
func (b *Board) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for k, e := range b.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(b.entries, k)
	}
	b.closed = true
}

// Slots returns all known slots in display order.
func Slots() []Slot {
	return slices.Clone(slotOrder)
}
