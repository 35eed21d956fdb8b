// Package session keeps per-visitor state (cart, flash message, admin flag)
// server-side, keyed by an opaque cookie id.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"sweetshop/internal/models"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Session is the state attached to one browser.
type Session struct {
	ID        string       `json:"id"`
	Cart      *models.Cart `json:"cart"`
	Flash     string       `json:"flash,omitempty"`
	Admin     bool         `json:"admin"`
	CreatedAt time.Time    `json:"created_at"`
}

// New returns a fresh session with an empty cart.
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		Cart:      models.NewCart(),
		CreatedAt: time.Now().UTC(),
	}
}

// Renew copies the session under a fresh id. The old id should be deleted
// from the store by the caller.
func (s *Session) Renew() *Session {
	renewed := *s
	renewed.ID = uuid.NewString()
	renewed.CreatedAt = time.Now().UTC()
	return &renewed
}

// TakeFlash returns and clears the pending flash message.
func (s *Session) TakeFlash() string {
	msg := s.Flash
	s.Flash = ""
	return msg
}

func (s *Session) normalize() {
	if s.Cart == nil {
		s.Cart = models.NewCart()
	}
	if s.Cart.Entries == nil {
		s.Cart.Entries = []models.CartEntry{}
	}
}

// Store persists sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
