package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entity is implemented by every record kind. Meta exposes the shared
// metadata so stores and the reconciliation engine can work on any kind
// without a type switch.
type Entity interface {
	Kind() Kind
	Meta() *Base
}

// Base holds the fields common to every record.
type Base struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Order     int       `json:"order"`      // Display rank; ties allowed.
	IsDeleted bool      `json:"is_deleted"` // Tombstone flag.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"` // Sole conflict-resolution signal.
}

// Meta returns b itself.
func (b *Base) Meta() *Base { return b }

// NewBase returns metadata for a fresh record owned by userID, with a new
// UUID v7 and both timestamps set to now.
func NewBase(userID string, order int, now time.Time) Base {
	return Base{
		ID:        NewID(),
		UserID:    userID,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewID generates a UUID v7 string, falling back to v4.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Touch advances UpdatedAt to now. When now does not lie after the current
// value, UpdatedAt moves forward by one microsecond instead, so the stamp
// strictly increases on every mutation.
func (b *Base) Touch(now time.Time) {
	if !now.After(b.UpdatedAt) {
		now = b.UpdatedAt.Add(time.Microsecond)
	}
	b.UpdatedAt = now
}

// Validate checks the invariants that hold for a single record in isolation.
// It returns an error wrapping ErrInvalidID or ErrInvalidData.
func Validate(e Entity) error {
	if e == nil {
		return fmt.Errorf("%w: nil entity", ErrInvalidData)
	}
	if e.Meta().ID == "" {
		return ErrInvalidID
	}
	switch v := e.(type) {
	case *Group:
		if v.ColorIndex < 0 || v.ColorIndex >= ColorCount {
			return fmt.Errorf("%w: color index %d out of range", ErrInvalidData, v.ColorIndex)
		}
	case *Note:
		if v.Content == nil {
			return fmt.Errorf("%w: note %s has no content", ErrInvalidData, v.ID)
		}
		if !v.Weather.Valid() {
			return fmt.Errorf("%w: unknown weather %d", ErrInvalidData, v.Weather)
		}
	case *Target:
		if !v.IsYearlyTarget && (v.Month < 1 || v.Month > 12) {
			return fmt.Errorf("%w: month %d out of range", ErrInvalidData, v.Month)
		}
	}
	return nil
}
