package plan

import (
	"context"

	"github.com/google/uuid"
)

// EntryRepo defines the repository interface for meal-plan entries.
type EntryRepo interface {
	Create(ctx context.Context, entry *Entry) error
	Get(ctx context.Context, id uuid.UUID) (*Entry, error)
	// GetBySlot returns the entry occupying (household, day, slot),
	// or nil when the slot is free. Leftover write-offs do not occupy
	// slots and are never returned.
	GetBySlot(ctx context.Context, householdID uuid.UUID, day string, slot Slot) (*Entry, error)
	// ListByDays returns entries whose day key is in days.
	ListByDays(ctx context.Context, householdID uuid.UUID, days []string) ([]*Entry, error)
	// ListByDish returns entries referencing the given dish.
	ListByDish(ctx context.Context, householdID uuid.UUID, dishID uuid.UUID) ([]*Entry, error)
	// ListBySource returns entries whose source link points at sourceID.
	ListBySource(ctx context.Context, sourceID uuid.UUID) ([]*Entry, error)
	// ListEatenSources returns eaten, non-leftover, dish-referencing
	// entries for the household; the leftover candidate scan.
	ListEatenSources(ctx context.Context, householdID uuid.UUID) ([]*Entry, error)
	Save(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
}
