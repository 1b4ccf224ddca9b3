package catalog

import (
	"context"

	"github.com/google/uuid"
)

// DishRepo defines the repository interface for dishes. Every lookup
// beyond Get is scoped to a household.
type DishRepo interface {
	Create(ctx context.Context, dish *Dish) error
	Get(ctx context.Context, id uuid.UUID) (*Dish, error)
	List(ctx context.Context, householdID uuid.UUID) ([]*Dish, error)
	Search(ctx context.Context, householdID uuid.UUID, query string) ([]*Dish, error)
	ListByTags(ctx context.Context, householdID uuid.UUID, tags []string) ([]*Dish, error)
	Save(ctx context.Context, dish *Dish) error
	Delete(ctx context.Context, id uuid.UUID) error
}
