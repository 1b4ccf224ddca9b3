package plan

import (
	"context"
	"fmt"

	"github.com/pantryclub/mealplan/internal/catalog"
	"github.com/pantryclub/mealplan/pkg/event"

	"github.com/google/uuid"
)

// LeftoverSource pairs a cook event with its dish and the servings
// still available for reuse.
type LeftoverSource struct {
	Meal      *Entry        `json:"meal"`
	Dish      *catalog.Dish `json:"dish"`
	Available float64       `json:"available"`
}

// AvailableServings returns how many servings of the source meal's
// dish remain unconsumed: the dish yield minus everything eaten
// against it, by the source itself and by entries linked to it.
// Missing sources and missing dishes yield zero rather than an error.
func (l *Ledger) AvailableServings(ctx context.Context, sourceID uuid.UUID) (float64, error) {
	source, err := l.entries.Get(ctx, sourceID)
	if err != nil {
		return 0, fmt.Errorf("load source meal: %w", err)
	}
	if source == nil || !source.HasDish() {
		return 0, nil
	}

	dish, err := l.dishes.Get(ctx, *source.DishID)
	if err != nil {
		return 0, fmt.Errorf("load dish: %w", err)
	}
	if dish == nil {
		return 0, nil
	}

	return l.availableForSource(ctx, source, dish)
}

// availableForSource sums eaten servings across the source and every
// entry linked to it, one level deep, and clamps the remainder at zero.
func (l *Ledger) availableForSource(ctx context.Context, source *Entry, dish *catalog.Dish) (float64, error) {
	used := 0.0
	if source.Status == StatusEaten {
		used += source.ServingsUsed
	}

	linked, err := l.entries.ListBySource(ctx, source.ID)
	if err != nil {
		return 0, fmt.Errorf("list linked entries: %w", err)
	}
	for _, e := range linked {
		if e.Status == StatusEaten {
			used += e.ServingsUsed
		}
	}

	available := dish.Servings() - used
	if available < 0 {
		return 0, nil
	}
	return available, nil
}

// LeftoverSources scans the household's eaten, non-leftover,
// dish-referencing entries and returns those with servings still
// available. This is the candidate list offered when planning a meal
// as "reuse leftovers".
func (l *Ledger) LeftoverSources(ctx context.Context, householdID uuid.UUID) ([]LeftoverSource, error) {
	sources, err := l.entries.ListEatenSources(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("list eaten sources: %w", err)
	}

	var result []LeftoverSource
	for _, source := range sources {
		dish, err := l.dishes.Get(ctx, *source.DishID)
		if err != nil {
			return nil, fmt.Errorf("load dish: %w", err)
		}
		if dish == nil {
			continue
		}

		available, err := l.availableForSource(ctx, source, dish)
		if err != nil {
			return nil, err
		}
		if available > 0 {
			result = append(result, LeftoverSource{Meal: source, Dish: dish, Available: available})
		}
	}
	return result, nil
}

// VoidLeftovers writes off whatever remains of a source meal. When
// servings remain it inserts an eaten leftover entry dated today,
// named after the dish, consuming the remainder; afterwards
// AvailableServings reports zero. When nothing remains it creates
// nothing and returns nil.
func (l *Ledger) VoidLeftovers(ctx context.Context, sourceID uuid.UUID) (*Entry, error) {
	source, err := l.entries.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("load source meal: %w", err)
	}
	if source == nil || !source.HasDish() {
		return nil, nil
	}

	dish, err := l.dishes.Get(ctx, *source.DishID)
	if err != nil {
		return nil, fmt.Errorf("load dish: %w", err)
	}
	if dish == nil {
		return nil, nil
	}

	remaining, err := l.availableForSource(ctx, source, dish)
	if err != nil {
		return nil, err
	}
	if remaining <= 0 {
		return nil, nil
	}

	entry := NewCustomEntry(source.HouseholdID, TodayKey(l.loc), source.Slot, dish.Name+" (voided)", remaining)
	entry.Status = StatusEaten
	entry.IsLeftover = true
	entry.WriteOff = true
	entry.SourceMealID = &sourceID

	if err := l.entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create void entry: %w", err)
	}

	l.publishLifecycle(ctx, event.EventLeftoversVoided, entry)
	return entry, nil
}
