package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pantryclub/mealplan/internal/catalog"
	"github.com/pantryclub/mealplan/pkg/event"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"
)

var (
	// ErrSlotTaken signals a duplicate (household, day, slot) plan.
	ErrSlotTaken = errors.New("meal slot is already planned")
	// ErrLeftoverChain signals an attempt to reuse a leftover entry as
	// a leftover source. The provenance chain is one level deep.
	ErrLeftoverChain = errors.New("leftover source must be a non-leftover entry")
	// ErrSourceNotFound signals a leftover link to a missing entry at
	// plan time. Established links that later dangle degrade to zero
	// availability instead.
	ErrSourceNotFound = errors.New("leftover source meal not found")
	// ErrEntryNotFound signals a mutation against a missing entry.
	ErrEntryNotFound = errors.New("meal plan entry not found")
)

// Ledger coordinates meal-plan entries: slot assignments, the status
// lifecycle, leftover accounting and the weekly shopping roll-up. All
// aggregates are re-derived from current ledger state on every read;
// nothing is counted incrementally.
type Ledger struct {
	entries   EntryRepo
	dishes    catalog.DishRepo
	publisher events.Publisher
	logger    apt.Logger
	loc       *time.Location
}

// NewLedger creates a Ledger. publisher may be nil; events are then
// dropped. loc defaults to the local time zone and controls day-key
// generation.
func NewLedger(entries EntryRepo, dishes catalog.DishRepo, publisher events.Publisher, logger apt.Logger, loc *time.Location) *Ledger {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Ledger{
		entries:   entries,
		dishes:    dishes,
		publisher: publisher,
		logger:    logger,
		loc:       loc,
	}
}

// PlanMealInput carries the arguments for planning one meal. Exactly
// one of DishID and CustomName must be set.
type PlanMealInput struct {
	HouseholdID  uuid.UUID  `json:"household_id"`
	Day          string     `json:"day"`
	Slot         Slot       `json:"slot"`
	DishID       *uuid.UUID `json:"dish_id,omitempty"`
	CustomName   string     `json:"custom_name,omitempty"`
	ServingsUsed float64    `json:"servings_used"`
	IsLeftover   bool       `json:"is_leftover"`
	SourceMealID *uuid.UUID `json:"source_meal_id,omitempty"`
}

// PlanMeal creates a new planned entry. The (household, day, slot)
// triple must be free, and a leftover link must point at a
// non-leftover entry.
func (l *Ledger) PlanMeal(ctx context.Context, in PlanMealInput) (*Entry, error) {
	existing, err := l.entries.GetBySlot(ctx, in.HouseholdID, in.Day, in.Slot)
	if err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if existing != nil {
		return nil, ErrSlotTaken
	}

	if in.SourceMealID != nil {
		source, err := l.entries.Get(ctx, *in.SourceMealID)
		if err != nil {
			return nil, fmt.Errorf("resolve source meal: %w", err)
		}
		if source == nil {
			return nil, ErrSourceNotFound
		}
		if source.IsLeftover {
			return nil, ErrLeftoverChain
		}
	}

	var entry *Entry
	if in.DishID != nil {
		entry = NewDishEntry(in.HouseholdID, in.Day, in.Slot, *in.DishID, in.ServingsUsed)
	} else {
		entry = NewCustomEntry(in.HouseholdID, in.Day, in.Slot, in.CustomName, in.ServingsUsed)
	}
	entry.IsLeftover = in.IsLeftover
	entry.SourceMealID = in.SourceMealID

	if err := l.entries.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	l.publishLifecycle(ctx, event.EventMealPlanned, entry)
	return entry, nil
}

// MarkEaten patches the entry status to eaten. Marking an already
// terminal entry rewrites the status unchanged.
func (l *Ledger) MarkEaten(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return l.markStatus(ctx, id, StatusEaten)
}

// MarkSkipped patches the entry status to skipped.
func (l *Ledger) MarkSkipped(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return l.markStatus(ctx, id, StatusSkipped)
}

func (l *Ledger) markStatus(ctx context.Context, id uuid.UUID, status Status) (*Entry, error) {
	entry, err := l.entries.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}

	previous := entry.Status
	if status == StatusEaten {
		entry.MarkEaten()
	} else {
		entry.MarkSkipped()
	}

	if err := l.entries.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}

	l.publishStatus(ctx, entry, previous)
	return entry, nil
}

// UpdateMealInput carries the patchable entry fields. Day, slot and
// household are identity-defining and cannot be changed.
type UpdateMealInput struct {
	DishID       *uuid.UUID `json:"dish_id,omitempty"`
	CustomName   string     `json:"custom_name,omitempty"`
	ServingsUsed float64    `json:"servings_used"`
	IsLeftover   bool       `json:"is_leftover"`
	SourceMealID *uuid.UUID `json:"source_meal_id,omitempty"`
}

// UpdateMeal replaces the meal reference, servings and leftover link of
// an existing entry.
func (l *Ledger) UpdateMeal(ctx context.Context, id uuid.UUID, in UpdateMealInput) (*Entry, error) {
	entry, err := l.entries.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}

	if in.SourceMealID != nil {
		source, err := l.entries.Get(ctx, *in.SourceMealID)
		if err != nil {
			return nil, fmt.Errorf("resolve source meal: %w", err)
		}
		if source == nil {
			return nil, ErrSourceNotFound
		}
		if source.IsLeftover {
			return nil, ErrLeftoverChain
		}
	}

	entry.DishID = in.DishID
	entry.CustomName = in.CustomName
	entry.ServingsUsed = in.ServingsUsed
	entry.IsLeftover = in.IsLeftover
	entry.SourceMealID = in.SourceMealID
	entry.BeforeUpdate()

	if err := l.entries.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}

	l.publishLifecycle(ctx, event.EventMealUpdated, entry)
	return entry, nil
}

// RemoveMeal deletes an entry. Entries that reference it as their
// leftover source have the link cleared so no dangling ids remain.
func (l *Ledger) RemoveMeal(ctx context.Context, id uuid.UUID) error {
	entry, err := l.entries.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load entry: %w", err)
	}
	if entry == nil {
		return ErrEntryNotFound
	}

	referencing, err := l.entries.ListBySource(ctx, id)
	if err != nil {
		return fmt.Errorf("list referencing entries: %w", err)
	}
	for _, ref := range referencing {
		ref.SourceMealID = nil
		ref.BeforeUpdate()
		if err := l.entries.Save(ctx, ref); err != nil {
			return fmt.Errorf("clear source link on %s: %w", ref.ID, err)
		}
	}

	if err := l.entries.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	l.publishLifecycle(ctx, event.EventMealRemoved, entry)
	return nil
}

// MealsForDish lists the household's entries referencing a dish,
// regardless of day or status. Used to assess the impact of a catalog
// change before editing or deleting a dish.
func (l *Ledger) MealsForDish(ctx context.Context, householdID, dishID uuid.UUID) ([]*Entry, error) {
	entries, err := l.entries.ListByDish(ctx, householdID, dishID)
	if err != nil {
		return nil, fmt.Errorf("list entries by dish: %w", err)
	}
	return entries, nil
}

// GetMeal loads a single entry.
func (l *Ledger) GetMeal(ctx context.Context, id uuid.UUID) (*Entry, error) {
	entry, err := l.entries.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load entry: %w", err)
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

// WeekEntry is a ledger entry joined with its resolved dish. Dish is
// nil for custom-named meals and for dishes deleted after being
// referenced.
type WeekEntry struct {
	Entry *Entry        `json:"entry"`
	Dish  *catalog.Dish `json:"dish"`
}

// GetWeek returns the entries in the 7-day window starting at startDay,
// each joined with its dish.
func (l *Ledger) GetWeek(ctx context.Context, householdID uuid.UUID, startDay string) ([]WeekEntry, error) {
	days, err := WeekDays(startDay, l.loc)
	if err != nil {
		return nil, err
	}

	entries, err := l.entries.ListByDays(ctx, householdID, days)
	if err != nil {
		return nil, fmt.Errorf("list week entries: %w", err)
	}

	week := make([]WeekEntry, 0, len(entries))
	for _, entry := range entries {
		var dish *catalog.Dish
		if entry.HasDish() {
			// Missing dishes join as nil; store failures propagate.
			dish, err = l.dishes.Get(ctx, *entry.DishID)
			if err != nil {
				return nil, fmt.Errorf("load dish: %w", err)
			}
		}
		week = append(week, WeekEntry{Entry: entry, Dish: dish})
	}
	return week, nil
}

// Event publishing is best effort: failures are logged and dropped.

func (l *Ledger) publishStatus(ctx context.Context, entry *Entry, previous Status) {
	if l.publisher == nil {
		return
	}

	evt := event.MealStatusEvent{
		EventType:      event.EventMealStatusChanged,
		HouseholdID:    entry.HouseholdID.String(),
		MealID:         entry.ID.String(),
		Status:         string(entry.Status),
		PreviousStatus: string(previous),
		OccurredAt:     time.Now(),
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		l.logger.Error("cannot marshal status event", "error", err)
		return
	}
	if err := l.publisher.Publish(ctx, event.MealStatusTopic, payload); err != nil {
		l.logger.Error("cannot publish status event", "error", err, "meal_id", entry.ID.String())
	}
}

func (l *Ledger) publishLifecycle(ctx context.Context, eventType string, entry *Entry) {
	if l.publisher == nil {
		return
	}

	evt := event.MealLifecycleEvent{
		EventType:   eventType,
		HouseholdID: entry.HouseholdID.String(),
		MealID:      entry.ID.String(),
		Day:         entry.Day,
		Slot:        string(entry.Slot),
		Servings:    entry.ServingsUsed,
		OccurredAt:  time.Now(),
	}
	if entry.HasDish() {
		evt.DishID = entry.DishID.String()
	}
	if entry.SourceMealID != nil {
		evt.SourceMealID = entry.SourceMealID.String()
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		l.logger.Error("cannot marshal lifecycle event", "error", err)
		return
	}
	if err := l.publisher.Publish(ctx, event.MealLifecycleTopic, payload); err != nil {
		l.logger.Error("cannot publish lifecycle event", "error", err, "meal_id", entry.ID.String())
	}
}
