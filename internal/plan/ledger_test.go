package plan

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pantryclub/mealplan/internal/catalog"
	"github.com/pantryclub/mealplan/pkg/event"

	"github.com/google/uuid"
)

func TestPlanMeal(t *testing.T) {
	householdID := uuid.New()
	dishID := uuid.New()

	t.Run("dishMeal", func(t *testing.T) {
		ledger, _, _ := newTestLedger()

		entry, err := ledger.PlanMeal(context.Background(), PlanMealInput{
			HouseholdID:  householdID,
			Day:          "2026-08-24",
			Slot:         SlotDinner,
			DishID:       &dishID,
			ServingsUsed: 4,
		})
		if err != nil {
			t.Fatalf("PlanMeal() error: %v", err)
		}
		if entry.Status != StatusPlanned {
			t.Errorf("Status = %q, want %q", entry.Status, StatusPlanned)
		}
		if !entry.HasDish() {
			t.Error("entry should reference a dish")
		}
	})

	t.Run("slotConflict", func(t *testing.T) {
		ledger, _, _ := newTestLedger()
		ctx := context.Background()

		in := PlanMealInput{
			HouseholdID:  householdID,
			Day:          "2026-08-24",
			Slot:         SlotDinner,
			CustomName:   "Takeout",
			ServingsUsed: 2,
		}
		if _, err := ledger.PlanMeal(ctx, in); err != nil {
			t.Fatalf("first PlanMeal() error: %v", err)
		}
		if _, err := ledger.PlanMeal(ctx, in); !errors.Is(err, ErrSlotTaken) {
			t.Errorf("second PlanMeal() error = %v, want ErrSlotTaken", err)
		}
	})

	t.Run("sameSlotOtherHousehold", func(t *testing.T) {
		ledger, _, _ := newTestLedger()
		ctx := context.Background()

		in := PlanMealInput{
			HouseholdID:  householdID,
			Day:          "2026-08-24",
			Slot:         SlotDinner,
			CustomName:   "Takeout",
			ServingsUsed: 2,
		}
		if _, err := ledger.PlanMeal(ctx, in); err != nil {
			t.Fatalf("first PlanMeal() error: %v", err)
		}
		in.HouseholdID = uuid.New()
		if _, err := ledger.PlanMeal(ctx, in); err != nil {
			t.Errorf("PlanMeal() for other household error = %v, want nil", err)
		}
	})

	t.Run("missingSource", func(t *testing.T) {
		ledger, _, _ := newTestLedger()
		missing := uuid.New()

		_, err := ledger.PlanMeal(context.Background(), PlanMealInput{
			HouseholdID:  householdID,
			Day:          "2026-08-24",
			Slot:         SlotLunch,
			DishID:       &dishID,
			ServingsUsed: 1,
			IsLeftover:   true,
			SourceMealID: &missing,
		})
		if !errors.Is(err, ErrSourceNotFound) {
			t.Errorf("PlanMeal() error = %v, want ErrSourceNotFound", err)
		}
	})

	t.Run("customLeftoverOccupiesSlot", func(t *testing.T) {
		ledger, entries, _ := newTestLedger()
		ctx := context.Background()

		source := NewDishEntry(householdID, "2026-08-23", SlotDinner, dishID, 2)
		source.MarkEaten()
		if err := entries.Create(ctx, source); err != nil {
			t.Fatalf("seed source: %v", err)
		}

		in := PlanMealInput{
			HouseholdID:  householdID,
			Day:          "2026-08-24",
			Slot:         SlotLunch,
			CustomName:   "Chili leftovers",
			ServingsUsed: 2,
			IsLeftover:   true,
			SourceMealID: &source.ID,
		}
		if _, err := ledger.PlanMeal(ctx, in); err != nil {
			t.Fatalf("first PlanMeal() error: %v", err)
		}
		if _, err := ledger.PlanMeal(ctx, in); !errors.Is(err, ErrSlotTaken) {
			t.Errorf("second PlanMeal() error = %v, want ErrSlotTaken", err)
		}
	})

	t.Run("leftoverChain", func(t *testing.T) {
		ledger, entries, _ := newTestLedger()
		ctx := context.Background()

		leftover := NewDishEntry(householdID, "2026-08-23", SlotDinner, dishID, 2)
		leftover.IsLeftover = true
		if err := entries.Create(ctx, leftover); err != nil {
			t.Fatalf("seed leftover: %v", err)
		}

		_, err := ledger.PlanMeal(ctx, PlanMealInput{
			HouseholdID:  householdID,
			Day:          "2026-08-24",
			Slot:         SlotLunch,
			DishID:       &dishID,
			ServingsUsed: 1,
			IsLeftover:   true,
			SourceMealID: &leftover.ID,
		})
		if !errors.Is(err, ErrLeftoverChain) {
			t.Errorf("PlanMeal() error = %v, want ErrLeftoverChain", err)
		}
	})
}

func TestPlanMealPublishesLifecycleEvent(t *testing.T) {
	householdID := uuid.New()
	entries := NewMockEntryRepo()
	dishes := NewMockDishRepo()
	publisher := NewMockPublisher()
	ledger := NewLedger(entries, dishes, publisher, nil, time.UTC)

	entry, err := ledger.PlanMeal(context.Background(), PlanMealInput{
		HouseholdID:  householdID,
		Day:          "2026-08-24",
		Slot:         SlotDinner,
		CustomName:   "Takeout",
		ServingsUsed: 2,
	})
	if err != nil {
		t.Fatalf("PlanMeal() error: %v", err)
	}

	if len(publisher.Published) != 1 {
		t.Fatalf("published %d events, want 1", len(publisher.Published))
	}
	if publisher.Topics[0] != event.MealLifecycleTopic {
		t.Errorf("topic = %q, want %q", publisher.Topics[0], event.MealLifecycleTopic)
	}

	var evt event.MealLifecycleEvent
	if err := json.Unmarshal(publisher.Published[0], &evt); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if evt.EventType != event.EventMealPlanned {
		t.Errorf("EventType = %q, want %q", evt.EventType, event.EventMealPlanned)
	}
	if evt.MealID != entry.ID.String() {
		t.Errorf("MealID = %q, want %q", evt.MealID, entry.ID.String())
	}
}

func TestMarkStatus(t *testing.T) {
	householdID := uuid.New()
	entries := NewMockEntryRepo()
	dishes := NewMockDishRepo()
	publisher := NewMockPublisher()
	ledger := NewLedger(entries, dishes, publisher, nil, time.UTC)
	ctx := context.Background()

	entry := NewCustomEntry(householdID, "2026-08-24", SlotDinner, "Takeout", 2)
	if err := entries.Create(ctx, entry); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	updated, err := ledger.MarkEaten(ctx, entry.ID)
	if err != nil {
		t.Fatalf("MarkEaten() error: %v", err)
	}
	if updated.Status != StatusEaten {
		t.Errorf("Status = %q, want %q", updated.Status, StatusEaten)
	}

	if len(publisher.Published) != 1 {
		t.Fatalf("published %d events, want 1", len(publisher.Published))
	}
	var evt event.MealStatusEvent
	if err := json.Unmarshal(publisher.Published[0], &evt); err != nil {
		t.Fatalf("unmarshal event: %v", err)
	}
	if evt.Status != string(StatusEaten) || evt.PreviousStatus != string(StatusPlanned) {
		t.Errorf("event status = %q (previous %q), want eaten from planned", evt.Status, evt.PreviousStatus)
	}

	// Idempotent re-mark still succeeds.
	if _, err := ledger.MarkEaten(ctx, entry.ID); err != nil {
		t.Errorf("repeated MarkEaten() error: %v", err)
	}

	if _, err := ledger.MarkSkipped(ctx, uuid.New()); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("MarkSkipped() on missing entry error = %v, want ErrEntryNotFound", err)
	}
}

func TestUpdateMeal(t *testing.T) {
	householdID := uuid.New()
	ledger, entries, _ := newTestLedger()
	ctx := context.Background()

	entry := NewCustomEntry(householdID, "2026-08-24", SlotDinner, "Takeout", 2)
	if err := entries.Create(ctx, entry); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	dishID := uuid.New()
	updated, err := ledger.UpdateMeal(ctx, entry.ID, UpdateMealInput{
		DishID:       &dishID,
		ServingsUsed: 3,
	})
	if err != nil {
		t.Fatalf("UpdateMeal() error: %v", err)
	}

	if updated.DishID == nil || *updated.DishID != dishID {
		t.Errorf("DishID = %v, want %v", updated.DishID, dishID)
	}
	if updated.CustomName != "" {
		t.Errorf("CustomName = %q, want empty after switching to dish", updated.CustomName)
	}
	if updated.ServingsUsed != 3 {
		t.Errorf("ServingsUsed = %v, want 3", updated.ServingsUsed)
	}
	// Identity fields are untouched.
	if updated.Day != "2026-08-24" || updated.Slot != SlotDinner || updated.HouseholdID != householdID {
		t.Errorf("identity changed: day=%q slot=%q household=%v", updated.Day, updated.Slot, updated.HouseholdID)
	}

	if _, err := ledger.UpdateMeal(ctx, uuid.New(), UpdateMealInput{ServingsUsed: 1}); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("UpdateMeal() on missing entry error = %v, want ErrEntryNotFound", err)
	}
}

func TestRemoveMealClearsSourceLinks(t *testing.T) {
	householdID := uuid.New()
	ledger, entries, dishes := newTestLedger()
	ctx := context.Background()

	dish := seedDish(t, dishes, householdID, "Chili", 4)
	source := seedEatenSource(t, entries, householdID, dish.ID, "2026-08-24", 2)

	reuse := NewDishEntry(householdID, "2026-08-25", SlotLunch, dish.ID, 1)
	reuse.IsLeftover = true
	reuse.SourceMealID = &source.ID
	if err := entries.Create(ctx, reuse); err != nil {
		t.Fatalf("seed reuse entry: %v", err)
	}

	if err := ledger.RemoveMeal(ctx, source.ID); err != nil {
		t.Fatalf("RemoveMeal() error: %v", err)
	}

	if got, _ := entries.Get(ctx, source.ID); got != nil {
		t.Error("source entry still present after RemoveMeal()")
	}

	orphan, err := entries.Get(ctx, reuse.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if orphan == nil {
		t.Fatal("reuse entry deleted, want it kept with link cleared")
	}
	if orphan.SourceMealID != nil {
		t.Errorf("SourceMealID = %v, want nil", orphan.SourceMealID)
	}

	if err := ledger.RemoveMeal(ctx, uuid.New()); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("RemoveMeal() on missing entry error = %v, want ErrEntryNotFound", err)
	}
}

func TestMealsForDish(t *testing.T) {
	householdID := uuid.New()
	ledger, entries, dishes := newTestLedger()
	ctx := context.Background()

	dish := seedDish(t, dishes, householdID, "Chili", 4)
	other := seedDish(t, dishes, householdID, "Soup", 6)

	planned := NewDishEntry(householdID, "2026-08-24", SlotDinner, dish.ID, 2)
	eaten := NewDishEntry(householdID, "2026-08-25", SlotLunch, dish.ID, 1)
	eaten.MarkEaten()
	otherDish := NewDishEntry(householdID, "2026-08-25", SlotDinner, other.ID, 2)
	otherHousehold := NewDishEntry(uuid.New(), "2026-08-24", SlotDinner, dish.ID, 2)
	for _, e := range []*Entry{planned, eaten, otherDish, otherHousehold} {
		if err := entries.Create(ctx, e); err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}

	got, err := ledger.MealsForDish(ctx, householdID, dish.ID)
	if err != nil {
		t.Fatalf("MealsForDish() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("MealsForDish() returned %d entries, want 2", len(got))
	}
	for _, e := range got {
		if e.ID != planned.ID && e.ID != eaten.ID {
			t.Errorf("unexpected entry %v in result", e.ID)
		}
	}
}

func TestGetWeekJoinsDishes(t *testing.T) {
	householdID := uuid.New()
	ledger, entries, dishes := newTestLedger()
	ctx := context.Background()

	dish := seedDish(t, dishes, householdID, "Chili", 4)

	withDish := NewDishEntry(householdID, "2026-08-24", SlotDinner, dish.ID, 2)
	custom := NewCustomEntry(householdID, "2026-08-25", SlotLunch, "Takeout", 1)
	outside := NewDishEntry(householdID, "2026-09-05", SlotDinner, dish.ID, 2)
	for _, e := range []*Entry{withDish, custom, outside} {
		if err := entries.Create(ctx, e); err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}

	week, err := ledger.GetWeek(ctx, householdID, "2026-08-24")
	if err != nil {
		t.Fatalf("GetWeek() error: %v", err)
	}

	if len(week) != 2 {
		t.Fatalf("GetWeek() returned %d entries, want 2", len(week))
	}
	for _, we := range week {
		switch we.Entry.ID {
		case withDish.ID:
			if we.Dish == nil || we.Dish.ID != dish.ID {
				t.Errorf("dish entry joined %v, want dish %v", we.Dish, dish.ID)
			}
		case custom.ID:
			if we.Dish != nil {
				t.Errorf("custom entry joined dish %v, want nil", we.Dish.ID)
			}
		default:
			t.Errorf("unexpected entry %v in week", we.Entry.ID)
		}
	}
}

func TestGetWeekDishLookupFailure(t *testing.T) {
	householdID := uuid.New()
	ledger, entries, dishes := newTestLedger()
	ctx := context.Background()

	dishID := uuid.New()
	entry := NewDishEntry(householdID, "2026-08-24", SlotDinner, dishID, 2)
	if err := entries.Create(ctx, entry); err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	dishes.GetFunc = func(ctx context.Context, id uuid.UUID) (*catalog.Dish, error) {
		return nil, errors.New("connection reset")
	}
	if _, err := ledger.GetWeek(ctx, householdID, "2026-08-24"); err == nil {
		t.Error("GetWeek() error = nil, want dish lookup failure propagated")
	}

	// A dish that is simply gone still joins as nil without failing the week.
	dishes.GetFunc = func(ctx context.Context, id uuid.UUID) (*catalog.Dish, error) {
		return nil, nil
	}
	week, err := ledger.GetWeek(ctx, householdID, "2026-08-24")
	if err != nil {
		t.Fatalf("GetWeek() error: %v", err)
	}
	if len(week) != 1 || week[0].Dish != nil {
		t.Errorf("week = %+v, want single entry with nil dish", week)
	}
}
