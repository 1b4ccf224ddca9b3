package plan

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// DayKeyFormat is the local calendar-date key entries are stored under.
const DayKeyFormat = "2006-01-02"

// Slot identifies the meal of the day an entry is assigned to.
type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
)

// ValidSlot reports whether s is one of the three known meal slots.
func ValidSlot(s Slot) bool {
	return s == SlotBreakfast || s == SlotLunch || s == SlotDinner
}

// Status is the lifecycle state of a meal-plan entry.
type Status string

const (
	StatusPlanned Status = "planned"
	StatusEaten   Status = "eaten"
	StatusSkipped Status = "skipped"
)

// Entry is one scheduled meal in the weekly ledger: a (day, slot)
// assignment referencing either a catalog dish or a free-text name.
// Day, Slot and HouseholdID are identity-defining and never change
// after creation.
type Entry struct {
	ID           uuid.UUID  `json:"id" bson:"_id"`
	HouseholdID  uuid.UUID  `json:"household_id" bson:"household_id"`
	Day          string     `json:"day" bson:"day"`
	Slot         Slot       `json:"slot" bson:"slot"`
	DishID       *uuid.UUID `json:"dish_id,omitempty" bson:"dish_id,omitempty"`
	CustomName   string     `json:"custom_name,omitempty" bson:"custom_name,omitempty"`
	ServingsUsed float64    `json:"servings_used" bson:"servings_used"`
	Status       Status     `json:"status" bson:"status"`
	IsLeftover   bool       `json:"is_leftover" bson:"is_leftover"`
	WriteOff     bool       `json:"write_off,omitempty" bson:"write_off,omitempty"`
	SourceMealID *uuid.UUID `json:"source_meal_id,omitempty" bson:"source_meal_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" bson:"updated_at"`
}

// NewDishEntry creates a planned entry referencing a catalog dish.
func NewDishEntry(householdID uuid.UUID, day string, slot Slot, dishID uuid.UUID, servings float64) *Entry {
	entry := &Entry{
		ID:           apt.GenerateNewID(),
		HouseholdID:  householdID,
		Day:          day,
		Slot:         slot,
		DishID:       &dishID,
		ServingsUsed: servings,
		Status:       StatusPlanned,
	}
	entry.BeforeCreate()
	return entry
}

// NewCustomEntry creates a planned entry with a free-text meal name.
// Custom entries contribute no ingredients to shopping lists.
func NewCustomEntry(householdID uuid.UUID, day string, slot Slot, name string, servings float64) *Entry {
	entry := &Entry{
		ID:           apt.GenerateNewID(),
		HouseholdID:  householdID,
		Day:          day,
		Slot:         slot,
		CustomName:   name,
		ServingsUsed: servings,
		Status:       StatusPlanned,
	}
	entry.BeforeCreate()
	return entry
}

func (e *Entry) GetID() uuid.UUID {
	return e.ID
}

func (e *Entry) ResourceType() string {
	return "mealplan/entry"
}

func (e *Entry) EnsureID() {
	if e.ID == uuid.Nil {
		e.ID = apt.GenerateNewID()
	}
}

func (e *Entry) BeforeCreate() {
	e.EnsureID()
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Status == "" {
		e.Status = StatusPlanned
	}
}

func (e *Entry) BeforeUpdate() {
	e.UpdatedAt = time.Now()
}

// HasDish reports whether the entry references a catalog dish.
func (e *Entry) HasDish() bool {
	return e.DishID != nil && *e.DishID != uuid.Nil
}

// MarkEaten transitions the entry to eaten. Re-marking a terminal
// entry rewrites the same status; it is never rejected.
func (e *Entry) MarkEaten() {
	e.Status = StatusEaten
	e.BeforeUpdate()
}

// MarkSkipped transitions the entry to skipped.
func (e *Entry) MarkSkipped() {
	e.Status = StatusSkipped
	e.BeforeUpdate()
}

// IsWriteOff reports whether the entry is a synthetic leftover
// write-off created by voiding rather than a scheduled meal. Only
// voiding sets the flag; user-planned meals, custom-named leftovers
// included, occupy their (day, slot) while write-offs do not.
func (e *Entry) IsWriteOff() bool {
	return e.WriteOff
}

// IsSource reports whether the entry is an original cook event that
// leftover availability can be computed against: eaten, not itself a
// leftover, and dish-referencing.
func (e *Entry) IsSource() bool {
	return e.Status == StatusEaten && !e.IsLeftover && e.HasDish()
}
