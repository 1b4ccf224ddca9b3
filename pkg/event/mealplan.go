package event

import "time"

const (
	// MealStatusTopic delivers status transitions for meal-plan entries.
	MealStatusTopic = "mealplans.status"
	// MealLifecycleTopic groups create/update/remove events for entries.
	MealLifecycleTopic = "mealplans.lifecycle"

	// EventMealPlanned identifies a newly planned meal entry.
	EventMealPlanned = "meal.planned"
	// EventMealStatusChanged identifies an eaten/skipped transition.
	EventMealStatusChanged = "meal.status.changed"
	// EventMealUpdated identifies an entry field update.
	EventMealUpdated = "meal.updated"
	// EventMealRemoved identifies an entry deletion.
	EventMealRemoved = "meal.removed"
	// EventLeftoversVoided identifies a leftover write-off entry.
	EventLeftoversVoided = "meal.leftovers.voided"
)

// MealStatusEvent captures a status transition on a meal-plan entry.
type MealStatusEvent struct {
	EventType      string    `json:"event_type"`
	HouseholdID    string    `json:"household_id"`
	MealID         string    `json:"meal_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// MealLifecycleEvent captures create/update/remove operations on
// meal-plan entries, including leftover write-offs.
type MealLifecycleEvent struct {
	EventType    string    `json:"event_type"`
	HouseholdID  string    `json:"household_id"`
	MealID       string    `json:"meal_id"`
	Day          string    `json:"day"`
	Slot         string    `json:"slot"`
	DishID       string    `json:"dish_id,omitempty"`
	SourceMealID string    `json:"source_meal_id,omitempty"`
	Servings     float64   `json:"servings,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
