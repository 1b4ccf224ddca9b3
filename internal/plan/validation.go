package plan

import (
	"strings"

	"github.com/pantryclub/mealplan/internal/catalog"

	"github.com/google/uuid"
)

// ValidatePlanMeal validates a plan-meal request at the boundary,
// before it reaches the ledger.
func ValidatePlanMeal(in PlanMealInput) []catalog.ValidationError {
	var errors []catalog.ValidationError

	if in.HouseholdID == uuid.Nil {
		errors = append(errors, catalog.ValidationError{
			Field:   "household_id",
			Message: "household_id is required",
		})
	}

	if !ValidDayKey(in.Day) {
		errors = append(errors, catalog.ValidationError{
			Field:   "day",
			Message: "day must be a YYYY-MM-DD date",
		})
	}

	if !ValidSlot(in.Slot) {
		errors = append(errors, catalog.ValidationError{
			Field:   "slot",
			Message: "slot must be one of: breakfast, lunch, dinner",
		})
	}

	errors = append(errors, validateMealRef(in.DishID, in.CustomName)...)
	errors = append(errors, validateServings(in.ServingsUsed)...)

	if in.IsLeftover && in.SourceMealID == nil {
		errors = append(errors, catalog.ValidationError{
			Field:   "source_meal_id",
			Message: "source_meal_id is required for leftover meals",
		})
	}

	return errors
}

// ValidateUpdateMeal validates an update-meal request.
func ValidateUpdateMeal(in UpdateMealInput) []catalog.ValidationError {
	var errors []catalog.ValidationError

	errors = append(errors, validateMealRef(in.DishID, in.CustomName)...)
	errors = append(errors, validateServings(in.ServingsUsed)...)

	if in.IsLeftover && in.SourceMealID == nil {
		errors = append(errors, catalog.ValidationError{
			Field:   "source_meal_id",
			Message: "source_meal_id is required for leftover meals",
		})
	}

	return errors
}

// validateMealRef enforces the dish-or-custom-name exclusivity: a meal
// references exactly one of the two.
func validateMealRef(dishID *uuid.UUID, customName string) []catalog.ValidationError {
	var errors []catalog.ValidationError

	hasDish := dishID != nil && *dishID != uuid.Nil
	hasName := strings.TrimSpace(customName) != ""

	switch {
	case hasDish && hasName:
		errors = append(errors, catalog.ValidationError{
			Field:   "custom_name",
			Message: "dish_id and custom_name are mutually exclusive",
		})
	case !hasDish && !hasName:
		errors = append(errors, catalog.ValidationError{
			Field:   "dish_id",
			Message: "either dish_id or custom_name is required",
		})
	}

	return errors
}

func validateServings(servings float64) []catalog.ValidationError {
	if servings < 1 {
		return []catalog.ValidationError{{
			Field:   "servings_used",
			Message: "servings_used must be at least 1",
		}}
	}
	return nil
}
