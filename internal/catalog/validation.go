package catalog

import (
	"fmt"
	"strings"

	"github.com/pantryclub/mealplan/pkg/enums/diettag"

	"github.com/google/uuid"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateCreateDish validates a dish before creation
func ValidateCreateDish(dish *Dish) []ValidationError {
	var errors []ValidationError

	if dish.HouseholdID == uuid.Nil {
		errors = append(errors, ValidationError{
			Field:   "household_id",
			Message: "household_id is required",
		})
	}

	if strings.TrimSpace(dish.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if dish.DefaultServings < 1 {
		errors = append(errors, ValidationError{
			Field:   "default_servings",
			Message: "default_servings must be at least 1",
		})
	}

	for i, ing := range dish.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("ingredients[%d].name", i),
				Message: "ingredient name is required",
			})
		}
		if ing.Quantity < 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("ingredients[%d].quantity", i),
				Message: "ingredient quantity cannot be negative",
			})
		}
	}

	for i, tag := range dish.Tags {
		if diettag.ByName(tag) == nil {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("tags[%d]", i),
				Message: fmt.Sprintf("unknown dietary tag %q", tag),
			})
		}
	}

	return errors
}

// ValidateUpdateDish validates a dish before update
func ValidateUpdateDish(dish *Dish) []ValidationError {
	errors := ValidateCreateDish(dish)

	if dish.ID == uuid.Nil {
		errors = append(errors, ValidationError{
			Field:   "id",
			Message: "id is required for update",
		})
	}

	return errors
}
