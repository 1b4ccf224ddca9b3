package catalog

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Dish is a reusable recipe: an ordered ingredient list plus the number
// of servings one preparation yields.
type Dish struct {
	ID              uuid.UUID    `json:"id" bson:"_id"`
	HouseholdID     uuid.UUID    `json:"household_id" bson:"household_id"`
	Name            string       `json:"name" bson:"name"`
	Description     string       `json:"description,omitempty" bson:"description,omitempty"`
	Ingredients     []Ingredient `json:"ingredients" bson:"ingredients"`
	DefaultServings float64      `json:"default_servings" bson:"default_servings"`
	Tags            []string     `json:"tags,omitempty" bson:"tags,omitempty"`
	SourceURL       string       `json:"source_url,omitempty" bson:"source_url,omitempty"`
	CreatedAt       time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" bson:"updated_at"`
}

// Ingredient is one line of a dish's recipe. Quantities are merged in
// shopping lists only when name, unit and category all match exactly.
type Ingredient struct {
	Name     string  `json:"name" bson:"name"`
	Quantity float64 `json:"quantity" bson:"quantity"`
	Unit     string  `json:"unit" bson:"unit"`
	Category string  `json:"category" bson:"category"`
}

func NewDish(householdID uuid.UUID, name string) *Dish {
	dish := &Dish{
		ID:          apt.GenerateNewID(),
		HouseholdID: householdID,
		Name:        name,
	}
	dish.BeforeCreate()
	return dish
}

func (d *Dish) GetID() uuid.UUID {
	return d.ID
}

func (d *Dish) ResourceType() string {
	return "catalog/dish"
}

func (d *Dish) EnsureID() {
	if d.ID == uuid.Nil {
		d.ID = apt.GenerateNewID()
	}
}

// Servings returns the dish yield, treating an unset value as a single
// serving so serving-ratio math never divides by zero.
func (d *Dish) Servings() float64 {
	if d.DefaultServings <= 0 {
		return 1
	}
	return d.DefaultServings
}

func (d *Dish) BeforeCreate() {
	d.EnsureID()
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.DefaultServings <= 0 {
		d.DefaultServings = 1
	}
}

func (d *Dish) BeforeUpdate() {
	d.UpdatedAt = time.Now()
	if d.DefaultServings <= 0 {
		d.DefaultServings = 1
	}
}
