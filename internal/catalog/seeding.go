package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/pantryclub/mealplan/pkg/enums/diettag"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/seed"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DemoHouseholdID is the household the sample dishes are seeded under.
// Local development only; production households create their own catalog.
var DemoHouseholdID = uuid.MustParse("3e0a4b9c-1f2d-4c5e-8a7b-6d9f0e1a2b3c")

// Seeds returns all seeds for the catalog
func Seeds(db *mongo.Database) []seed.Seed {
	return []seed.Seed{
		{
			ID:          "2026-08-20_catalog_sample_dishes",
			Description: "Seed sample dishes for the demo household",
			Run: func(ctx context.Context) error {
				return seedSampleDishes(ctx, db)
			},
		},
	}
}

func seedSampleDishes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection("dishes")
	now := time.Now()

	dishes := []struct {
		name        string
		description string
		servings    float64
		tags        []string
		ingredients []Ingredient
	}{
		{
			name:        "Chili con Carne",
			description: "Slow-simmered chili, freezes well",
			servings:    4,
			ingredients: []Ingredient{
				{Name: "ground beef", Quantity: 500, Unit: "g", Category: "Meat & Seafood"},
				{Name: "kidney beans", Quantity: 2, Unit: "cans", Category: "Pantry"},
				{Name: "crushed tomatoes", Quantity: 1, Unit: "cans", Category: "Pantry"},
				{Name: "onion", Quantity: 1, Unit: "pcs", Category: "Produce"},
				{Name: "chili powder", Quantity: 2, Unit: "tbsp", Category: "Spices"},
			},
		},
		{
			name:        "Lentil Soup",
			description: "Weeknight staple",
			servings:    6,
			tags:        []string{diettag.Tags.Vegan.Name, diettag.Tags.GlutenFree.Name},
			ingredients: []Ingredient{
				{Name: "red lentils", Quantity: 300, Unit: "g", Category: "Pantry"},
				{Name: "carrot", Quantity: 2, Unit: "pcs", Category: "Produce"},
				{Name: "onion", Quantity: 1, Unit: "pcs", Category: "Produce"},
				{Name: "vegetable stock", Quantity: 1.5, Unit: "l", Category: "Pantry"},
			},
		},
		{
			name:        "Veggie Omelette",
			description: "",
			servings:    2,
			tags:        []string{diettag.Tags.Vegetarian.Name},
			ingredients: []Ingredient{
				{Name: "eggs", Quantity: 4, Unit: "pcs", Category: "Dairy"},
				{Name: "bell pepper", Quantity: 1, Unit: "pcs", Category: "Produce"},
				{Name: "milk", Quantity: 0.05, Unit: "l", Category: "Dairy"},
			},
		},
	}

	for _, d := range dishes {
		_, err := collection.UpdateOne(ctx,
			bson.M{"household_id": DemoHouseholdID, "name": d.name},
			bson.M{"$setOnInsert": bson.M{
				"_id":              apt.GenerateNewID(),
				"household_id":     DemoHouseholdID,
				"name":             d.name,
				"description":      d.description,
				"ingredients":      d.ingredients,
				"default_servings": d.servings,
				"tags":             d.tags,
				"created_at":       now,
				"updated_at":       now,
			}},
			options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("seed dish %q: %w", d.name, err)
		}
	}

	return nil
}

// SeedingFunc returns a lifecycle hook that applies catalog seeds.
func SeedingFunc(appName string, dbFn func() *mongo.Database, logger apt.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		logger.Info("Applying catalog database seeds...")
		db := dbFn()
		tracker := seed.NewMongoTracker(db)
		seeds := Seeds(db)
		if err := seed.Apply(ctx, tracker, seeds, appName); err != nil {
			return fmt.Errorf("apply seeds: %w", err)
		}
		logger.Info("Catalog database seeds applied successfully")
		return nil
	}
}
