package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/pantryclub/mealplan/internal/catalog"
	"github.com/pantryclub/mealplan/internal/plan"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SeedMealPlans creates a demo week of planned meals for the demo
// household, referencing the sample dishes the service seeds on start.
// Entries are tagged created_by=demo-seed so clear-demo can find them.
func SeedMealPlans(ctx context.Context, db *mongo.Database) error {
	entriesCollection := db.Collection("meal_plans")
	dishesCollection := db.Collection("dishes")

	dishIDs, err := fetchDemoDishIDs(ctx, dishesCollection)
	if err != nil {
		return err
	}

	now := time.Now()
	monday := now.AddDate(0, 0, -int(now.Weekday()-time.Monday))
	day := func(offset int) string {
		return monday.AddDate(0, 0, offset).Format(plan.DayKeyFormat)
	}

	chiliID := dishIDs["Chili con Carne"]
	soupID := dishIDs["Lentil Soup"]
	omeletteID := dishIDs["Veggie Omelette"]

	// A realistic week: a cooked dinner whose leftovers carry over to
	// the next day's lunch, plus a custom takeaway night.
	chiliDinnerID := uuid.New()
	meals := []bson.M{
		{
			"_id":           chiliDinnerID,
			"day":           day(0),
			"slot":          string(plan.SlotDinner),
			"dish_id":       chiliID,
			"servings_used": 2.0,
			"status":        string(plan.StatusEaten),
			"is_leftover":   false,
		},
		{
			"_id":            uuid.New(),
			"day":            day(1),
			"slot":           string(plan.SlotLunch),
			"dish_id":        chiliID,
			"servings_used":  2.0,
			"status":         string(plan.StatusPlanned),
			"is_leftover":    true,
			"source_meal_id": chiliDinnerID,
		},
		{
			"_id":           uuid.New(),
			"day":           day(1),
			"slot":          string(plan.SlotDinner),
			"dish_id":       soupID,
			"servings_used": 4.0,
			"status":        string(plan.StatusPlanned),
			"is_leftover":   false,
		},
		{
			"_id":           uuid.New(),
			"day":           day(2),
			"slot":          string(plan.SlotBreakfast),
			"dish_id":       omeletteID,
			"servings_used": 2.0,
			"status":        string(plan.StatusPlanned),
			"is_leftover":   false,
		},
		{
			"_id":           uuid.New(),
			"day":           day(4),
			"slot":          string(plan.SlotDinner),
			"custom_name":   "Pizza night",
			"servings_used": 4.0,
			"status":        string(plan.StatusPlanned),
			"is_leftover":   false,
		},
	}

	for _, meal := range meals {
		meal["household_id"] = catalog.DemoHouseholdID
		meal["created_at"] = now
		meal["updated_at"] = now
		meal["created_by"] = "demo-seed"

		filter := bson.M{
			"household_id": catalog.DemoHouseholdID,
			"day":          meal["day"],
			"slot":         meal["slot"],
			"is_leftover":  meal["is_leftover"],
		}
		_, err := entriesCollection.UpdateOne(ctx, filter,
			bson.M{"$setOnInsert": meal},
			options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("cannot seed meal %v %v: %w", meal["day"], meal["slot"], err)
		}
	}

	return nil
}

// fetchDemoDishIDs resolves the sample dish ids by name. The service
// seeds these dishes on start; seed-demo requires them to exist.
func fetchDemoDishIDs(ctx context.Context, dishes *mongo.Collection) (map[string]uuid.UUID, error) {
	cursor, err := dishes.Find(ctx, bson.M{"household_id": catalog.DemoHouseholdID})
	if err != nil {
		return nil, fmt.Errorf("cannot fetch demo dishes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID   uuid.UUID `bson:"_id"`
		Name string    `bson:"name"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("cannot decode demo dishes: %w", err)
	}

	ids := make(map[string]uuid.UUID, len(docs))
	for _, d := range docs {
		ids[d.Name] = d.ID
	}

	for _, name := range []string{"Chili con Carne", "Lentil Soup", "Veggie Omelette"} {
		if _, ok := ids[name]; !ok {
			return nil, fmt.Errorf("demo dish %q not found, run the service once to seed the catalog", name)
		}
	}
	return ids, nil
}
