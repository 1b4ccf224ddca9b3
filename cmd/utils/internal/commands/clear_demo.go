package commands

import (
	"context"
	"fmt"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ClearDemo removes all demo data from the mealplan database
func ClearDemo(ctx context.Context, config *apt.Config, logger apt.Logger) error {
	logger.Info("Starting demo data cleanup...")

	client, dbName, err := connect(ctx, config)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	logger.Info("Connected to MongoDB")

	db := client.Database(dbName)
	if err := clearMealPlanDemo(ctx, db, logger); err != nil {
		return fmt.Errorf("clear meal plan demo: %w", err)
	}

	return nil
}

func clearMealPlanDemo(ctx context.Context, db *mongo.Database, logger apt.Logger) error {
	logger.Info("Clearing meal plan demo data...")

	// Delete demo entries
	entriesCollection := db.Collection("meal_plans")
	entriesResult, err := entriesCollection.DeleteMany(ctx, bson.M{"created_by": "demo-seed"})
	if err != nil {
		return fmt.Errorf("delete demo meal plan entries: %w", err)
	}
	logger.Info("Deleted demo meal plan entries", "count", entriesResult.DeletedCount)

	// Clear seed tracker
	seedsCollection := db.Collection("_seeds")
	trackerResult, err := seedsCollection.DeleteOne(ctx, bson.M{"_id": "demo_mealplans_v1"})
	if err != nil {
		return fmt.Errorf("delete meal plan seed tracker: %w", err)
	}
	logger.Info("Cleared meal plan seed tracker", "deleted", trackerResult.DeletedCount)

	return nil
}
