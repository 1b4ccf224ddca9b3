package mongo

import (
	"context"
	"fmt"

	"github.com/pantryclub/mealplan/internal/plan"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EntryRepo implements the plan.EntryRepo interface using MongoDB
type EntryRepo struct {
	dishRepo   *DishRepo
	collection *mongo.Collection
	logger     apt.Logger
}

// NewEntryRepo creates a new MongoDB meal-plan entry repository
func NewEntryRepo(dishRepo *DishRepo, logger apt.Logger) *EntryRepo {
	return &EntryRepo{
		dishRepo: dishRepo,
		logger:   logger,
	}
}

// Start initializes the entry repository (uses same DB as DishRepo)
func (r *EntryRepo) Start(ctx context.Context) error {
	if r.dishRepo == nil || r.dishRepo.db == nil {
		return fmt.Errorf("dish repository must be started first")
	}

	r.collection = r.dishRepo.db.Collection("meal_plans")

	// Slot uniqueness is enforced at the ledger, not here: leftover
	// write-offs legitimately share a (household, day, slot).
	dayIndexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "household_id", Value: 1},
			{Key: "day", Value: 1},
			{Key: "slot", Value: 1},
		},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, dayIndexModel); err != nil {
		return fmt.Errorf("cannot create household/day/slot index: %w", err)
	}

	// By-dish index backing dish-usage lookups
	dishIndexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "household_id", Value: 1},
			{Key: "dish_id", Value: 1},
		},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, dishIndexModel); err != nil {
		return fmt.Errorf("cannot create household/dish index: %w", err)
	}

	sourceIndexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "source_meal_id", Value: 1}},
		Options: options.Index().SetSparse(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, sourceIndexModel); err != nil {
		return fmt.Errorf("cannot create source_meal_id index: %w", err)
	}

	r.logger.Info("Meal plan repository initialized with collection: meal_plans")
	return nil
}

// Stop is a no-op for EntryRepo since the connection is managed by DishRepo
func (r *EntryRepo) Stop(ctx context.Context) error {
	return nil
}

// Create inserts a new entry
func (r *EntryRepo) Create(ctx context.Context, entry *plan.Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}

	entry.EnsureID()

	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("could not create entry: %w", err)
	}
	return nil
}

// Get retrieves an entry by ID. A missing entry yields (nil, nil) so
// dangling references degrade instead of failing.
func (r *EntryRepo) Get(ctx context.Context, id uuid.UUID) (*plan.Entry, error) {
	var entry plan.Entry

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("could not get entry: %w", err)
	}
	return &entry, nil
}

// GetBySlot retrieves the entry occupying a (household, day, slot).
// Void write-offs do not occupy a slot and are excluded.
func (r *EntryRepo) GetBySlot(ctx context.Context, householdID uuid.UUID, day string, slot plan.Slot) (*plan.Entry, error) {
	filter := bson.M{
		"household_id": householdID,
		"day":          day,
		"slot":         slot,
		"write_off":    bson.M{"$ne": true},
	}

	var entry plan.Entry
	err := r.collection.FindOne(ctx, filter).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("could not get entry by slot: %w", err)
	}
	return &entry, nil
}

// ListByDays retrieves entries whose day key is in days
func (r *EntryRepo) ListByDays(ctx context.Context, householdID uuid.UUID, days []string) ([]*plan.Entry, error) {
	filter := bson.M{
		"household_id": householdID,
		"day":          bson.M{"$in": days},
	}
	return r.find(ctx, filter)
}

// ListByDish retrieves entries referencing the given dish
func (r *EntryRepo) ListByDish(ctx context.Context, householdID uuid.UUID, dishID uuid.UUID) ([]*plan.Entry, error) {
	filter := bson.M{
		"household_id": householdID,
		"dish_id":      dishID,
	}
	return r.find(ctx, filter)
}

// ListBySource retrieves entries whose source link points at sourceID
func (r *EntryRepo) ListBySource(ctx context.Context, sourceID uuid.UUID) ([]*plan.Entry, error) {
	return r.find(ctx, bson.M{"source_meal_id": sourceID})
}

// ListEatenSources retrieves eaten, non-leftover, dish-referencing
// entries for a household
func (r *EntryRepo) ListEatenSources(ctx context.Context, householdID uuid.UUID) ([]*plan.Entry, error) {
	filter := bson.M{
		"household_id": householdID,
		"status":       plan.StatusEaten,
		"is_leftover":  false,
		"dish_id":      bson.M{"$exists": true, "$ne": nil},
	}
	return r.find(ctx, filter)
}

// Save updates an existing entry
func (r *EntryRepo) Save(ctx context.Context, entry *plan.Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}

	filter := bson.M{"_id": entry.GetID()}
	opts := options.Replace().SetUpsert(false)

	result, err := r.collection.ReplaceOne(ctx, filter, entry, opts)
	if err != nil {
		return fmt.Errorf("could not save entry: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("entry with ID %s not found for update", entry.GetID().String())
	}
	return nil
}

// Delete removes an entry by ID
func (r *EntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("could not delete entry: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("entry with ID %s not found for deletion", id.String())
	}
	return nil
}

func (r *EntryRepo) find(ctx context.Context, filter bson.M) ([]*plan.Entry, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("could not list entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*plan.Entry
	for cursor.Next(ctx) {
		var entry plan.Entry
		if err := cursor.Decode(&entry); err != nil {
			return nil, fmt.Errorf("could not decode entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return entries, nil
}
