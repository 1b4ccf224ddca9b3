package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/pantryclub/mealplan/internal/catalog"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DishRepo implements the catalog.DishRepo interface using MongoDB.
// It owns the client connection; EntryRepo shares its database.
type DishRepo struct {
	client     *mongo.Client
	db         *mongo.Database
	collection *mongo.Collection
	logger     apt.Logger
	config     *apt.Config
}

// NewDishRepo creates a new MongoDB dish repository
func NewDishRepo(config *apt.Config, logger apt.Logger) *DishRepo {
	return &DishRepo{
		logger: logger,
		config: config,
	}
}

// Start initializes the MongoDB connection
func (r *DishRepo) Start(ctx context.Context) error {
	mongoURL, _ := r.config.GetString("db.mongo.url")
	if mongoURL == "" {
		mongoURL = "mongodb://localhost:27017"
	}

	dbName, _ := r.config.GetString("db.mongo.name")
	if dbName == "" {
		dbName = "mealplan"
	}

	clientOptions := options.Client().ApplyURI(mongoURL).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	r.client = client
	r.db = client.Database(dbName)
	r.collection = r.db.Collection("dishes")

	householdIndexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "household_id", Value: 1}},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, householdIndexModel); err != nil {
		return fmt.Errorf("cannot create household_id index: %w", err)
	}

	tagsIndexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "tags", Value: 1}},
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, tagsIndexModel); err != nil {
		return fmt.Errorf("cannot create tags index: %w", err)
	}

	r.logger.Infof("Connected to MongoDB: %s, database: %s, collection: dishes", mongoURL, dbName)
	return nil
}

// Stop closes the MongoDB connection
func (r *DishRepo) Stop(ctx context.Context) error {
	if r.client != nil {
		if err := r.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
		}
		r.logger.Info("Disconnected from MongoDB")
	}
	return nil
}

// GetDatabase returns the MongoDB database instance
func (r *DishRepo) GetDatabase() *mongo.Database {
	return r.db
}

// Create inserts a new dish
func (r *DishRepo) Create(ctx context.Context, dish *catalog.Dish) error {
	if dish == nil {
		return fmt.Errorf("dish cannot be nil")
	}

	dish.EnsureID()

	_, err := r.collection.InsertOne(ctx, dish)
	if err != nil {
		return fmt.Errorf("could not create dish: %w", err)
	}
	return nil
}

// Get retrieves a dish by ID. A missing dish yields (nil, nil) so read
// paths can degrade instead of failing on dangling references.
func (r *DishRepo) Get(ctx context.Context, id uuid.UUID) (*catalog.Dish, error) {
	var dish catalog.Dish

	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&dish)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("could not get dish: %w", err)
	}
	return &dish, nil
}

// List retrieves all dishes for a household
func (r *DishRepo) List(ctx context.Context, householdID uuid.UUID) ([]*catalog.Dish, error) {
	return r.find(ctx, bson.M{"household_id": householdID})
}

// Search retrieves dishes whose name contains the query,
// case-insensitively, within a household
func (r *DishRepo) Search(ctx context.Context, householdID uuid.UUID, query string) ([]*catalog.Dish, error) {
	filter := bson.M{
		"household_id": householdID,
		"name": bson.M{
			"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"},
		},
	}
	return r.find(ctx, filter)
}

// ListByTags retrieves dishes carrying all of the given dietary tags
func (r *DishRepo) ListByTags(ctx context.Context, householdID uuid.UUID, tags []string) ([]*catalog.Dish, error) {
	filter := bson.M{
		"household_id": householdID,
		"tags":         bson.M{"$all": tags},
	}
	return r.find(ctx, filter)
}

// Save updates an existing dish
func (r *DishRepo) Save(ctx context.Context, dish *catalog.Dish) error {
	if dish == nil {
		return fmt.Errorf("dish cannot be nil")
	}

	filter := bson.M{"_id": dish.GetID()}
	opts := options.Replace().SetUpsert(false)

	result, err := r.collection.ReplaceOne(ctx, filter, dish, opts)
	if err != nil {
		return fmt.Errorf("could not save dish: %w", err)
	}

	if result.MatchedCount == 0 {
		return fmt.Errorf("dish with ID %s not found for update", dish.GetID().String())
	}
	return nil
}

// Delete removes a dish by ID
func (r *DishRepo) Delete(ctx context.Context, id uuid.UUID) error {
	filter := bson.M{"_id": id}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("could not delete dish: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("dish with ID %s not found for deletion", id.String())
	}
	return nil
}

func (r *DishRepo) find(ctx context.Context, filter bson.M) ([]*catalog.Dish, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("could not list dishes: %w", err)
	}
	defer cursor.Close(ctx)

	var dishes []*catalog.Dish
	for cursor.Next(ctx) {
		var dish catalog.Dish
		if err := cursor.Decode(&dish); err != nil {
			return nil, fmt.Errorf("could not decode dish: %w", err)
		}
		dishes = append(dishes, &dish)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return dishes, nil
}
