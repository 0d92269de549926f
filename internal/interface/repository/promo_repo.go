package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
	"github.com/lawmbass/sleepysquid-drones/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPromoRepository implements the PromoRepository interface
type MongoPromoRepository struct {
	collection *mongo.Collection
}

// NewMongoPromoRepository creates a new MongoDB promo repository
func NewMongoPromoRepository(db *mongo.Database) repository.PromoRepository {
	collection := db.Collection("promos")

	ctx := context.Background()

	activeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "isActive", Value: 1},
			{Key: "startDate", Value: 1},
			{Key: "endDate", Value: 1},
		},
	}

	createdAtIndex := mongo.IndexModel{
		Keys: bson.M{"createdAt": -1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		activeIndex,
		createdAtIndex,
	})

	return &MongoPromoRepository{
		collection: collection,
	}
}

// Save inserts a promo
func (r *MongoPromoRepository) Save(ctx context.Context, promo *entity.Promo) error {
	now := time.Now()
	if promo.CreatedAt.IsZero() {
		promo.CreatedAt = now
	}
	promo.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, promo)
	if err != nil {
		return fmt.Errorf("failed to insert promo: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		promo.ID = oid
	}
	return nil
}

// FindByID finds a promo by its object id
func (r *MongoPromoRepository) FindByID(ctx context.Context, id string) (*entity.Promo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var promo entity.Promo
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&promo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// FindActiveOverlapping returns active promos intersecting [start, end],
// bounds inclusive, excluding excludeID when non-empty
func (r *MongoPromoRepository) FindActiveOverlapping(ctx context.Context, start, end time.Time, excludeID string) ([]*entity.Promo, error) {
	filter := bson.M{
		"isActive":  true,
		"startDate": bson.M{"$lte": end},
		"endDate":   bson.M{"$gte": start},
	}
	if excludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
			filter["_id"] = bson.M{"$ne": oid}
		}
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var promos []*entity.Promo
	if err := cursor.All(ctx, &promos); err != nil {
		return nil, err
	}
	return promos, nil
}

// FindCurrentlyActive returns the most-recently-created promo covering now
func (r *MongoPromoRepository) FindCurrentlyActive(ctx context.Context, now time.Time) (*entity.Promo, error) {
	filter := bson.M{
		"isActive":  true,
		"startDate": bson.M{"$lte": now},
		"endDate":   bson.M{"$gte": now},
	}

	var promo entity.Promo
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	err := r.collection.FindOne(ctx, filter, opts).Decode(&promo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// List returns promos newest first with the total count
func (r *MongoPromoRepository) List(ctx context.Context, skip, limit int64) ([]*entity.Promo, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, &options.FindOptions{
		Skip:  &skip,
		Limit: &limit,
		Sort:  bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var promos []*entity.Promo
	if err := cursor.All(ctx, &promos); err != nil {
		return nil, 0, err
	}

	return promos, total, nil
}

// Update applies a partial $set and returns the updated document
func (r *MongoPromoRepository) Update(ctx context.Context, id string, set map[string]interface{}) (*entity.Promo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	set["updatedAt"] = time.Now()

	after := options.After
	var promo entity.Promo
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&promo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update promo: %w", err)
	}
	return &promo, nil
}

// Delete removes a promo
func (r *MongoPromoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid promo id: %s", id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete promo: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("no promo found with id: %s", id)
	}
	return nil
}
