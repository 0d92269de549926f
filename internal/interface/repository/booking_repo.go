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

// MongoBookingRepository implements the BookingRepository interface
type MongoBookingRepository struct {
	collection *mongo.Collection
}

// NewMongoBookingRepository creates a new MongoDB booking repository
func NewMongoBookingRepository(db *mongo.Database) repository.BookingRepository {
	collection := db.Collection("bookings")

	ctx := context.Background()

	// Unique only when the field is present: missions carry a DBM id,
	// customer bookings do not.
	missionIDIndex := mongo.IndexModel{
		Keys:    bson.M{"missionId": 1},
		Options: options.Index().SetUnique(true).SetSparse(true),
	}

	// Compound index backing the same-day duplicate check
	emailDateIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "email", Value: 1},
			{Key: "date", Value: 1},
		},
	}

	statusIndex := mongo.IndexModel{
		Keys: bson.M{"status": 1},
	}

	createdAtIndex := mongo.IndexModel{
		Keys: bson.M{"createdAt": -1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		missionIDIndex,
		emailDateIndex,
		statusIndex,
		createdAtIndex,
	})

	return &MongoBookingRepository{
		collection: collection,
	}
}

// Save inserts a booking, defaulting the status to pending
func (r *MongoBookingRepository) Save(ctx context.Context, booking *entity.Booking) error {
	if booking.Status == "" {
		booking.Status = entity.BookingPending
	}
	now := time.Now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid
	}
	return nil
}

// FindByID finds a booking by its object id
func (r *MongoBookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var booking entity.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// FindByMissionID finds a booking by its external DBM identifier
func (r *MongoBookingRepository) FindByMissionID(ctx context.Context, missionID string) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.collection.FindOne(ctx, bson.M{"missionId": missionID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

// ExistsForDay checks for a booking by the email inside [dayStart, dayEnd)
func (r *MongoBookingRepository) ExistsForDay(ctx context.Context, email string, dayStart, dayEnd time.Time) (bool, error) {
	filter := bson.M{
		"email": email,
		"date": bson.M{
			"$gte": dayStart,
			"$lt":  dayEnd,
		},
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count > 0, nil
}

// List returns bookings matching the filter, newest first, with the total count
func (r *MongoBookingRepository) List(ctx context.Context, filter entity.BookingFilter, skip, limit int64) ([]*entity.Booking, int64, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Source != "" {
		query["source"] = filter.Source
	}
	if filter.Service != "" {
		query["service"] = filter.Service
	}
	if filter.Email != "" {
		query["email"] = filter.Email
	}
	if filter.DateFrom != nil || filter.DateTo != nil {
		dateRange := bson.M{}
		if filter.DateFrom != nil {
			dateRange["$gte"] = *filter.DateFrom
		}
		if filter.DateTo != nil {
			dateRange["$lte"] = *filter.DateTo
		}
		query["date"] = dateRange
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.collection.Find(ctx, query, &options.FindOptions{
		Skip:  &skip,
		Limit: &limit,
		Sort:  bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var bookings []*entity.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// Update applies a partial $set and returns the updated document
func (r *MongoBookingRepository) Update(ctx context.Context, id string, set map[string]interface{}) (*entity.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	set["updatedAt"] = time.Now()

	after := options.After
	var booking entity.Booking
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return &booking, nil
}

// Delete removes a booking permanently
func (r *MongoBookingRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid booking id: %s", id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("no booking found with id: %s", id)
	}
	return nil
}

// Stats runs the dashboard aggregations: totals, per-status counts with
// revenue, monthly buckets and mission payout sums.
func (r *MongoBookingRepository) Stats(ctx context.Context) (*entity.BookingStats, error) {
	stats := &entity.BookingStats{}

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	stats.Total = total

	statusPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": bson.M{
				"$ifNull": bson.A{"$finalPrice", bson.M{"$ifNull": bson.A{"$estimatedPrice", 0}}},
			}},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, statusPipeline)
	if err != nil {
		return nil, fmt.Errorf("status aggregation failed: %w", err)
	}
	if err := cursor.All(ctx, &stats.ByStatus); err != nil {
		return nil, err
	}

	monthPipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$date"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err = r.collection.Aggregate(ctx, monthPipeline)
	if err != nil {
		return nil, fmt.Errorf("monthly aggregation failed: %w", err)
	}
	if err := cursor.All(ctx, &stats.ByMonth); err != nil {
		return nil, err
	}

	missionPipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"source": bson.M{"$ne": entity.SourceCustomer}}}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"count":  bson.M{"$sum": 1},
			"payout": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$payout", 0}}},
		}}},
	}
	cursor, err = r.collection.Aggregate(ctx, missionPipeline)
	if err != nil {
		return nil, fmt.Errorf("mission aggregation failed: %w", err)
	}
	var missionTotals []struct {
		Count  int64   `bson:"count"`
		Payout float64 `bson:"payout"`
	}
	if err := cursor.All(ctx, &missionTotals); err != nil {
		return nil, err
	}
	if len(missionTotals) > 0 {
		stats.MissionCount = missionTotals[0].Count
		stats.MissionPayout = missionTotals[0].Payout
	}

	return stats, nil
}
