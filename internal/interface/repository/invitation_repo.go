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

// MongoInvitationRepository implements the InvitationRepository interface
type MongoInvitationRepository struct {
	collection *mongo.Collection
}

// NewMongoInvitationRepository creates a new MongoDB invitation repository
func NewMongoInvitationRepository(db *mongo.Database) repository.InvitationRepository {
	collection := db.Collection("invitations")

	ctx := context.Background()

	tokenIndex := mongo.IndexModel{
		Keys:    bson.M{"token": 1},
		Options: options.Index().SetUnique(true),
	}

	// At most one pending invitation per email
	pendingEmailIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "email", Value: 1},
			{Key: "status", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetPartialFilterExpression(
			bson.M{"status": entity.InviteStatusPending},
		),
	}

	statusIndex := mongo.IndexModel{
		Keys: bson.M{"status": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		tokenIndex,
		pendingEmailIndex,
		statusIndex,
	})

	return &MongoInvitationRepository{
		collection: collection,
	}
}

// Save inserts an invitation
func (r *MongoInvitationRepository) Save(ctx context.Context, invitation *entity.Invitation) error {
	if invitation.Status == "" {
		invitation.Status = entity.InviteStatusPending
	}

	result, err := r.collection.InsertOne(ctx, invitation)
	if err != nil {
		return fmt.Errorf("failed to insert invitation: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		invitation.ID = oid
	}
	return nil
}

// FindByID finds an invitation by its object id
func (r *MongoInvitationRepository) FindByID(ctx context.Context, id string) (*entity.Invitation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var invitation entity.Invitation
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&invitation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &invitation, nil
}

// FindByToken finds an invitation by its opaque token
func (r *MongoInvitationRepository) FindByToken(ctx context.Context, token string) (*entity.Invitation, error) {
	var invitation entity.Invitation
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&invitation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &invitation, nil
}

// FindPendingByEmail finds the pending invitation for an email, if any
func (r *MongoInvitationRepository) FindPendingByEmail(ctx context.Context, email string) (*entity.Invitation, error) {
	filter := bson.M{
		"email":  email,
		"status": entity.InviteStatusPending,
	}

	var invitation entity.Invitation
	err := r.collection.FindOne(ctx, filter).Decode(&invitation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &invitation, nil
}

// Refresh rotates the token and extends the expiry in place
func (r *MongoInvitationRepository) Refresh(ctx context.Context, id string, token string, invitedAt, expiresAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid invitation id: %s", id)
	}

	update := bson.M{
		"$set": bson.M{
			"token":     token,
			"invitedAt": invitedAt,
			"expiresAt": expiresAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to refresh invitation: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no invitation found with id: %s", id)
	}
	return nil
}

// MarkAccepted flips a pending invitation to accepted exactly once
func (r *MongoInvitationRepository) MarkAccepted(ctx context.Context, id string, acceptedAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid invitation id: %s", id)
	}

	// Filtering on status keeps a retried acceptance idempotent.
	filter := bson.M{"_id": oid, "status": entity.InviteStatusPending}
	update := bson.M{
		"$set": bson.M{
			"status":     entity.InviteStatusAccepted,
			"acceptedAt": acceptedAt,
		},
	}

	_, err = r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark invitation accepted: %w", err)
	}
	return nil
}

// List returns invitations newest first, optionally filtered by status
func (r *MongoInvitationRepository) List(ctx context.Context, status string, skip, limit int64) ([]*entity.Invitation, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Skip:  &skip,
		Limit: &limit,
		Sort:  bson.D{{Key: "invitedAt", Value: -1}},
	})
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var invitations []*entity.Invitation
	if err := cursor.All(ctx, &invitations); err != nil {
		return nil, 0, err
	}

	return invitations, total, nil
}

// Delete removes an invitation
func (r *MongoInvitationRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid invitation id: %s", id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("no invitation found with id: %s", id)
	}
	return nil
}
