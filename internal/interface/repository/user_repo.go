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

// MongoUserRepository implements the UserRepository interface
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	collection := db.Collection("users")

	ctx := context.Background()

	emailIndex := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}

	roleIndex := mongo.IndexModel{
		Keys: bson.M{"role": 1},
	}

	verifyTokenIndex := mongo.IndexModel{
		Keys:    bson.M{"emailVerification.token": 1},
		Options: options.Index().SetSparse(true),
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		emailIndex,
		roleIndex,
		verifyTokenIndex,
	})

	return &MongoUserRepository{
		collection: collection,
	}
}

// Save inserts a user, defaulting the role to user
func (r *MongoUserRepository) Save(ctx context.Context, user *entity.User) error {
	if user.Role == "" {
		user.Role = entity.RoleUser
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// FindByID finds a user by its object id
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var user entity.User
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindAllByEmail returns every document carrying the email in creation order
func (r *MongoUserRepository) FindAllByEmail(ctx context.Context, email string) ([]*entity.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"email": email}, &options.FindOptions{
		Sort: bson.D{{Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*entity.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindByVerificationToken finds the user holding an email-verification token
func (r *MongoUserRepository) FindByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	var user entity.User
	err := r.collection.FindOne(ctx, bson.M{"emailVerification.token": token}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Update applies a partial $set to a user document
func (r *MongoUserRepository) Update(ctx context.Context, id string, set map[string]interface{}) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid user id: %s", id)
	}

	set["updatedAt"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no user found with id: %s", id)
	}
	return nil
}

// AppendRoleChange sets the role and pushes the audit entry in one write
func (r *MongoUserRepository) AppendRoleChange(ctx context.Context, id string, role string, change entity.RoleChange) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid user id: %s", id)
	}

	update := bson.M{
		"$set": bson.M{
			"role":      role,
			"updatedAt": time.Now(),
		},
		"$push": bson.M{"roleHistory": change},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to append role change: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no user found with id: %s", id)
	}
	return nil
}

// List returns users newest first, optionally filtered by role
func (r *MongoUserRepository) List(ctx context.Context, role string, skip, limit int64) ([]*entity.User, int64, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.collection.Find(ctx, filter, &options.FindOptions{
		Skip:  &skip,
		Limit: &limit,
		Sort:  bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []*entity.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Delete removes a user permanently. Used by the duplicate-merge cleanup.
func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid user id: %s", id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("no user found with id: %s", id)
	}
	return nil
}
