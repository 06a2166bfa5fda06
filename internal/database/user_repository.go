// internal/database/user_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"club-pulse/internal/models"
	"club-pulse/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserDocument represents the MongoDB schema for a user
type UserDocument struct {
	ID             string    `bson:"_id"`            // MongoDB primary key
	Name           string    `bson:"name"`           // Display name
	PhoneNumber    string    `bson:"phoneNumber"`    // Login identifier
	HashedPassword string    `bson:"hashedPassword"` // Hashed password
	SelectedClub   string    `bson:"selectedClub"`   // Club the fan follows
	CreatedAt      time.Time `bson:"createdAt"`      // Account creation timestamp
	LastActive     time.Time `bson:"lastActive"`     // Last active timestamp
}

// SaveUser creates or updates a user in MongoDB
func (m *MongoDB) SaveUser(ctx context.Context, user *models.User) error {
	doc := UserDocument{
		ID:             user.ID.String(),
		Name:           user.Name,
		PhoneNumber:    user.PhoneNumber,
		HashedPassword: user.HashedPassword,
		SelectedClub:   user.SelectedClub,
		CreatedAt:      user.CreatedAt,
		LastActive:     user.LastActive,
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": user.ID.String()}
	update := bson.M{"$set": doc}

	_, err := m.Users.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetUser retrieves a user from MongoDB by their ID
func (m *MongoDB) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	if err != nil {
		return nil, err
	}

	return documentToUser(&doc)
}

// GetUserByPhoneNumber retrieves a user by their login identifier
func (m *MongoDB) GetUserByPhoneNumber(ctx context.Context, phoneNumber string) (*models.User, error) {
	var doc UserDocument

	err := m.Users.FindOne(ctx, bson.M{"phoneNumber": phoneNumber}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewUserNotFoundError(phoneNumber)
	}
	if err != nil {
		return nil, err
	}

	return documentToUser(&doc)
}

// UpdateUserActivity bumps the user's last-active timestamp
func (m *MongoDB) UpdateUserActivity(ctx context.Context, id uuid.UUID) error {
	filter := bson.M{"_id": id.String()}
	update := bson.M{"$set": bson.M{"lastActive": time.Now()}}

	result, err := m.Users.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return utils.NewUserNotFoundError(id.String())
	}
	return nil
}

// EnsureUserIndexes creates the unique phone number index
func (m *MongoDB) EnsureUserIndexes(ctx context.Context) error {
	_, err := m.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "phoneNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create phone number index: %v", err)
	}
	return nil
}

func documentToUser(doc *UserDocument) (*models.User, error) {
	userID, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in database: %v", err)
	}

	return &models.User{
		ID:             userID,
		Name:           doc.Name,
		PhoneNumber:    doc.PhoneNumber,
		HashedPassword: doc.HashedPassword,
		SelectedClub:   doc.SelectedClub,
		CreatedAt:      doc.CreatedAt,
		LastActive:     doc.LastActive,
	}, nil
}
