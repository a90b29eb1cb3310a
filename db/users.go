package db

import (
	"context"
	"fmt"

	"github.com/raiseyourvoice/backend/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.vocdoni.io/dvote/log"
)

// SetUser method creates or updates the user in the database. If the user
// has no ID a new one is assigned and the user is inserted, otherwise only the
// non-zero fields are updated. It returns the ID of the user.
func (ms *MongoStorage) SetUser(ctx context.Context, user *User) (internal.ObjectID, error) {
	if user == nil || user.Email == "" {
		return internal.NilObjectID, ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	user.Email = internal.NormalizeEmail(user.Email)
	user.UpdatedAt = now()
	if user.ID.IsZero() {
		user.ID = internal.NewObjectID()
		user.CreatedAt = user.UpdatedAt
		if user.Role == "" {
			user.Role = RegularRole
		}
		if user.DeviceTokens == nil {
			user.DeviceTokens = []DeviceToken{}
		}
		if _, err := ms.users.InsertOne(ctx, user); err != nil {
			if isDuplicateKey(err) {
				return internal.NilObjectID, ErrAlreadyExists
			}
			return internal.NilObjectID, fmt.Errorf("failed to insert user: %w", err)
		}
		return user.ID, nil
	}
	updateDoc, err := dynamicUpdateDocument(user, nil)
	if err != nil {
		return internal.NilObjectID, err
	}
	// device tokens are managed with their own methods
	delete(updateDoc["$set"].(bson.M), "deviceTokens")
	delete(updateDoc["$set"].(bson.M), "createdAt")
	res, err := ms.users.UpdateOne(ctx, bson.M{"_id": user.ID}, updateDoc)
	if err != nil {
		if isDuplicateKey(err) {
			return internal.NilObjectID, ErrAlreadyExists
		}
		return internal.NilObjectID, fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return internal.NilObjectID, ErrNotFound
	}
	return user.ID, nil
}

// User method returns the user with the given ID. If the user doesn't exist, it
// returns ErrNotFound.
func (ms *MongoStorage) User(ctx context.Context, id internal.ObjectID) (*User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findOne[User](ctx, ms.users, bson.M{"_id": id})
}

// UserByEmail method returns the user with the given (normalized) email.
func (ms *MongoStorage) UserByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findOne[User](ctx, ms.users, bson.M{"email": internal.NormalizeEmail(email)})
}

// DelUser method deletes the user and every refresh token issued to it.
func (ms *MongoStorage) DelUser(ctx context.Context, id internal.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := ms.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	if _, err := ms.refreshTokens.DeleteMany(ctx, bson.M{"userId": id}); err != nil {
		log.Warnw("failed to delete refresh tokens of removed user", "userID", id, "error", err)
	}
	return nil
}

// AddDeviceToken registers a push device token for the user. Registering the
// same token twice keeps a single entry.
func (ms *MongoStorage) AddDeviceToken(ctx context.Context, userID internal.ObjectID, token DeviceToken) error {
	if token.Token == "" {
		return ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	token.AddedAt = now()
	// remove any previous registration of the token, then push the new one
	if _, err := ms.users.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"deviceTokens": bson.M{"token": token.Token}}}); err != nil {
		return err
	}
	res, err := ms.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$push": bson.M{"deviceTokens": token},
		"$set":  bson.M{"updatedAt": token.AddedAt},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveDeviceToken unregisters a push device token.
func (ms *MongoStorage) RemoveDeviceToken(ctx context.Context, userID internal.ObjectID, token string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := ms.users.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"deviceTokens": bson.M{"token": token}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
