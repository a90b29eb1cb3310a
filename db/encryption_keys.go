package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActiveEncryptionKey returns the key currently used to encrypt.
func (ms *MongoStorage) ActiveEncryptionKey(ctx context.Context) (*EncryptionKey, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findOne[EncryptionKey](ctx, ms.encryptionKeys, bson.M{"active": true}, opts)
}

// EncryptionKey returns the key with the given id, active or retired.
func (ms *MongoStorage) EncryptionKey(ctx context.Context, id string) (*EncryptionKey, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findOne[EncryptionKey](ctx, ms.encryptionKeys, bson.M{"_id": id})
}

// EncryptionKeys returns every known key, newest first.
func (ms *MongoStorage) EncryptionKeys(ctx context.Context) ([]EncryptionKey, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[EncryptionKey](ctx, ms.encryptionKeys, bson.M{}, opts)
}

// RotateEncryptionKey retires the current active key, if it is still the
// expected one, and stores the new key as active in one transaction. An empty
// expected id means no key should be active yet.
func (ms *MongoStorage) RotateEncryptionKey(ctx context.Context, expectedActive string, key *EncryptionKey) error {
	if key == nil || key.ID == "" || len(key.Salt) == 0 {
		return ErrInvalidData
	}
	key.Active = true
	key.CreatedAt = now()
	key.RetiredAt = nil
	return ms.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if expectedActive != "" {
			res, err := ms.encryptionKeys.UpdateOne(sessCtx,
				bson.M{"_id": expectedActive, "active": true},
				bson.M{"$set": bson.M{"active": false, "retiredAt": key.CreatedAt}})
			if err != nil {
				return err
			}
			if res.ModifiedCount == 0 {
				return ErrUpdateWouldOverwrite
			}
		} else {
			count, err := ms.encryptionKeys.CountDocuments(sessCtx, bson.M{"active": true})
			if err != nil {
				return err
			}
			if count > 0 {
				return ErrUpdateWouldOverwrite
			}
		}
		if _, err := ms.encryptionKeys.InsertOne(sessCtx, key); err != nil {
			if isDuplicateKey(err) {
				return ErrAlreadyExists
			}
			return fmt.Errorf("failed to insert encryption key: %w", err)
		}
		return nil
	})
}
