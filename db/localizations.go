package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetLocalizedString upserts the value of the key in the language.
func (ms *MongoStorage) SetLocalizedString(ctx context.Context, key, language, value string) error {
	if key == "" || language == "" {
		return ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := ms.localizations.UpdateOne(ctx,
		bson.M{"key": key, "language": language},
		bson.M{"$set": bson.M{"value": value, "updatedAt": now()}},
		options.Update().SetUpsert(true))
	return err
}

// InsertLocalizedStringIfMissing stores the value only if the key does not
// exist yet in the language. It returns true when the value was inserted.
func (ms *MongoStorage) InsertLocalizedStringIfMissing(ctx context.Context, key, language, value string,
) (bool, error) {
	if key == "" || language == "" {
		return false, ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := ms.localizations.UpdateOne(ctx,
		bson.M{"key": key, "language": language},
		bson.M{"$setOnInsert": bson.M{"value": value, "updatedAt": now()}},
		options.Update().SetUpsert(true))
	if err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}
	return res.UpsertedCount == 1, nil
}

// LocalizedString returns the value of the key in the language.
func (ms *MongoStorage) LocalizedString(ctx context.Context, key, language string) (*LocalizedString, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findOne[LocalizedString](ctx, ms.localizations, bson.M{"key": key, "language": language})
}

// LocalizedStrings returns every key of the language.
func (ms *MongoStorage) LocalizedStrings(ctx context.Context, language string) ([]LocalizedString, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "key", Value: 1}})
	return findAll[LocalizedString](ctx, ms.localizations, bson.M{"language": language}, opts)
}

// DelLocalizedString removes the key of the language.
func (ms *MongoStorage) DelLocalizedString(ctx context.Context, key, language string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := ms.localizations.DeleteOne(ctx, bson.M{"key": key, "language": language})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
