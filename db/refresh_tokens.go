package db

import (
	"context"
	"fmt"

	"github.com/raiseyourvoice/backend/internal"
	"go.mongodb.org/mongo-driver/bson"
)

// SetRefreshToken stores a new refresh token record.
func (ms *MongoStorage) SetRefreshToken(ctx context.Context, token *RefreshToken) error {
	if token == nil || token.TokenHash == "" || token.UserID.IsZero() {
		return ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if token.ID.IsZero() {
		token.ID = internal.NewObjectID()
	}
	token.CreatedAt = now()
	if _, err := ms.refreshTokens.InsertOne(ctx, token); err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

// RefreshTokenByHash returns the refresh token with the given hash, revoked
// or not.
func (ms *MongoStorage) RefreshTokenByHash(ctx context.Context, hash string) (*RefreshToken, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findOne[RefreshToken](ctx, ms.refreshTokens, bson.M{"tokenHash": hash})
}

// RevokeRefreshToken marks the token as revoked if it was still active. The
// replacedBy argument records the hash of the token issued in its place, if
// any. It returns ErrUpdateWouldOverwrite when the token was already revoked,
// which lets callers detect a concurrent rotation of the same token.
func (ms *MongoStorage) RevokeRefreshToken(ctx context.Context, id internal.ObjectID, replacedBy string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	set := bson.M{"revokedAt": now()}
	if replacedBy != "" {
		set["replacedBy"] = replacedBy
	}
	res, err := ms.refreshTokens.UpdateOne(ctx,
		bson.M{"_id": id, "revokedAt": bson.M{"$exists": false}},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUpdateWouldOverwrite
	}
	return nil
}

// RevokeRefreshTokenFamily revokes every active token of the family.
func (ms *MongoStorage) RevokeRefreshTokenFamily(ctx context.Context, family string) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := ms.refreshTokens.UpdateMany(ctx,
		bson.M{"family": family, "revokedAt": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"revokedAt": now()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// RevokeUserRefreshTokens revokes every active token of the user, used when
// the password changes.
func (ms *MongoStorage) RevokeUserRefreshTokens(ctx context.Context, userID internal.ObjectID) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := ms.refreshTokens.UpdateMany(ctx,
		bson.M{"userId": userID, "revokedAt": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"revokedAt": now()}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
