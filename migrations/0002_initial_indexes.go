package migrations

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func init() {
	AddMigration(2, "initial_indexes", upInitialIndexes, downInitialIndexes)
}

var initialIndexes = map[string][]mongo.IndexModel{
	"users": {
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
	},
	"refreshTokens": {
		{
			Keys:    bson.D{{Key: "tokenHash", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("tokenHash_unique"),
		},
		{
			Keys:    bson.D{{Key: "family", Value: 1}},
			Options: options.Index().SetName("family"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId"),
		},
		// expired tokens are removed by mongo itself
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("expiresAt_ttl"),
		},
	},
	"organizations": {
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("name_unique"),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}},
			Options: options.Index().SetName("ownerId"),
		},
	},
	"campaigns": {
		{
			Keys:    bson.D{{Key: "organizationId", Value: 1}},
			Options: options.Index().SetName("organizationId"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status"),
		},
	},
	"donations": {
		// only donations linked to a gateway transaction must be unique
		{
			Keys: bson.D{{Key: "transactionId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("transactionId_unique").
				SetPartialFilterExpression(bson.M{"transactionId": bson.M{"$type": "string"}}),
		},
		{
			Keys:    bson.D{{Key: "campaignId", Value: 1}, {Key: "paymentStatus", Value: 1}},
			Options: options.Index().SetName("campaignId_paymentStatus"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("userId_createdAt"),
		},
		{
			Keys: bson.D{{Key: "subscriptionId", Value: 1}},
			Options: options.Index().SetName("subscriptionId").
				SetPartialFilterExpression(bson.M{"subscriptionId": bson.M{"$type": "string"}}),
		},
	},
	"posts": {
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt"),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("tags"),
		},
	},
	"comments": {
		{
			Keys:    bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("postId_createdAt"),
		},
	},
	"notifications": {
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "read", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("userId_read_createdAt"),
		},
		{
			Keys:    bson.D{{Key: "type", Value: 1}},
			Options: options.Index().SetName("type"),
		},
	},
	"localizations": {
		{
			Keys:    bson.D{{Key: "key", Value: 1}, {Key: "language", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("key_language_unique"),
		},
		{
			Keys:    bson.D{{Key: "language", Value: 1}},
			Options: options.Index().SetName("language"),
		},
	},
	"encryptionKeys": {
		{
			Keys:    bson.D{{Key: "active", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("active_createdAt"),
		},
	},
	"migrations": {
		{
			Keys:    bson.D{{Key: "version", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("version_unique"),
		},
	},
}

func upInitialIndexes(ctx context.Context, database *mongo.Database) error {
	for collection, indexes := range initialIndexes {
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}
	return nil
}

func downInitialIndexes(ctx context.Context, database *mongo.Database) error {
	for collection, indexes := range initialIndexes {
		for _, index := range indexes {
			if _, err := database.Collection(collection).Indexes().DropOne(ctx, *index.Options.Name); err != nil {
				return fmt.Errorf("failed to drop index %s on %s: %w", *index.Options.Name, collection, err)
			}
		}
	}
	return nil
}
