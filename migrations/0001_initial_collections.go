package migrations

import (
	"context"
	"fmt"
	"slices"

	"github.com/raiseyourvoice/backend/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func init() {
	AddMigration(1, "initial_collections", upInitialCollections, downInitialCollections)
}

var collectionsToCreate = []string{
	"users",
	"refreshTokens",
	"organizations",
	"campaigns",
	"donations",
	"posts",
	"comments",
	"notifications",
	"localizations",
	"encryptionKeys",
	"migrations",
}

var collectionsValidators = map[string]bson.M{
	"users":         usersCollectionValidator,
	"organizations": organizationsCollectionValidator,
	"campaigns":     campaignsCollectionValidator,
	"donations":     donationsCollectionValidator,
	"localizations": localizationsCollectionValidator,
}

var usersCollectionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "email", "password", "role"},
		"properties": bson.M{
			"email": bson.M{
				"bsonType":    "string",
				"description": "must be an email and is required",
				"pattern":     internal.EmailRegexTemplate,
			},
			"password": bson.M{
				"bsonType":    "string",
				"description": "must be a password hash and is required",
				"minLength":   8,
			},
			"role": bson.M{
				"enum":        bson.A{"user", "moderator", "admin"},
				"description": "must be one of the known roles",
			},
		},
	},
}

var organizationsCollectionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "name", "ownerId", "verificationStatus"},
		"properties": bson.M{
			"name": bson.M{
				"bsonType":    "string",
				"description": "must be a non empty string and is required",
				"minLength":   1,
			},
			"ownerId": bson.M{
				"bsonType":    "objectId",
				"description": "must be the id of the owner user and is required",
			},
			"verificationStatus": bson.M{
				"enum": bson.A{"Pending", "Verified", "Rejected"},
			},
		},
	},
}

var campaignsCollectionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "organizationId", "title", "goal", "amountRaised", "status"},
		"properties": bson.M{
			"organizationId": bson.M{
				"bsonType":    "objectId",
				"description": "must reference an organization and is required",
			},
			"goal": bson.M{
				"bsonType":    "long",
				"description": "must be a positive amount in minor units",
				"minimum":     1,
			},
			"amountRaised": bson.M{
				"bsonType":    "long",
				"description": "must be an amount in minor units and is required",
			},
			"status": bson.M{
				"enum": bson.A{"Draft", "PendingApproval", "Active", "Paused", "Completed", "Cancelled", "Rejected"},
			},
			"milestones": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"_id", "targetAmount", "isCompleted"},
					"properties": bson.M{
						"targetAmount": bson.M{"bsonType": "long", "minimum": 1},
						"isCompleted":  bson.M{"bsonType": "bool"},
					},
				},
			},
		},
	},
}

var donationsCollectionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"_id", "campaignId", "amount", "currency", "paymentStatus"},
		"properties": bson.M{
			"campaignId": bson.M{
				"bsonType":    "objectId",
				"description": "must reference a campaign and is required",
			},
			"amount": bson.M{
				"bsonType":    "long",
				"description": "must be a positive amount in minor units",
				"minimum":     1,
			},
			"currency": bson.M{
				"bsonType": "string",
				"pattern":  "^[a-z]{3}$",
			},
			"paymentStatus": bson.M{
				"enum": bson.A{"Pending", "Completed", "Failed", "Refunded", "Cancelled"},
			},
		},
	},
}

var localizationsCollectionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"key", "language", "value"},
		"properties": bson.M{
			"key":      bson.M{"bsonType": "string", "minLength": 1},
			"language": bson.M{"bsonType": "string", "pattern": "^[a-z]{2}(-[A-Z]{2})?$"},
			"value":    bson.M{"bsonType": "string"},
		},
	},
}

func upInitialCollections(ctx context.Context, database *mongo.Database) error {
	// get the current collections names to create only the missing ones
	currentCollections, err := listCollectionsInDB(ctx, database)
	if err != nil {
		return fmt.Errorf("failed to get current collections: %w", err)
	}
	for _, name := range collectionsToCreate {
		if slices.Contains(currentCollections, name) {
			continue
		}
		opts := options.CreateCollection()
		if validator, ok := collectionsValidators[name]; ok {
			opts = opts.SetValidator(validator).SetValidationLevel("strict").SetValidationAction("error")
		}
		if err := database.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}
	return nil
}

func downInitialCollections(context.Context, *mongo.Database) error {
	// dropping every collection is too destructive, and the up func is
	// idempotent anyway
	return nil
}
