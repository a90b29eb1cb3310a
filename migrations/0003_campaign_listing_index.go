package migrations

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func init() {
	AddMigration(3, "campaign_listing_index", upCampaignListingIndex, downCampaignListingIndex)
}

// upCampaignListingIndex replaces the single status index with the compound
// one used by the public listings, and backfills the flags that older
// campaign and donation documents may lack.
func upCampaignListingIndex(ctx context.Context, database *mongo.Database) error {
	campaigns := database.Collection("campaigns")
	backfill := func() error {
		for field, value := range map[string]any{
			"featured":    false,
			"goalReached": false,
			"milestones":  bson.A{},
			"updates":     bson.A{},
		} {
			if _, err := campaigns.UpdateMany(ctx,
				bson.M{field: bson.M{"$exists": false}},
				bson.M{"$set": bson.M{field: value}}); err != nil {
				return fmt.Errorf("failed to backfill campaigns %s: %w", field, err)
			}
		}
		if _, err := database.Collection("donations").UpdateMany(ctx,
			bson.M{"statusHistory": bson.M{"$exists": false}},
			bson.M{"$set": bson.M{"statusHistory": bson.A{}}}); err != nil {
			return fmt.Errorf("failed to backfill donations status history: %w", err)
		}
		return nil
	}
	return replaceIndex(ctx, campaigns, []string{"status"}, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "featured", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("status_featured_createdAt"),
		},
	}, backfill)
}

func downCampaignListingIndex(ctx context.Context, database *mongo.Database) error {
	return replaceIndex(ctx, database.Collection("campaigns"),
		[]string{"status_featured_createdAt"},
		[]mongo.IndexModel{{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status"),
		}}, nil)
}
