package db

import (
	"context"
	"fmt"

	"github.com/raiseyourvoice/backend/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// campaignEditableFields are the only fields SetCampaign changes on an
// existing campaign. Status, amounts, milestones and updates have their own
// methods.
var campaignEditableFields = []string{
	"title", "description", "category", "imageURL", "goal", "currency", "startDate", "endDate",
}

// SetCampaign inserts a new campaign in Draft status when it has no ID, or
// updates the editable fields of an existing one. When expected statuses are
// given, the update only applies if the stored campaign is in one of them.
func (ms *MongoStorage) SetCampaign(ctx context.Context, campaign *Campaign, expected ...CampaignStatus,
) (internal.ObjectID, error) {
	if campaign == nil || campaign.Title == "" || campaign.Goal <= 0 {
		return internal.NilObjectID, ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	campaign.UpdatedAt = now()
	if campaign.ID.IsZero() {
		if campaign.OrganizationID.IsZero() {
			return internal.NilObjectID, ErrInvalidData
		}
		campaign.ID = internal.NewObjectID()
		campaign.CreatedAt = campaign.UpdatedAt
		campaign.Status = CampaignDraft
		campaign.AmountRaised = 0
		campaign.Featured = false
		campaign.GoalReached = false
		if campaign.Milestones == nil {
			campaign.Milestones = []Milestone{}
		}
		if campaign.Updates == nil {
			campaign.Updates = []CampaignUpdate{}
		}
		if _, err := ms.campaigns.InsertOne(ctx, campaign); err != nil {
			return internal.NilObjectID, fmt.Errorf("failed to insert campaign: %w", err)
		}
		return campaign.ID, nil
	}
	updateDoc, err := dynamicUpdateDocument(campaign, nil)
	if err != nil {
		return internal.NilObjectID, err
	}
	set := updateDoc["$set"].(bson.M)
	allowed := bson.M{"updatedAt": campaign.UpdatedAt}
	for _, field := range campaignEditableFields {
		if v, ok := set[field]; ok {
			allowed[field] = v
		}
	}
	filter := bson.M{"_id": campaign.ID}
	if len(expected) > 0 {
		filter["status"] = bson.M{"$in": expected}
	}
	res, err := ms.campaigns.UpdateOne(ctx, filter, bson.M{"$set": allowed})
	if err != nil {
		return internal.NilObjectID, fmt.Errorf("failed to update campaign: %w", err)
	}
	if res.MatchedCount == 0 {
		return internal.NilObjectID, ms.campaignMissOrConflict(ctx, campaign.ID)
	}
	return campaign.ID, nil
}

// Campaign returns the campaign with the given ID.
func (ms *MongoStorage) Campaign(ctx context.Context, id internal.ObjectID) (*Campaign, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findOne[Campaign](ctx, ms.campaigns, bson.M{"_id": id})
}

// Campaigns returns a page of campaigns matching the filter, newest first.
func (ms *MongoStorage) Campaigns(ctx context.Context, f CampaignFilter, page, pageSize int64,
) (int64, []Campaign, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if !f.OrganizationID.IsZero() {
		filter["organizationId"] = f.OrganizationID
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Featured != nil {
		filter["featured"] = *f.Featured
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return paginatedDocuments[Campaign](ctx, ms.campaigns, page, pageSize, filter, opts)
}

// CampaignsRaised returns every campaign with only its id and amountRaised
// populated.
func (ms *MongoStorage) CampaignsRaised(ctx context.Context) ([]Campaign, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	opts := options.Find().SetProjection(bson.M{"_id": 1, "amountRaised": 1, "title": 1})
	return findAll[Campaign](ctx, ms.campaigns, bson.M{}, opts)
}

// UpdateCampaignStatus moves the campaign from the expected status to the
// next one. If the stored status is not the expected one it returns
// ErrUpdateWouldOverwrite. Campaigns leaving the Active status lose their
// featured flag.
func (ms *MongoStorage) UpdateCampaignStatus(ctx context.Context, id internal.ObjectID,
	expected, next CampaignStatus, reason string,
) error {
	if !IsValidCampaignStatus(next) {
		return ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	set := bson.M{"status": next, "updatedAt": now()}
	if next != CampaignActive {
		set["featured"] = false
	}
	update := bson.M{"$set": set}
	if reason != "" {
		set["rejectionReason"] = reason
	} else {
		update["$unset"] = bson.M{"rejectionReason": ""}
	}
	res, err := ms.campaigns.UpdateOne(ctx, bson.M{"_id": id, "status": expected}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ms.campaignMissOrConflict(ctx, id)
	}
	return nil
}

// SetCampaignFeatured sets the featured flag. Only Active campaigns can be
// featured; unfeaturing works in any status.
func (ms *MongoStorage) SetCampaignFeatured(ctx context.Context, id internal.ObjectID, featured bool) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	filter := bson.M{"_id": id}
	if featured {
		filter["status"] = CampaignActive
	}
	res, err := ms.campaigns.UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{"featured": featured, "updatedAt": now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ms.campaignMissOrConflict(ctx, id)
	}
	return nil
}

// AddCampaignMilestone appends a milestone keeping the list sorted by target
// amount. It returns the stored milestone.
func (ms *MongoStorage) AddCampaignMilestone(ctx context.Context, campaignID internal.ObjectID,
	milestone Milestone,
) (*Milestone, error) {
	if milestone.TargetAmount <= 0 || milestone.Title == "" {
		return nil, ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	milestone.ID = internal.NewObjectID()
	milestone.IsCompleted = false
	milestone.ReachedAt = nil
	res, err := ms.campaigns.UpdateOne(ctx, bson.M{"_id": campaignID}, bson.M{
		"$push": bson.M{"milestones": bson.M{
			"$each": []Milestone{milestone},
			"$sort": bson.M{"targetAmount": 1},
		}},
		"$set": bson.M{"updatedAt": now()},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &milestone, nil
}

// AddCampaignUpdate appends an entry to the campaign updates log.
func (ms *MongoStorage) AddCampaignUpdate(ctx context.Context, campaignID internal.ObjectID,
	update CampaignUpdate,
) (*CampaignUpdate, error) {
	if update.Title == "" || update.Content == "" {
		return nil, ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	update.ID = internal.NewObjectID()
	update.CreatedAt = now()
	res, err := ms.campaigns.UpdateOne(ctx, bson.M{"_id": campaignID}, bson.M{
		"$push": bson.M{"updates": update},
		"$set":  bson.M{"updatedAt": update.CreatedAt},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &update, nil
}

// IncCampaignAmountRaised atomically adds delta (negative for refunds) to the
// raised amount and returns the campaign after the update. It joins the
// transaction of ctx when called with a session context.
func (ms *MongoStorage) IncCampaignAmountRaised(ctx context.Context, id internal.ObjectID, delta int64,
) (*Campaign, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	campaign := &Campaign{}
	err := ms.campaigns.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"amountRaised": delta},
		"$set": bson.M{"updatedAt": now()},
	}, opts).Decode(campaign)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return campaign, nil
}

// SetCampaignAmountRaised overwrites the raised amount if it still holds the
// expected value, otherwise it returns ErrUpdateWouldOverwrite. It is only
// meant for reconciliation against the completed donations.
func (ms *MongoStorage) SetCampaignAmountRaised(ctx context.Context, id internal.ObjectID, expected, amount int64,
) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := ms.campaigns.UpdateOne(ctx, bson.M{"_id": id, "amountRaised": expected},
		bson.M{"$set": bson.M{"amountRaised": amount, "updatedAt": now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ms.campaignMissOrConflict(ctx, id)
	}
	return nil
}

// CompleteMilestone flips the milestone to completed if it was not completed
// yet and the raised amount covers its target. The filter and the update run
// as a single document operation, so among concurrent callers exactly one
// gets true.
func (ms *MongoStorage) CompleteMilestone(ctx context.Context, campaignID, milestoneID internal.ObjectID,
	target int64,
) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	filter := bson.M{
		"_id":          campaignID,
		"amountRaised": bson.M{"$gte": target},
		"milestones": bson.M{"$elemMatch": bson.M{
			"_id":         milestoneID,
			"isCompleted": false,
		}},
	}
	ts := now()
	res, err := ms.campaigns.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"milestones.$.isCompleted": true,
		"milestones.$.reachedAt":   ts,
		"updatedAt":                ts,
	}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// MarkGoalReached sets the goalReached flag once the raised amount covers the
// goal. Only the caller that flips the flag gets true.
func (ms *MongoStorage) MarkGoalReached(ctx context.Context, campaignID internal.ObjectID) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	filter := bson.M{
		"_id":         campaignID,
		"goalReached": false,
		"$expr":       bson.M{"$gte": bson.A{"$amountRaised", "$goal"}},
	}
	res, err := ms.campaigns.UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{"goalReached": true, "updatedAt": now()}})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// DelCampaign removes the campaign if its status is one of the allowed ones.
func (ms *MongoStorage) DelCampaign(ctx context.Context, id internal.ObjectID, allowed ...CampaignStatus) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	filter := bson.M{"_id": id}
	if len(allowed) > 0 {
		filter["status"] = bson.M{"$in": allowed}
	}
	res, err := ms.campaigns.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ms.campaignMissOrConflict(ctx, id)
	}
	return nil
}

// campaignMissOrConflict tells apart a missing campaign from one whose state
// did not match a conditional operation.
func (ms *MongoStorage) campaignMissOrConflict(ctx context.Context, id internal.ObjectID) error {
	count, err := ms.campaigns.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrUpdateWouldOverwrite
}
