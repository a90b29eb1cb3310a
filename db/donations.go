package db

import (
	"context"
	"fmt"

	"github.com/raiseyourvoice/backend/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertDonation stores a new donation and records its initial status in the
// status history. A duplicated transactionId returns ErrAlreadyExists. It
// joins the transaction of ctx when called with a session context.
func (ms *MongoStorage) InsertDonation(ctx context.Context, donation *Donation, source string,
) (internal.ObjectID, error) {
	if donation == nil || donation.CampaignID.IsZero() || donation.Amount <= 0 {
		return internal.NilObjectID, ErrInvalidData
	}
	if donation.PaymentStatus == "" {
		donation.PaymentStatus = PaymentPending
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	if donation.ID.IsZero() {
		donation.ID = internal.NewObjectID()
	}
	donation.CreatedAt = now()
	donation.UpdatedAt = donation.CreatedAt
	donation.StatusHistory = []StatusChange{{
		To:     donation.PaymentStatus,
		Source: source,
		At:     donation.CreatedAt,
	}}
	if _, err := ms.donations.InsertOne(ctx, donation); err != nil {
		if isDuplicateKey(err) {
			return internal.NilObjectID, ErrAlreadyExists
		}
		return internal.NilObjectID, fmt.Errorf("failed to insert donation: %w", err)
	}
	return donation.ID, nil
}

// Donation returns the donation with the given ID.
func (ms *MongoStorage) Donation(ctx context.Context, id internal.ObjectID) (*Donation, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findOne[Donation](ctx, ms.donations, bson.M{"_id": id})
}

// DonationByTransactionID returns the donation linked to the gateway
// transaction (payment intent or invoice) reference.
func (ms *MongoStorage) DonationByTransactionID(ctx context.Context, transactionID string) (*Donation, error) {
	if transactionID == "" {
		return nil, ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findOne[Donation](ctx, ms.donations, bson.M{"transactionId": transactionID})
}

// DonationBySubscription returns the oldest donation of the gateway
// subscription in the given status.
func (ms *MongoStorage) DonationBySubscription(ctx context.Context, subscriptionID string,
	status PaymentStatus,
) (*Donation, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return findOne[Donation](ctx, ms.donations, bson.M{
		"subscriptionId": subscriptionID,
		"paymentStatus":  status,
	}, opts)
}

// DonationsByCampaign returns a page of the campaign donations, newest first.
// An empty status returns every donation.
func (ms *MongoStorage) DonationsByCampaign(ctx context.Context, campaignID internal.ObjectID,
	status PaymentStatus, page, pageSize int64,
) (int64, []Donation, error) {
	filter := bson.M{"campaignId": campaignID}
	if status != "" {
		filter["paymentStatus"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return paginatedDocuments[Donation](ctx, ms.donations, page, pageSize, filter, opts)
}

// DonationsByUser returns a page of the donations made by the user.
func (ms *MongoStorage) DonationsByUser(ctx context.Context, userID internal.ObjectID, page, pageSize int64,
) (int64, []Donation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return paginatedDocuments[Donation](ctx, ms.donations, page, pageSize, bson.M{"userId": userID}, opts)
}

// TransitionDonation moves the donation from the expected status to the next
// one, appending the change to the status history, and returns the updated
// donation. When the stored status is not the expected one it returns
// ErrUpdateWouldOverwrite. It joins the transaction of ctx when called with
// a session context.
func (ms *MongoStorage) TransitionDonation(ctx context.Context, id internal.ObjectID,
	from, to PaymentStatus, source string,
) (*Donation, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	ts := now()
	set := bson.M{"paymentStatus": to, "updatedAt": ts}
	if to == PaymentRefunded {
		set["refundedAt"] = ts
	}
	update := bson.M{
		"$set": set,
		"$push": bson.M{"statusHistory": StatusChange{
			From:   from,
			To:     to,
			Source: source,
			At:     ts,
		}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	donation := &Donation{}
	err := ms.donations.FindOneAndUpdate(ctx, bson.M{"_id": id, "paymentStatus": from}, update, opts).
		Decode(donation)
	if err == nil {
		return donation, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}
	count, err := ms.donations.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrUpdateWouldOverwrite
}

// SetDonationTransactionID links a stored donation with its gateway
// reference.
func (ms *MongoStorage) SetDonationTransactionID(ctx context.Context, id internal.ObjectID, transactionID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := ms.donations.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"transactionId": transactionID, "updatedAt": now()}})
	if err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadyExists
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetDonationSubscriptionID links a stored donation with its gateway
// subscription.
func (ms *MongoStorage) SetDonationSubscriptionID(ctx context.Context, id internal.ObjectID,
	subscriptionID string,
) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := ms.donations.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"subscriptionId": subscriptionID, "updatedAt": now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetSubscriptionCancelled stamps every donation of the subscription with the
// cancellation time. Donations already stamped keep their time.
func (ms *MongoStorage) SetSubscriptionCancelled(ctx context.Context, subscriptionID string) error {
	if subscriptionID == "" {
		return ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	ts := now()
	_, err := ms.donations.UpdateMany(ctx, bson.M{
		"subscriptionId":          subscriptionID,
		"subscriptionCancelledAt": bson.M{"$exists": false},
	}, bson.M{"$set": bson.M{"subscriptionCancelledAt": ts, "updatedAt": ts}})
	return err
}

// completedTotalsPipeline groups the completed donations per campaign.
func completedTotalsPipeline(match bson.M) mongo.Pipeline {
	match["paymentStatus"] = PaymentCompleted
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$campaignId",
			"total":  bson.M{"$sum": "$amount"},
			"count":  bson.M{"$sum": 1},
			"donors": bson.M{"$addToSet": "$userId"},
		}}},
		{{Key: "$project", Value: bson.M{
			"total": 1,
			"count": 1,
			"donors": bson.M{"$size": bson.M{"$filter": bson.M{
				"input": "$donors",
				"cond":  bson.M{"$ne": bson.A{"$$this", internal.NilObjectID}},
			}}},
		}}},
	}
}

// CampaignDonationTotals aggregates the completed donations of every
// campaign.
func (ms *MongoStorage) CampaignDonationTotals(ctx context.Context) ([]CampaignTotal, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	cursor, err := ms.donations.Aggregate(ctx, completedTotalsPipeline(bson.M{}))
	if err != nil {
		return nil, err
	}
	totals := []CampaignTotal{}
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, err
	}
	return totals, nil
}

// SumCompletedDonations aggregates the completed donations of one campaign.
// A campaign without donations returns a zero total.
func (ms *MongoStorage) SumCompletedDonations(ctx context.Context, campaignID internal.ObjectID,
) (*CampaignTotal, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	cursor, err := ms.donations.Aggregate(ctx, completedTotalsPipeline(bson.M{"campaignId": campaignID}))
	if err != nil {
		return nil, err
	}
	totals := []CampaignTotal{}
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return &CampaignTotal{CampaignID: campaignID}, nil
	}
	return &totals[0], nil
}
