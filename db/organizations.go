package db

import (
	"context"
	"fmt"

	"github.com/raiseyourvoice/backend/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetOrganization creates the organization if it has no ID or updates its
// non-zero fields otherwise. New organizations always start Pending
// verification; the verification status can only be changed through
// SetOrganizationVerification.
func (ms *MongoStorage) SetOrganization(ctx context.Context, org *Organization) (internal.ObjectID, error) {
	if org == nil || org.Name == "" {
		return internal.NilObjectID, ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	org.UpdatedAt = now()
	if org.ID.IsZero() {
		if org.OwnerID.IsZero() {
			return internal.NilObjectID, ErrInvalidData
		}
		org.ID = internal.NewObjectID()
		org.CreatedAt = org.UpdatedAt
		org.VerificationStatus = VerificationPending
		if _, err := ms.organizations.InsertOne(ctx, org); err != nil {
			if isDuplicateKey(err) {
				return internal.NilObjectID, ErrAlreadyExists
			}
			return internal.NilObjectID, fmt.Errorf("failed to insert organization: %w", err)
		}
		return org.ID, nil
	}
	updateDoc, err := dynamicUpdateDocument(org, nil)
	if err != nil {
		return internal.NilObjectID, err
	}
	set := updateDoc["$set"].(bson.M)
	for _, protected := range []string{"ownerId", "verificationStatus", "rejectionReason", "createdAt"} {
		delete(set, protected)
	}
	res, err := ms.organizations.UpdateOne(ctx, bson.M{"_id": org.ID}, updateDoc)
	if err != nil {
		if isDuplicateKey(err) {
			return internal.NilObjectID, ErrAlreadyExists
		}
		return internal.NilObjectID, fmt.Errorf("failed to update organization: %w", err)
	}
	if res.MatchedCount == 0 {
		return internal.NilObjectID, ErrNotFound
	}
	return org.ID, nil
}

// Organization returns the organization with the given ID.
func (ms *MongoStorage) Organization(ctx context.Context, id internal.ObjectID) (*Organization, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findOne[Organization](ctx, ms.organizations, bson.M{"_id": id})
}

// Organizations returns a page of organizations, optionally filtered by
// verification status, sorted by name.
func (ms *MongoStorage) Organizations(ctx context.Context, status VerificationStatus, page, pageSize int64,
) (int64, []Organization, error) {
	filter := bson.M{}
	if status != "" {
		filter["verificationStatus"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return paginatedDocuments[Organization](ctx, ms.organizations, page, pageSize, filter, opts)
}

// SetOrganizationVerification changes the verification status of the
// organization. A reason is stored only for rejections.
func (ms *MongoStorage) SetOrganizationVerification(ctx context.Context, id internal.ObjectID,
	status VerificationStatus, reason string,
) error {
	switch status {
	case VerificationPending, VerificationVerified, VerificationRejected:
	default:
		return ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	update := bson.M{"$set": bson.M{"verificationStatus": status, "updatedAt": now()}}
	if status == VerificationRejected {
		update["$set"].(bson.M)["rejectionReason"] = reason
	} else {
		update["$unset"] = bson.M{"rejectionReason": ""}
	}
	res, err := ms.organizations.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DelOrganization removes the organization. Organizations that still own
// campaigns cannot be removed.
func (ms *MongoStorage) DelOrganization(ctx context.Context, id internal.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	count, err := ms.campaigns.CountDocuments(ctx, bson.M{"organizationId": id})
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: organization has %d campaigns", ErrInvalidData, count)
	}
	res, err := ms.organizations.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
