package db

import (
	"context"
	"fmt"

	"github.com/raiseyourvoice/backend/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertNotification stores an in-app notification for the user.
func (ms *MongoStorage) InsertNotification(ctx context.Context, n *Notification) (internal.ObjectID, error) {
	if n == nil || n.UserID.IsZero() || n.Type == "" {
		return internal.NilObjectID, ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	n.ID = internal.NewObjectID()
	n.CreatedAt = now()
	n.Read = false
	if _, err := ms.notifications.InsertOne(ctx, n); err != nil {
		return internal.NilObjectID, fmt.Errorf("failed to insert notification: %w", err)
	}
	return n.ID, nil
}

// Notification returns the notification with the given ID.
func (ms *MongoStorage) Notification(ctx context.Context, id internal.ObjectID) (*Notification, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findOne[Notification](ctx, ms.notifications, bson.M{"_id": id})
}

// NotificationsByUser returns a page of the user notifications, newest first.
func (ms *MongoStorage) NotificationsByUser(ctx context.Context, userID internal.ObjectID, unreadOnly bool,
	page, pageSize int64,
) (int64, []Notification, error) {
	filter := bson.M{"userId": userID}
	if unreadOnly {
		filter["read"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return paginatedDocuments[Notification](ctx, ms.notifications, page, pageSize, filter, opts)
}

// UnreadNotifications counts the unread notifications of the user.
func (ms *MongoStorage) UnreadNotifications(ctx context.Context, userID internal.ObjectID) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return ms.notifications.CountDocuments(ctx, bson.M{"userId": userID, "read": false})
}

// MarkNotificationRead marks a notification of the user as read.
func (ms *MongoStorage) MarkNotificationRead(ctx context.Context, userID, id internal.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := ms.notifications.UpdateOne(ctx, bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead marks every notification of the user as read and
// returns how many changed.
func (ms *MongoStorage) MarkAllNotificationsRead(ctx context.Context, userID internal.ObjectID) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := ms.notifications.UpdateMany(ctx, bson.M{"userId": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CountNotifications counts the notifications matching type and data key
// values, used to check delivery guarantees.
func (ms *MongoStorage) CountNotifications(ctx context.Context, ntype NotificationType, data map[string]string,
) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	filter := bson.M{"type": ntype}
	for k, v := range data {
		filter["data."+k] = v
	}
	return ms.notifications.CountDocuments(ctx, filter)
}
