package db

import (
	"context"
	"fmt"

	"github.com/raiseyourvoice/backend/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddComment stores a comment and increments the comments counter of the post
// in the same transaction. Replies must reference a comment of the same post.
func (ms *MongoStorage) AddComment(ctx context.Context, comment *Comment) (internal.ObjectID, error) {
	if comment == nil || comment.Content == "" || comment.PostID.IsZero() || comment.AuthorID.IsZero() {
		return internal.NilObjectID, ErrInvalidData
	}
	comment.ID = internal.NewObjectID()
	comment.CreatedAt = now()
	comment.UpdatedAt = comment.CreatedAt
	err := ms.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if !comment.ParentID.IsZero() {
			count, err := ms.comments.CountDocuments(sessCtx,
				bson.M{"_id": comment.ParentID, "postId": comment.PostID})
			if err != nil {
				return err
			}
			if count == 0 {
				return ErrInvalidData
			}
		}
		res, err := ms.posts.UpdateOne(sessCtx, bson.M{"_id": comment.PostID},
			bson.M{"$inc": bson.M{"commentsCount": 1}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		_, err = ms.comments.InsertOne(sessCtx, comment)
		return err
	})
	if err != nil {
		return internal.NilObjectID, err
	}
	return comment.ID, nil
}

// Comment returns the comment with the given ID.
func (ms *MongoStorage) Comment(ctx context.Context, id internal.ObjectID) (*Comment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findOne[Comment](ctx, ms.comments, bson.M{"_id": id})
}

// CommentsByPost returns a page of the post comments, oldest first.
func (ms *MongoStorage) CommentsByPost(ctx context.Context, postID internal.ObjectID, page, pageSize int64,
) (int64, []Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return paginatedDocuments[Comment](ctx, ms.comments, page, pageSize, bson.M{"postId": postID}, opts)
}

// DelComment removes the comment with its replies and decrements the post
// counter accordingly.
func (ms *MongoStorage) DelComment(ctx context.Context, id internal.ObjectID) error {
	return ms.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		comment, err := findOne[Comment](sessCtx, ms.comments, bson.M{"_id": id})
		if err != nil {
			return err
		}
		res, err := ms.comments.DeleteMany(sessCtx, bson.M{"$or": bson.A{
			bson.M{"_id": id},
			bson.M{"parentId": id},
		}})
		if err != nil {
			return err
		}
		if _, err := ms.posts.UpdateOne(sessCtx, bson.M{"_id": comment.PostID},
			bson.M{"$inc": bson.M{"commentsCount": -res.DeletedCount}}); err != nil {
			return fmt.Errorf("failed to update comments counter: %w", err)
		}
		return nil
	})
}
