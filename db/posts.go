package db

import (
	"context"
	"fmt"

	"github.com/raiseyourvoice/backend/internal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetPost creates the post when it has no ID or updates its content, media
// and tags otherwise.
func (ms *MongoStorage) SetPost(ctx context.Context, post *Post) (internal.ObjectID, error) {
	if post == nil || post.Content == "" {
		return internal.NilObjectID, ErrInvalidData
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	post.UpdatedAt = now()
	if post.ID.IsZero() {
		if post.AuthorID.IsZero() {
			return internal.NilObjectID, ErrInvalidData
		}
		post.ID = internal.NewObjectID()
		post.CreatedAt = post.UpdatedAt
		post.Likes = []internal.ObjectID{}
		post.LikesCount = 0
		post.CommentsCount = 0
		if post.MediaURLs == nil {
			post.MediaURLs = []string{}
		}
		if post.Tags == nil {
			post.Tags = []string{}
		}
		if _, err := ms.posts.InsertOne(ctx, post); err != nil {
			return internal.NilObjectID, fmt.Errorf("failed to insert post: %w", err)
		}
		return post.ID, nil
	}
	set := bson.M{"content": post.Content, "updatedAt": post.UpdatedAt}
	if post.MediaURLs != nil {
		set["mediaURLs"] = post.MediaURLs
	}
	if post.Tags != nil {
		set["tags"] = post.Tags
	}
	res, err := ms.posts.UpdateOne(ctx, bson.M{"_id": post.ID}, bson.M{"$set": set})
	if err != nil {
		return internal.NilObjectID, fmt.Errorf("failed to update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return internal.NilObjectID, ErrNotFound
	}
	return post.ID, nil
}

// Post returns the post with the given ID.
func (ms *MongoStorage) Post(ctx context.Context, id internal.ObjectID) (*Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	return findOne[Post](ctx, ms.posts, bson.M{"_id": id})
}

// Posts returns a page of posts, newest first, optionally filtered by author,
// organization or tag.
func (ms *MongoStorage) Posts(ctx context.Context, authorID, organizationID internal.ObjectID, tag string,
	page, pageSize int64,
) (int64, []Post, error) {
	filter := bson.M{}
	if !authorID.IsZero() {
		filter["authorId"] = authorID
	}
	if !organizationID.IsZero() {
		filter["organizationId"] = organizationID
	}
	if tag != "" {
		filter["tags"] = tag
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return paginatedDocuments[Post](ctx, ms.posts, page, pageSize, filter, opts)
}

// DelPost removes the post and its comments.
func (ms *MongoStorage) DelPost(ctx context.Context, id internal.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := ms.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	if _, err := ms.comments.DeleteMany(ctx, bson.M{"postId": id}); err != nil {
		return fmt.Errorf("failed to delete comments of post %s: %w", id, err)
	}
	return nil
}

// LikePost adds the user like to the post. Liking twice has no effect and
// returns false.
func (ms *MongoStorage) LikePost(ctx context.Context, postID, userID internal.ObjectID) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := ms.posts.UpdateOne(ctx,
		bson.M{"_id": postID, "likes": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"likes": userID}, "$inc": bson.M{"likesCount": 1}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ms.postMissing(ctx, postID)
	}
	return true, nil
}

// UnlikePost removes the user like from the post.
func (ms *MongoStorage) UnlikePost(ctx context.Context, postID, userID internal.ObjectID) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	res, err := ms.posts.UpdateOne(ctx,
		bson.M{"_id": postID, "likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}, "$inc": bson.M{"likesCount": -1}})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ms.postMissing(ctx, postID)
	}
	return true, nil
}

// postMissing returns ErrNotFound if the post does not exist, nil otherwise.
func (ms *MongoStorage) postMissing(ctx context.Context, id internal.ObjectID) error {
	count, err := ms.posts.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
