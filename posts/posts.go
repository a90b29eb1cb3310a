// Package posts implements the social feed: posts, likes and threaded
// comments. It is shared by the REST and the gRPC surfaces.
package posts

import (
	"context"
	goerrors "errors"
	"fmt"
	"strings"

	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/internal"
	"go.vocdoni.io/dvote/log"
)

const (
	MaxContentLength = 5000
	MaxMediaURLs     = 10
	MaxTags          = 10
)

// Notifier delivers in-app notifications. It is implemented by the push
// notification service.
type Notifier interface {
	Notify(ctx context.Context, n *db.Notification) error
}

// Service manages posts and comments.
type Service struct {
	db       *db.MongoStorage
	notifier Notifier
}

// New creates the service. The notifier is optional.
func New(database *db.MongoStorage, notifier Notifier) (*Service, error) {
	if database == nil {
		return nil, fmt.Errorf("database is required")
	}
	return &Service{db: database, notifier: notifier}, nil
}

// PostRequest holds the editable fields of a post.
type PostRequest struct {
	OrganizationID internal.ObjectID
	Content        string
	MediaURLs      []string
	Tags           []string
}

func (r *PostRequest) validate() error {
	if r == nil || strings.TrimSpace(r.Content) == "" {
		return errors.ErrInvalidPostData.With("content is required")
	}
	if len(r.Content) > MaxContentLength {
		return errors.ErrInvalidPostData.Withf("content must be at most %d characters", MaxContentLength)
	}
	if len(r.MediaURLs) > MaxMediaURLs {
		return errors.ErrInvalidPostData.Withf("at most %d media URLs are allowed", MaxMediaURLs)
	}
	if len(r.Tags) > MaxTags {
		return errors.ErrInvalidPostData.Withf("at most %d tags are allowed", MaxTags)
	}
	return nil
}

// normalizeTags lowercases the tags and drops the empty and repeated ones.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	seen := map[string]bool{}
	out := []string{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// CreatePost publishes a post of the caller. Posts on behalf of an
// organization require the caller to own it.
func (s *Service) CreatePost(ctx context.Context, caller *db.User, req *PostRequest) (*db.Post, error) {
	if caller == nil {
		return nil, errors.ErrUnauthorized
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	if !req.OrganizationID.IsZero() {
		org, err := s.db.Organization(ctx, req.OrganizationID)
		if err != nil {
			return nil, storageError(err, errors.ErrOrganizationNotFound)
		}
		if org.OwnerID != caller.ID && !caller.IsAdmin() {
			return nil, errors.ErrNotOwnerOfItem
		}
	}
	post := &db.Post{
		AuthorID:       caller.ID,
		OrganizationID: req.OrganizationID,
		Content:        strings.TrimSpace(req.Content),
		MediaURLs:      req.MediaURLs,
		Tags:           normalizeTags(req.Tags),
	}
	if _, err := s.db.SetPost(ctx, post); err != nil {
		return nil, storageError(err, errors.ErrPostNotFound)
	}
	log.Debugw("post created", "postID", post.ID.String(), "userID", caller.ID.String())
	return post, nil
}

// Post returns the post with the given id.
func (s *Service) Post(ctx context.Context, id internal.ObjectID) (*db.Post, error) {
	post, err := s.db.Post(ctx, id)
	if err != nil {
		return nil, storageError(err, errors.ErrPostNotFound)
	}
	return post, nil
}

// Posts returns a page of the feed, newest first. The author, organization
// and tag filters are optional.
func (s *Service) Posts(ctx context.Context, authorID, organizationID internal.ObjectID, tag string,
	page, pageSize int64,
) (int64, []db.Post, error) {
	total, list, err := s.db.Posts(ctx, authorID, organizationID, strings.ToLower(tag), page, pageSize)
	if err != nil {
		return 0, nil, errors.ErrGenericInternalServerError.WithErr(err)
	}
	return total, list, nil
}

// UpdatePost changes the content of a post. Only its author can edit it.
func (s *Service) UpdatePost(ctx context.Context, caller *db.User, id internal.ObjectID, req *PostRequest,
) (*db.Post, error) {
	post, err := s.ownedPost(ctx, caller, id, false)
	if err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	if _, err := s.db.SetPost(ctx, &db.Post{
		ID:        post.ID,
		Content:   strings.TrimSpace(req.Content),
		MediaURLs: req.MediaURLs,
		Tags:      normalizeTags(req.Tags),
	}); err != nil {
		return nil, storageError(err, errors.ErrPostNotFound)
	}
	return s.Post(ctx, id)
}

// DeletePost removes a post and its comments. The author and the
// moderators can delete it.
func (s *Service) DeletePost(ctx context.Context, caller *db.User, id internal.ObjectID) error {
	if _, err := s.ownedPost(ctx, caller, id, true); err != nil {
		return err
	}
	if err := s.db.DelPost(ctx, id); err != nil {
		return storageError(err, errors.ErrPostNotFound)
	}
	log.Infow("post deleted", "postID", id.String(), "userID", caller.ID.String())
	return nil
}

// LikePost adds the like of the caller. Liking twice is not an error.
func (s *Service) LikePost(ctx context.Context, caller *db.User, id internal.ObjectID) (*db.Post, error) {
	if caller == nil {
		return nil, errors.ErrUnauthorized
	}
	if _, err := s.db.LikePost(ctx, id, caller.ID); err != nil {
		return nil, storageError(err, errors.ErrPostNotFound)
	}
	return s.Post(ctx, id)
}

// UnlikePost removes the like of the caller.
func (s *Service) UnlikePost(ctx context.Context, caller *db.User, id internal.ObjectID) (*db.Post, error) {
	if caller == nil {
		return nil, errors.ErrUnauthorized
	}
	if _, err := s.db.UnlikePost(ctx, id, caller.ID); err != nil {
		return nil, storageError(err, errors.ErrPostNotFound)
	}
	return s.Post(ctx, id)
}

// ownedPost returns the post if the caller wrote it, or is a moderator when
// moderators are allowed.
func (s *Service) ownedPost(ctx context.Context, caller *db.User, id internal.ObjectID, moderators bool,
) (*db.Post, error) {
	if caller == nil {
		return nil, errors.ErrUnauthorized
	}
	post, err := s.Post(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != caller.ID && !(moderators && caller.IsModerator()) {
		return nil, errors.ErrNotOwnerOfItem
	}
	return post, nil
}

// CreateComment adds a comment, or a reply when parentID is set, to a post.
// The author of the post is notified unless they wrote the comment.
func (s *Service) CreateComment(ctx context.Context, caller *db.User, postID, parentID internal.ObjectID,
	content string,
) (*db.Comment, error) {
	if caller == nil {
		return nil, errors.ErrUnauthorized
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.ErrInvalidCommentData.With("content is required")
	}
	if len(content) > MaxContentLength {
		return nil, errors.ErrInvalidCommentData.Withf("content must be at most %d characters", MaxContentLength)
	}
	comment := &db.Comment{
		PostID:   postID,
		AuthorID: caller.ID,
		ParentID: parentID,
		Content:  content,
	}
	if _, err := s.db.AddComment(ctx, comment); err != nil {
		if goerrors.Is(err, db.ErrInvalidData) {
			return nil, errors.ErrInvalidCommentData.With("parent comment does not belong to the post")
		}
		return nil, storageError(err, errors.ErrPostNotFound)
	}
	s.notifyComment(ctx, caller, comment)
	return comment, nil
}

func (s *Service) notifyComment(ctx context.Context, caller *db.User, comment *db.Comment) {
	if s.notifier == nil {
		return
	}
	post, err := s.db.Post(ctx, comment.PostID)
	if err != nil || post.AuthorID == caller.ID {
		return
	}
	if err := s.notifier.Notify(ctx, &db.Notification{
		UserID: post.AuthorID,
		Type:   db.NotificationComment,
		Title:  "New comment",
		Body:   fmt.Sprintf("%s commented on your post", caller.FirstName),
		Data: map[string]string{
			"postId":    post.ID.String(),
			"commentId": comment.ID.String(),
		},
	}); err != nil {
		log.Warnw("could not notify comment", "postID", post.ID.String(), "error", err)
	}
}

// Comments returns a page of the comments of a post, oldest first.
func (s *Service) Comments(ctx context.Context, postID internal.ObjectID, page, pageSize int64,
) (int64, []db.Comment, error) {
	if _, err := s.Post(ctx, postID); err != nil {
		return 0, nil, err
	}
	total, list, err := s.db.CommentsByPost(ctx, postID, page, pageSize)
	if err != nil {
		return 0, nil, errors.ErrGenericInternalServerError.WithErr(err)
	}
	return total, list, nil
}

// DeleteComment removes a comment and its replies. The author of the
// comment, the author of the post and the moderators can delete it.
func (s *Service) DeleteComment(ctx context.Context, caller *db.User, id internal.ObjectID) error {
	if caller == nil {
		return errors.ErrUnauthorized
	}
	comment, err := s.db.Comment(ctx, id)
	if err != nil {
		return storageError(err, errors.ErrCommentNotFound)
	}
	if comment.AuthorID != caller.ID && !caller.IsModerator() {
		post, err := s.Post(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post.AuthorID != caller.ID {
			return errors.ErrNotOwnerOfItem
		}
	}
	if err := s.db.DelComment(ctx, id); err != nil {
		return storageError(err, errors.ErrCommentNotFound)
	}
	return nil
}

// storageError translates the storage sentinel errors.
func storageError(err error, notFound errors.Error) error {
	switch {
	case err == nil:
		return nil
	case goerrors.Is(err, db.ErrNotFound):
		return notFound
	case goerrors.Is(err, db.ErrInvalidData):
		return errors.ErrInvalidPostData
	}
	return errors.ErrGenericInternalServerError.WithErr(err)
}
