package rpc

import (
	"context"
	"time"

	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/auth"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/posts"
)

type authService struct {
	UnimplementedAuthServiceServer
	auth *auth.Service
}

func authResponse(user *db.User, pair *auth.TokenPair) *AuthResponse {
	return &AuthResponse{
		UserId:           user.ID.String(),
		Email:            user.Email,
		Role:             string(user.Role),
		AccessToken:      pair.AccessToken,
		ExpiresAt:        pair.ExpiresAt.Unix(),
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt.Unix(),
	}
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, pair, err := s.auth.Login(ctx, req.GetEmail(), req.GetPassword())
	if err != nil {
		return nil, err
	}
	return authResponse(user, pair), nil
}

func (s *authService) Refresh(ctx context.Context, req *RefreshRequest) (*AuthResponse, error) {
	user, pair, err := s.auth.Refresh(ctx, req.GetRefreshToken())
	if err != nil {
		return nil, err
	}
	return authResponse(user, pair), nil
}

func (s *authService) Logout(ctx context.Context, req *RefreshRequest) (*Empty, error) {
	if err := s.auth.Logout(ctx, req.GetRefreshToken()); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

type postService struct {
	UnimplementedPostServiceServer
	posts *posts.Service
}

func (s *postService) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	orgID, err := optionalObjectID(req.GetOrganizationId(), "organization_id")
	if err != nil {
		return nil, err
	}
	post, err := s.posts.CreatePost(ctx, callerFromContext(ctx), &posts.PostRequest{
		OrganizationID: orgID,
		Content:        req.GetContent(),
		MediaURLs:      req.GetMediaUrls(),
		Tags:           req.GetTags(),
	})
	if err != nil {
		return nil, err
	}
	return postMessage(post), nil
}

func (s *postService) GetPost(ctx context.Context, req *PostRequest) (*Post, error) {
	id, err := requiredObjectID(req.GetPostId(), "post_id")
	if err != nil {
		return nil, err
	}
	post, err := s.posts.Post(ctx, id)
	if err != nil {
		return nil, err
	}
	return postMessage(post), nil
}

func (s *postService) ListPosts(ctx context.Context, req *ListPostsRequest) (*PostList, error) {
	authorID, err := optionalObjectID(req.GetAuthorId(), "author_id")
	if err != nil {
		return nil, err
	}
	orgID, err := optionalObjectID(req.GetOrganizationId(), "organization_id")
	if err != nil {
		return nil, err
	}
	page, pageSize, err := pagination(req.GetPage(), req.GetPageSize())
	if err != nil {
		return nil, err
	}
	total, list, err := s.posts.Posts(ctx, authorID, orgID, req.GetTag(), page, pageSize)
	if err != nil {
		return nil, err
	}
	resp := &PostList{Total: total, Posts: make([]*Post, 0, len(list))}
	for i := range list {
		resp.Posts = append(resp.Posts, postMessage(&list[i]))
	}
	return resp, nil
}

func (s *postService) DeletePost(ctx context.Context, req *PostRequest) (*Empty, error) {
	id, err := requiredObjectID(req.GetPostId(), "post_id")
	if err != nil {
		return nil, err
	}
	if err := s.posts.DeletePost(ctx, callerFromContext(ctx), id); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *postService) LikePost(ctx context.Context, req *PostRequest) (*Post, error) {
	id, err := requiredObjectID(req.GetPostId(), "post_id")
	if err != nil {
		return nil, err
	}
	post, err := s.posts.LikePost(ctx, callerFromContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return postMessage(post), nil
}

type commentService struct {
	UnimplementedCommentServiceServer
	posts *posts.Service
}

func (s *commentService) CreateComment(ctx context.Context, req *CreateCommentRequest) (*Comment, error) {
	postID, err := requiredObjectID(req.GetPostId(), "post_id")
	if err != nil {
		return nil, err
	}
	parentID, err := optionalObjectID(req.GetParentId(), "parent_id")
	if err != nil {
		return nil, err
	}
	comment, err := s.posts.CreateComment(ctx, callerFromContext(ctx), postID, parentID, req.GetContent())
	if err != nil {
		return nil, err
	}
	return commentMessage(comment), nil
}

func (s *commentService) ListComments(ctx context.Context, req *ListCommentsRequest) (*CommentList, error) {
	postID, err := requiredObjectID(req.GetPostId(), "post_id")
	if err != nil {
		return nil, err
	}
	page, pageSize, err := pagination(req.GetPage(), req.GetPageSize())
	if err != nil {
		return nil, err
	}
	total, list, err := s.posts.Comments(ctx, postID, page, pageSize)
	if err != nil {
		return nil, err
	}
	resp := &CommentList{Total: total, Comments: make([]*Comment, 0, len(list))}
	for i := range list {
		resp.Comments = append(resp.Comments, commentMessage(&list[i]))
	}
	return resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, req *CommentRequest) (*Empty, error) {
	id, err := requiredObjectID(req.GetCommentId(), "comment_id")
	if err != nil {
		return nil, err
	}
	if err := s.posts.DeleteComment(ctx, callerFromContext(ctx), id); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func postMessage(p *db.Post) *Post {
	return &Post{
		Id:             p.ID.String(),
		AuthorId:       p.AuthorID.String(),
		OrganizationId: hexOrEmpty(p.OrganizationID),
		Content:        p.Content,
		MediaUrls:      p.MediaURLs,
		Tags:           p.Tags,
		LikesCount:     p.LikesCount,
		CommentsCount:  p.CommentsCount,
		CreatedAt:      unixOrZero(p.CreatedAt),
		UpdatedAt:      unixOrZero(p.UpdatedAt),
	}
}

func commentMessage(c *db.Comment) *Comment {
	return &Comment{
		Id:        c.ID.String(),
		PostId:    c.PostID.String(),
		AuthorId:  c.AuthorID.String(),
		ParentId:  hexOrEmpty(c.ParentID),
		Content:   c.Content,
		CreatedAt: unixOrZero(c.CreatedAt),
		UpdatedAt: unixOrZero(c.UpdatedAt),
	}
}

func hexOrEmpty(id internal.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.String()
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// callerFromContext returns the authenticated user or nil, in which case the
// services answer ErrUnauthorized.
func callerFromContext(ctx context.Context) *db.User {
	user, _ := apicommon.UserFromContext(ctx)
	return user
}

func requiredObjectID(raw, field string) (internal.ObjectID, error) {
	if raw == "" {
		return internal.NilObjectID, errors.ErrInvalidData.Withf("%s is required", field)
	}
	return optionalObjectID(raw, field)
}

func optionalObjectID(raw, field string) (internal.ObjectID, error) {
	if raw == "" {
		return internal.NilObjectID, nil
	}
	id, err := internal.ObjectIDFromHex(raw)
	if err != nil {
		return internal.NilObjectID, errors.ErrInvalidData.Withf("invalid %s", field)
	}
	return id, nil
}

// pagination applies the same defaults and bounds as the HTTP API.
func pagination(page, pageSize int64) (int64, int64, error) {
	return apicommon.NormalizePagination(page, pageSize)
}
