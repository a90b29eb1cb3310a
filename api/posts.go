package api

import (
	"net/http"

	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/posts"
	"github.com/raiseyourvoice/backend/validator"
)

func postRequestFromHTTP(r *http.Request) (*posts.PostRequest, error) {
	req, ok := validator.Model[PostRequest](r)
	if !ok {
		return nil, errors.ErrMalformedBody
	}
	orgID, err := objectIDFromBody(req.OrganizationID, "organizationId")
	if err != nil {
		return nil, err
	}
	return &posts.PostRequest{
		OrganizationID: orgID,
		Content:        req.Content,
		MediaURLs:      req.MediaURLs,
		Tags:           req.Tags,
	}, nil
}

// createPostHandler publishes a post of the current user, or of one of its
// organizations when organizationId is set.
func (a *API) createPostHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req, err := postRequestFromHTTP(r)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	post, err := a.posts.CreatePost(r.Context(), user, req)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, post)
}

// updatePostHandler edits a post of the current user.
func (a *API) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromRequest(r, "postId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	req, err := postRequestFromHTTP(r)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	post, err := a.posts.UpdatePost(r.Context(), user, id, req)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, post)
}

// deletePostHandler removes a post and its comments. Moderators can remove
// any post.
func (a *API) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromRequest(r, "postId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	if err := a.posts.DeletePost(r.Context(), user, id); err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteOK(w)
}

// likePostHandler likes a post. Liking twice has no effect.
func (a *API) likePostHandler(w http.ResponseWriter, r *http.Request) {
	a.postLike(w, r, true)
}

// unlikePostHandler removes the like of the current user.
func (a *API) unlikePostHandler(w http.ResponseWriter, r *http.Request) {
	a.postLike(w, r, false)
}

func (a *API) postLike(w http.ResponseWriter, r *http.Request, like bool) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromRequest(r, "postId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	var post *db.Post
	if like {
		post, err = a.posts.LikePost(r.Context(), user, id)
	} else {
		post, err = a.posts.UnlikePost(r.Context(), user, id)
	}
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, post)
}

// postsHandler returns the feed, newest first. It can be filtered by the
// authorId, organizationId and tag query parameters.
func (a *API) postsHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := apicommon.PaginationFromRequest(r)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	authorID, err := apicommon.ObjectIDFromQuery(r, "authorId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	orgID, err := apicommon.ObjectIDFromQuery(r, "organizationId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	total, list, err := a.posts.Posts(r.Context(), authorID, orgID, r.URL.Query().Get("tag"), page, pageSize)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, &ListResponse[db.Post]{
		Total: total, Page: page, PageSize: pageSize, Items: list,
	})
}

// postHandler returns a post.
func (a *API) postHandler(w http.ResponseWriter, r *http.Request) {
	id, err := apicommon.ObjectIDFromRequest(r, "postId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	post, err := a.posts.Post(r.Context(), id)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, post)
}

// createCommentHandler comments a post, or replies to a comment when
// parentId is set.
func (a *API) createCommentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	postID, err := apicommon.ObjectIDFromRequest(r, "postId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	req, ok := validator.Model[CommentRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	parentID, err := objectIDFromBody(req.ParentID, "parentId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	comment, err := a.posts.CreateComment(r.Context(), user, postID, parentID, req.Content)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, comment)
}

// commentsHandler lists the comments of a post, oldest first.
func (a *API) commentsHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := apicommon.ObjectIDFromRequest(r, "postId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	page, pageSize, err := apicommon.PaginationFromRequest(r)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	total, list, err := a.posts.Comments(r.Context(), postID, page, pageSize)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, &ListResponse[db.Comment]{
		Total: total, Page: page, PageSize: pageSize, Items: list,
	})
}

// deleteCommentHandler removes a comment. The comment author, the post
// author and moderators can do it.
func (a *API) deleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromRequest(r, "commentId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	if err := a.posts.DeleteComment(r.Context(), user, id); err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteOK(w)
}
