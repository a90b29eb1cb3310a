package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/internal"
)

func TestPostsAndComments(t *testing.T) {
	c := qt.New(t)
	_, authorToken := testCreateUser(c)
	reader, readerToken := testCreateUser(c)
	tag := "tag" + internal.RandomHex(3)

	post := requestAndParse[db.Post](c, http.MethodPost, authorToken, &PostRequest{
		Content: "  We planted 100 trees today  ",
		Tags:    []string{tag, tag},
	}, postsEndpoint, http.StatusOK)
	c.Assert(post.Content, qt.Equals, "We planted 100 trees today")
	c.Assert(post.Tags, qt.DeepEquals, []string{tag})
	postPath := "/api/posts/" + post.ID.String()

	c.Run("validation", func(c *qt.C) {
		_, code := testRequest(c, http.MethodPost, authorToken, &PostRequest{}, postsEndpoint)
		c.Assert(code, qt.Equals, http.StatusBadRequest)
		_, code = testRequest(c, http.MethodPost, authorToken, &PostRequest{
			Content:   "bad media",
			MediaURLs: []string{"not a url"},
		}, postsEndpoint)
		c.Assert(code, qt.Equals, http.StatusBadRequest)
		_, code = testRequest(c, http.MethodPost, "", &PostRequest{Content: "anonymous"}, postsEndpoint)
		c.Assert(code, qt.Equals, http.StatusUnauthorized)
	})

	c.Run("only the author edits", func(c *qt.C) {
		data, code := testRequest(c, http.MethodPut, readerToken, &PostRequest{Content: "hijacked"}, postPath)
		c.Assert(code, qt.Equals, http.StatusForbidden)
		c.Assert(apiErrorCode(c, data), qt.Equals, errors.ErrNotOwnerOfItem.Code)
		updated := requestAndParse[db.Post](c, http.MethodPut, authorToken, &PostRequest{
			Content: "We planted 120 trees today",
		}, postPath, http.StatusOK)
		c.Assert(updated.Content, qt.Equals, "We planted 120 trees today")
	})

	c.Run("likes", func(c *qt.C) {
		liked := requestAndParse[db.Post](c, http.MethodPost, readerToken, nil, postPath+"/like", http.StatusOK)
		c.Assert(liked.LikesCount, qt.Equals, int64(1))
		liked = requestAndParse[db.Post](c, http.MethodPost, readerToken, nil, postPath+"/like", http.StatusOK)
		c.Assert(liked.LikesCount, qt.Equals, int64(1))
		unliked := requestAndParse[db.Post](c, http.MethodDelete, readerToken, nil, postPath+"/like", http.StatusOK)
		c.Assert(unliked.LikesCount, qt.Equals, int64(0))
	})

	var comment *db.Comment
	c.Run("comments", func(c *qt.C) {
		comment = requestAndParse[db.Comment](c, http.MethodPost, readerToken, &CommentRequest{
			Content: "Amazing work!",
		}, postPath+"/comments", http.StatusOK)
		c.Assert(comment.AuthorID, qt.Equals, reader.ID)

		reply := requestAndParse[db.Comment](c, http.MethodPost, authorToken, &CommentRequest{
			Content:  "Thank you!",
			ParentID: comment.ID.String(),
		}, postPath+"/comments", http.StatusOK)
		c.Assert(reply.ParentID, qt.Equals, comment.ID)

		_, code := testRequest(c, http.MethodPost, readerToken, &CommentRequest{
			Content:  "orphan",
			ParentID: internal.NewObjectID().String(),
		}, postPath+"/comments")
		c.Assert(code, qt.Equals, http.StatusBadRequest)

		list := requestAndParse[ListResponse[db.Comment]](c, http.MethodGet, "", nil,
			postPath+"/comments", http.StatusOK)
		c.Assert(list.Total, qt.Equals, int64(2))
		c.Assert(list.Items[0].ID, qt.Equals, comment.ID)

		got := requestAndParse[db.Post](c, http.MethodGet, "", nil, postPath, http.StatusOK)
		c.Assert(got.CommentsCount, qt.Equals, int64(2))
	})

	c.Run("comment notification", func(c *qt.C) {
		unread := requestAndParse[CountResponse](c, http.MethodGet, authorToken, nil,
			notificationsUnreadEndpoint, http.StatusOK)
		c.Assert(unread.Count, qt.Equals, int64(1))
		list := requestAndParse[ListResponse[db.Notification]](c, http.MethodGet, authorToken, nil,
			notificationsEndpoint+"?unread=true", http.StatusOK)
		c.Assert(list.Items, qt.HasLen, 1)
		c.Assert(list.Items[0].Type, qt.Equals, db.NotificationComment)
		c.Assert(list.Items[0].Data["postId"], qt.Equals, post.ID.String())

		// other users cannot read it
		_, code := testRequest(c, http.MethodPost, readerToken, nil,
			fmt.Sprintf("/api/notifications/%s/read", list.Items[0].ID))
		c.Assert(code, qt.Equals, http.StatusNotFound)
		_, code = testRequest(c, http.MethodPost, authorToken, nil,
			fmt.Sprintf("/api/notifications/%s/read", list.Items[0].ID))
		c.Assert(code, qt.Equals, http.StatusOK)
		unread = requestAndParse[CountResponse](c, http.MethodGet, authorToken, nil,
			notificationsUnreadEndpoint, http.StatusOK)
		c.Assert(unread.Count, qt.Equals, int64(0))
	})

	c.Run("feed filters", func(c *qt.C) {
		list := requestAndParse[ListResponse[db.Post]](c, http.MethodGet, "", nil,
			postsEndpoint+"?tag="+tag, http.StatusOK)
		c.Assert(list.Total, qt.Equals, int64(1))
		c.Assert(list.Items[0].ID, qt.Equals, post.ID)
		_, code := testRequest(c, http.MethodGet, "", nil, postsEndpoint+"?authorId=nope")
		c.Assert(code, qt.Equals, http.StatusBadRequest)
	})

	c.Run("delete", func(c *qt.C) {
		_, code := testRequest(c, http.MethodDelete, readerToken, nil, postPath)
		c.Assert(code, qt.Equals, http.StatusForbidden)
		// the post author can remove comments of others
		_, code = testRequest(c, http.MethodDelete, authorToken, nil, "/api/comments/"+comment.ID.String())
		c.Assert(code, qt.Equals, http.StatusOK)
		_, code = testRequest(c, http.MethodDelete, authorToken, nil, postPath)
		c.Assert(code, qt.Equals, http.StatusOK)
		_, code = testRequest(c, http.MethodGet, "", nil, postPath)
		c.Assert(code, qt.Equals, http.StatusNotFound)
	})
}

func TestLocalizations(t *testing.T) {
	c := qt.New(t)
	_, userToken := testCreateUser(c)
	_, adminToken := testCreateAdmin(c)
	key := "donate_button_" + internal.RandomHex(3)

	languages := requestAndParse[map[string][]string](c, http.MethodGet, "", nil,
		localizationLanguagesEndpoint, http.StatusOK)
	c.Assert((*languages)["languages"], qt.DeepEquals, []string{"en", "es"})

	c.Run("missing key", func(c *qt.C) {
		data, code := testRequest(c, http.MethodGet, "", nil, "/api/localizations/es/"+key)
		c.Assert(code, qt.Equals, http.StatusNotFound)
		var body struct {
			Code int                     `json:"code"`
			Data LocalizedStringResponse `json:"data"`
		}
		c.Assert(json.Unmarshal(data, &body), qt.IsNil)
		c.Assert(body.Code, qt.Equals, errors.ErrLocalizationNotFound.Code)
		c.Assert(body.Data.Value, qt.Equals, key)
	})

	c.Run("only admins write", func(c *qt.C) {
		_, code := testRequest(c, http.MethodPut, userToken, &LocalizedStringRequest{Value: "Donate"},
			"/api/localizations/en/"+key)
		c.Assert(code, qt.Equals, http.StatusForbidden)
		_, code = testRequest(c, http.MethodPut, adminToken, &LocalizedStringRequest{Value: "Donate"},
			"/api/localizations/fr/"+key)
		c.Assert(code, qt.Equals, http.StatusBadRequest)
	})

	c.Run("fallback to english", func(c *qt.C) {
		requestAndParse[LocalizedStringResponse](c, http.MethodPut, adminToken,
			&LocalizedStringRequest{Value: "Donate"}, "/api/localizations/en/"+key, http.StatusOK)
		got := requestAndParse[LocalizedStringResponse](c, http.MethodGet, "", nil,
			"/api/localizations/es/"+key, http.StatusOK)
		c.Assert(got.Value, qt.Equals, "Donate")

		requestAndParse[LocalizedStringResponse](c, http.MethodPut, adminToken,
			&LocalizedStringRequest{Value: "Donar"}, "/api/localizations/es/"+key, http.StatusOK)
		got = requestAndParse[LocalizedStringResponse](c, http.MethodGet, "", nil,
			"/api/localizations/es/"+key, http.StatusOK)
		c.Assert(got.Value, qt.Equals, "Donar")

		all := requestAndParse[map[string]string](c, http.MethodGet, "", nil, "/api/localizations/es",
			http.StatusOK)
		c.Assert((*all)[key], qt.Equals, "Donar")
	})

	c.Run("delete", func(c *qt.C) {
		_, code := testRequest(c, http.MethodDelete, adminToken, nil, "/api/localizations/es/"+key)
		c.Assert(code, qt.Equals, http.StatusOK)
		got := requestAndParse[LocalizedStringResponse](c, http.MethodGet, "", nil,
			"/api/localizations/es/"+key, http.StatusOK)
		c.Assert(got.Value, qt.Equals, "Donate")
		_, code = testRequest(c, http.MethodDelete, adminToken, nil, "/api/localizations/es/"+key)
		c.Assert(code, qt.Equals, http.StatusNotFound)
	})
}
