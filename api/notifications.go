package api

import (
	"net/http"
	"strconv"

	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
)

// notificationsHandler lists the notifications of the current user, newest
// first. Set unread=true to get only the unread ones.
func (a *API) notificationsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	page, pageSize, err := apicommon.PaginationFromRequest(r)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	unreadOnly := false
	if raw := r.URL.Query().Get("unread"); raw != "" {
		if unreadOnly, err = strconv.ParseBool(raw); err != nil {
			errors.ErrMalformedURLParam.With("invalid unread").Write(w)
			return
		}
	}
	total, list, err := a.notifications.Notifications(r.Context(), user.ID, unreadOnly, page, pageSize)
	if err != nil {
		writeStorageError(w, err, errors.ErrNotificationNotFound)
		return
	}
	apicommon.HTTPWriteJSON(w, &ListResponse[db.Notification]{
		Total: total, Page: page, PageSize: pageSize, Items: list,
	})
}

// unreadNotificationsHandler counts the unread notifications of the current
// user.
func (a *API) unreadNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	count, err := a.notifications.UnreadCount(r.Context(), user.ID)
	if err != nil {
		writeStorageError(w, err, errors.ErrNotificationNotFound)
		return
	}
	apicommon.HTTPWriteJSON(w, &CountResponse{Count: count})
}

// markNotificationReadHandler marks a notification of the current user as
// read. Notifications of other users are reported as not found.
func (a *API) markNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromRequest(r, "notificationId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	if err := a.notifications.MarkRead(r.Context(), user.ID, id); err != nil {
		writeStorageError(w, err, errors.ErrNotificationNotFound)
		return
	}
	apicommon.HTTPWriteOK(w)
}

// markAllNotificationsReadHandler marks every notification of the current
// user as read and returns how many changed.
func (a *API) markAllNotificationsReadHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	count, err := a.notifications.MarkAllRead(r.Context(), user.ID)
	if err != nil {
		writeStorageError(w, err, errors.ErrNotificationNotFound)
		return
	}
	apicommon.HTTPWriteJSON(w, &CountResponse{Count: count})
}
