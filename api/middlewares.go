package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/metrics"
)

// authenticator is a middleware that authenticates the user with the JWT
// token verified by jwtauth.Verifier. If successful, it gets the user
// information from the database, adds it to the request context and passes
// it to the next handler.
func (a *API) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil {
			errors.ErrUnauthorized.Write(w)
			return
		}
		user, err := a.auth.UserFromToken(r.Context(), token)
		if err != nil {
			apicommon.HTTPWriteError(w, err)
			return
		}
		// token is authenticated, pass it through with the new context with the
		// user information
		next.ServeHTTP(w, r.WithContext(apicommon.ContextWithUser(r.Context(), user)))
	})
}

// adminOnly rejects the requests of users without the admin role. It must
// run after the authenticator.
func adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := apicommon.UserFromContext(r.Context())
		if !ok {
			errors.ErrUnauthorized.Write(w)
			return
		}
		if !user.IsAdmin() {
			errors.ErrAdminRequired.Write(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware observes the duration of every request labelled with
// the matched route pattern.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(status), time.Since(start))
	})
}
