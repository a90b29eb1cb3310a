// Package api provides the REST API of the RaiseYourVoice backend: accounts,
// organizations, campaigns, donations, the social feed, notifications,
// localized strings, image uploads and the Stripe webhook.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/raiseyourvoice/backend/auth"
	"github.com/raiseyourvoice/backend/campaigns"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/donations"
	"github.com/raiseyourvoice/backend/localization"
	"github.com/raiseyourvoice/backend/notifications/push"
	"github.com/raiseyourvoice/backend/objectstorage"
	"github.com/raiseyourvoice/backend/posts"
	"github.com/raiseyourvoice/backend/stripe"
	"github.com/raiseyourvoice/backend/validator"
	"go.vocdoni.io/dvote/log"
)

// Config holds the services the API exposes. Stripe and ObjectStorage are
// optional, their routes answer 503 when they are not configured.
type Config struct {
	Host           string
	Port           int
	DB             *db.MongoStorage
	Auth           *auth.Service
	Campaigns      *campaigns.Service
	Donations      *donations.Service
	Posts          *posts.Service
	Notifications  *push.Service
	Localization   *localization.Service
	Stripe         *stripe.Service
	ObjectStorage  *objectstorage.Client
	AllowedOrigins []string
}

// API type represents the API HTTP server with JWT authentication capabilities.
type API struct {
	db             *db.MongoStorage
	auth           *auth.Service
	jwt            *jwtauth.JWTAuth
	campaigns      *campaigns.Service
	donations      *donations.Service
	posts          *posts.Service
	notifications  *push.Service
	localization   *localization.Service
	stripe         *stripe.Service
	objectStorage  *objectstorage.Client
	validator      *validator.Validator
	host           string
	port           int
	allowedOrigins []string
	router         *chi.Mux
	server         *http.Server
}

// New creates a new API HTTP server. It does not start the server. Use Start() for that.
func New(conf *Config) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.DB == nil || conf.Auth == nil || conf.Campaigns == nil || conf.Donations == nil ||
		conf.Posts == nil || conf.Notifications == nil || conf.Localization == nil {
		return nil, fmt.Errorf("incomplete API configuration")
	}
	origins := conf.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	a := &API{
		db:             conf.DB,
		auth:           conf.Auth,
		jwt:            conf.Auth.JWTAuth(),
		campaigns:      conf.Campaigns,
		donations:      conf.Donations,
		posts:          conf.Posts,
		notifications:  conf.Notifications,
		localization:   conf.Localization,
		stripe:         conf.Stripe,
		objectStorage:  conf.ObjectStorage,
		validator:      validator.New(),
		host:           conf.Host,
		port:           conf.Port,
		allowedOrigins: origins,
	}
	a.router = a.initRouter()
	return a, nil
}

// Router returns the HTTP handler of the API.
func (a *API) Router() http.Handler {
	return a.router
}

// Start starts the API HTTP server (non blocking).
func (a *API) Start() {
	a.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.host, a.port),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infow("starting API server", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
}

// Shutdown stops the server, waiting for the requests in flight.
func (a *API) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() *chi.Mux {
	// Create the router with a basic middleware stack
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   a.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)
	r.Use(middleware.Throttle(100))
	r.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	r.Use(middleware.Timeout(45 * time.Second))

	// protected routes
	r.Group(func(r chi.Router) {
		// seek, verify and validate JWT tokens
		r.Use(jwtauth.Verifier(a.jwt))
		// handle valid JWT tokens
		r.Use(a.authenticator)

		// USERS
		log.Infow("new route", "method", "GET", "path", usersMeEndpoint)
		r.Get(usersMeEndpoint, a.userInfoHandler)
		log.Infow("new route", "method", "PUT", "path", usersMeEndpoint)
		r.With(a.validator.ValidateMiddleware(UpdateUserRequest{})).Put(usersMeEndpoint, a.updateUserInfoHandler)
		log.Infow("new route", "method", "PUT", "path", usersPasswordEndpoint)
		r.With(a.validator.ValidateMiddleware(ChangePasswordRequest{})).
			Put(usersPasswordEndpoint, a.updateUserPasswordHandler)
		log.Infow("new route", "method", "GET", "path", usersDonationsEndpoint)
		r.Get(usersDonationsEndpoint, a.userDonationsHandler)
		log.Infow("new route", "method", "POST", "path", usersDevicesEndpoint)
		r.With(a.validator.ValidateMiddleware(DeviceRequest{})).Post(usersDevicesEndpoint, a.registerDeviceHandler)
		log.Infow("new route", "method", "DELETE", "path", usersDeviceEndpoint)
		r.Delete(usersDeviceEndpoint, a.unregisterDeviceHandler)

		// ORGANIZATIONS
		log.Infow("new route", "method", "POST", "path", organizationsEndpoint)
		r.With(a.validator.ValidateMiddleware(OrganizationRequest{})).
			Post(organizationsEndpoint, a.createOrganizationHandler)
		log.Infow("new route", "method", "PUT", "path", organizationEndpoint)
		r.With(a.validator.ValidateMiddleware(OrganizationRequest{})).
			Put(organizationEndpoint, a.updateOrganizationHandler)
		log.Infow("new route", "method", "DELETE", "path", organizationEndpoint)
		r.Delete(organizationEndpoint, a.deleteOrganizationHandler)

		// CAMPAIGNS
		log.Infow("new route", "method", "POST", "path", campaignsEndpoint)
		r.With(a.validator.ValidateMiddleware(CampaignRequest{})).Post(campaignsEndpoint, a.createCampaignHandler)
		log.Infow("new route", "method", "PUT", "path", campaignEndpoint)
		r.With(a.validator.ValidateMiddleware(UpdateCampaignRequest{})).Put(campaignEndpoint, a.updateCampaignHandler)
		log.Infow("new route", "method", "DELETE", "path", campaignEndpoint)
		r.Delete(campaignEndpoint, a.deleteCampaignHandler)
		log.Infow("new route", "method", "POST", "path", campaignActionEndpoint)
		r.Post(campaignActionEndpoint, a.campaignActionHandler)
		log.Infow("new route", "method", "POST", "path", campaignMilestonesEndpoint)
		r.With(a.validator.ValidateMiddleware(MilestoneRequest{})).
			Post(campaignMilestonesEndpoint, a.addMilestoneHandler)
		log.Infow("new route", "method", "POST", "path", campaignUpdatesEndpoint)
		r.With(a.validator.ValidateMiddleware(CampaignUpdateRequest{})).
			Post(campaignUpdatesEndpoint, a.addCampaignUpdateHandler)

		// DONATIONS
		log.Infow("new route", "method", "POST", "path", donationsEndpoint)
		r.With(a.validator.ValidateMiddleware(DonationRequest{})).Post(donationsEndpoint, a.createDonationHandler)
		log.Infow("new route", "method", "POST", "path", donationsSubscriptionsEndpoint)
		r.With(a.validator.ValidateMiddleware(DonationRequest{})).
			Post(donationsSubscriptionsEndpoint, a.createSubscriptionDonationHandler)
		log.Infow("new route", "method", "GET", "path", donationEndpoint)
		r.Get(donationEndpoint, a.donationHandler)
		log.Infow("new route", "method", "POST", "path", donationRefundEndpoint)
		r.Post(donationRefundEndpoint, a.refundDonationHandler)
		log.Infow("new route", "method", "POST", "path", donationCancelEndpoint)
		r.Post(donationCancelEndpoint, a.cancelDonationHandler)

		// POSTS AND COMMENTS
		log.Infow("new route", "method", "POST", "path", postsEndpoint)
		r.With(a.validator.ValidateMiddleware(PostRequest{})).Post(postsEndpoint, a.createPostHandler)
		log.Infow("new route", "method", "PUT", "path", postEndpoint)
		r.With(a.validator.ValidateMiddleware(PostRequest{})).Put(postEndpoint, a.updatePostHandler)
		log.Infow("new route", "method", "DELETE", "path", postEndpoint)
		r.Delete(postEndpoint, a.deletePostHandler)
		log.Infow("new route", "method", "POST", "path", postLikeEndpoint)
		r.Post(postLikeEndpoint, a.likePostHandler)
		log.Infow("new route", "method", "DELETE", "path", postLikeEndpoint)
		r.Delete(postLikeEndpoint, a.unlikePostHandler)
		log.Infow("new route", "method", "POST", "path", postCommentsEndpoint)
		r.With(a.validator.ValidateMiddleware(CommentRequest{})).Post(postCommentsEndpoint, a.createCommentHandler)
		log.Infow("new route", "method", "DELETE", "path", commentEndpoint)
		r.Delete(commentEndpoint, a.deleteCommentHandler)

		// NOTIFICATIONS
		log.Infow("new route", "method", "GET", "path", notificationsEndpoint)
		r.Get(notificationsEndpoint, a.notificationsHandler)
		log.Infow("new route", "method", "GET", "path", notificationsUnreadEndpoint)
		r.Get(notificationsUnreadEndpoint, a.unreadNotificationsHandler)
		log.Infow("new route", "method", "POST", "path", notificationReadEndpoint)
		r.Post(notificationReadEndpoint, a.markNotificationReadHandler)
		log.Infow("new route", "method", "POST", "path", notificationsReadEndpoint)
		r.Post(notificationsReadEndpoint, a.markAllNotificationsReadHandler)

		// STORAGE
		log.Infow("new route", "method", "POST", "path", storageEndpoint)
		r.Post(storageEndpoint, a.uploadHandler)

		// ADMIN
		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			log.Infow("new route", "method", "POST", "path", organizationVerifyEndpoint)
			r.Post(organizationVerifyEndpoint, a.verifyOrganizationHandler)
			log.Infow("new route", "method", "POST", "path", organizationRejectEndpoint)
			r.With(a.validator.ValidateMiddleware(ReasonRequest{})).
				Post(organizationRejectEndpoint, a.rejectOrganizationHandler)
			log.Infow("new route", "method", "PUT", "path", localizationKeyEndpoint)
			r.With(a.validator.ValidateMiddleware(LocalizedStringRequest{})).
				Put(localizationKeyEndpoint, a.setLocalizedStringHandler)
			log.Infow("new route", "method", "DELETE", "path", localizationKeyEndpoint)
			r.Delete(localizationKeyEndpoint, a.deleteLocalizedStringHandler)
		})
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get(pingEndpoint, func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte(".")); err != nil {
				log.Warnw("failed to write ping response", "error", err)
			}
		})
		log.Infow("new route", "method", "GET", "path", metricsEndpoint)
		r.Handle(metricsEndpoint, promhttp.Handler())

		// AUTH
		log.Infow("new route", "method", "POST", "path", authRegisterEndpoint)
		r.With(a.validator.ValidateMiddleware(RegisterRequest{})).Post(authRegisterEndpoint, a.registerHandler)
		log.Infow("new route", "method", "POST", "path", authLoginEndpoint)
		r.With(a.validator.ValidateMiddleware(LoginRequest{})).Post(authLoginEndpoint, a.loginHandler)
		log.Infow("new route", "method", "POST", "path", authRefreshEndpoint)
		r.With(a.validator.ValidateMiddleware(RefreshRequest{})).Post(authRefreshEndpoint, a.refreshHandler)
		log.Infow("new route", "method", "POST", "path", authLogoutEndpoint)
		r.With(a.validator.ValidateMiddleware(RefreshRequest{})).Post(authLogoutEndpoint, a.logoutHandler)

		// ORGANIZATIONS
		log.Infow("new route", "method", "GET", "path", organizationsEndpoint)
		r.Get(organizationsEndpoint, a.organizationsHandler)
		log.Infow("new route", "method", "GET", "path", organizationEndpoint)
		r.Get(organizationEndpoint, a.organizationHandler)

		// CAMPAIGNS
		log.Infow("new route", "method", "GET", "path", campaignsEndpoint)
		r.Get(campaignsEndpoint, a.campaignsHandler)
		log.Infow("new route", "method", "GET", "path", campaignEndpoint)
		r.Get(campaignEndpoint, a.campaignHandler)
		log.Infow("new route", "method", "GET", "path", campaignDonationsEndpoint)
		r.Get(campaignDonationsEndpoint, a.campaignDonationsHandler)
		log.Infow("new route", "method", "GET", "path", campaignStatsEndpoint)
		r.Get(campaignStatsEndpoint, a.campaignStatsHandler)

		// POSTS AND COMMENTS
		log.Infow("new route", "method", "GET", "path", postsEndpoint)
		r.Get(postsEndpoint, a.postsHandler)
		log.Infow("new route", "method", "GET", "path", postEndpoint)
		r.Get(postEndpoint, a.postHandler)
		log.Infow("new route", "method", "GET", "path", postCommentsEndpoint)
		r.Get(postCommentsEndpoint, a.commentsHandler)

		// LOCALIZATIONS
		log.Infow("new route", "method", "GET", "path", localizationLanguagesEndpoint)
		r.Get(localizationLanguagesEndpoint, a.languagesHandler)
		log.Infow("new route", "method", "GET", "path", localizationLanguageEndpoint)
		r.Get(localizationLanguageEndpoint, a.localizedStringsHandler)
		log.Infow("new route", "method", "GET", "path", localizationKeyEndpoint)
		r.Get(localizationKeyEndpoint, a.localizedStringHandler)

		// WEBHOOKS
		log.Infow("new route", "method", "POST", "path", stripeWebhookEndpoint)
		r.Post(stripeWebhookEndpoint, a.stripeWebhookHandler)
	})
	return r
}
