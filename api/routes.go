package api

const (
	pingEndpoint    = "/ping"
	metricsEndpoint = "/metrics"

	// auth routes

	// POST /api/auth/register to create an account
	authRegisterEndpoint = "/api/auth/register"
	// POST /api/auth/login to get a token pair
	authLoginEndpoint = "/api/auth/login"
	// POST /api/auth/refresh to rotate the refresh token
	authRefreshEndpoint = "/api/auth/refresh"
	// POST /api/auth/logout to revoke the refresh token
	authLogoutEndpoint = "/api/auth/logout"

	// user routes

	// GET /api/users/me to get the current user info
	// PUT /api/users/me to update it
	usersMeEndpoint = "/api/users/me"
	// PUT /api/users/me/password to change the password
	usersPasswordEndpoint = "/api/users/me/password"
	// GET /api/users/me/donations to list the donations of the current user
	usersDonationsEndpoint = "/api/users/me/donations"
	// POST /api/users/me/devices to register a push device
	usersDevicesEndpoint = "/api/users/me/devices"
	// DELETE /api/users/me/devices/{token} to unregister a push device
	usersDeviceEndpoint = "/api/users/me/devices/{token}"

	// organization routes

	// POST /api/organizations to create an organization
	// GET /api/organizations to list them
	organizationsEndpoint = "/api/organizations"
	// GET, PUT, DELETE /api/organizations/{orgId}
	organizationEndpoint = "/api/organizations/{orgId}"
	// POST /api/organizations/{orgId}/verify (admin)
	organizationVerifyEndpoint = "/api/organizations/{orgId}/verify"
	// POST /api/organizations/{orgId}/reject (admin)
	organizationRejectEndpoint = "/api/organizations/{orgId}/reject"

	// campaign routes

	// POST /api/campaigns to create a campaign
	// GET /api/campaigns to list them
	campaignsEndpoint = "/api/campaigns"
	// GET, PUT, DELETE /api/campaigns/{campaignId}
	campaignEndpoint = "/api/campaigns/{campaignId}"
	// POST /api/campaigns/{campaignId}/{action} to run a workflow action: submit,
	// approve, reject, pause, resume, complete, cancel, feature or unfeature
	campaignActionEndpoint = "/api/campaigns/{campaignId}/{action}"
	// POST /api/campaigns/{campaignId}/milestones to add a milestone
	campaignMilestonesEndpoint = "/api/campaigns/{campaignId}/milestones"
	// POST /api/campaigns/{campaignId}/updates to publish an update
	campaignUpdatesEndpoint = "/api/campaigns/{campaignId}/updates"
	// GET /api/campaigns/{campaignId}/donations to list the completed donations
	campaignDonationsEndpoint = "/api/campaigns/{campaignId}/donations"
	// GET /api/campaigns/{campaignId}/stats to get the donation summary
	campaignStatsEndpoint = "/api/campaigns/{campaignId}/stats"

	// donation routes

	// POST /api/donations to donate
	donationsEndpoint = "/api/donations"
	// POST /api/donations/subscriptions to donate monthly
	donationsSubscriptionsEndpoint = "/api/donations/subscriptions"
	// GET /api/donations/{donationId}
	donationEndpoint = "/api/donations/{donationId}"
	// POST /api/donations/{donationId}/refund
	donationRefundEndpoint = "/api/donations/{donationId}/refund"
	// POST /api/donations/{donationId}/cancel
	donationCancelEndpoint = "/api/donations/{donationId}/cancel"

	// post routes

	// POST /api/posts to publish a post
	// GET /api/posts to read the feed
	postsEndpoint = "/api/posts"
	// GET, PUT, DELETE /api/posts/{postId}
	postEndpoint = "/api/posts/{postId}"
	// POST, DELETE /api/posts/{postId}/like
	postLikeEndpoint = "/api/posts/{postId}/like"
	// POST, GET /api/posts/{postId}/comments
	postCommentsEndpoint = "/api/posts/{postId}/comments"
	// DELETE /api/comments/{commentId}
	commentEndpoint = "/api/comments/{commentId}"

	// notification routes

	// GET /api/notifications to list the notifications of the current user
	notificationsEndpoint = "/api/notifications"
	// GET /api/notifications/unread to count the unread notifications
	notificationsUnreadEndpoint = "/api/notifications/unread"
	// POST /api/notifications/{notificationId}/read
	notificationReadEndpoint = "/api/notifications/{notificationId}/read"
	// POST /api/notifications/read to mark all as read
	notificationsReadEndpoint = "/api/notifications/read"

	// localization routes

	// GET /api/localizations/languages
	localizationLanguagesEndpoint = "/api/localizations/languages"
	// GET /api/localizations/{lang} to get every string of the language
	localizationLanguageEndpoint = "/api/localizations/{lang}"
	// GET, PUT (admin), DELETE (admin) /api/localizations/{lang}/{key}
	localizationKeyEndpoint = "/api/localizations/{lang}/{key}"

	// POST /api/storage to upload images
	storageEndpoint = "/api/storage"

	// POST /api/webhooks/stripe to receive the Stripe events
	stripeWebhookEndpoint = "/api/webhooks/stripe"
)
