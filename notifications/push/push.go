// Package push implements the in-app and push notification service: every
// notification is stored for the user and fanned out to the registered
// devices, plus an email copy when a mail service is configured.
package push

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/notifications"
	"github.com/raiseyourvoice/backend/notifications/mailtemplates"
	"go.vocdoni.io/dvote/log"
)

// Config holds the dependencies of the push Service. MailService is
// optional; PushService defaults to LogSender.
type Config struct {
	DB          *db.MongoStorage
	MailService notifications.NotificationService
	PushService notifications.NotificationService
	// SMSService sends a text copy of the goal reached notifications. It
	// requires Phones to read the stored numbers.
	SMSService  notifications.NotificationService
	Phones      PhoneReader
	WebAppURL   string
	Throttle    time.Duration
	TTL         time.Duration
}

// Service stores notifications and delivers them through the queue.
type Service struct {
	db        *db.MongoStorage
	queue     *Queue
	mail      bool
	phones    PhoneReader
	webAppURL string
}

// PhoneReader returns the phone number of the user in clear.
type PhoneReader interface {
	Phone(ctx context.Context, user *db.User) (string, error)
}

// New creates the service. The delivery queue must be started with Start.
func New(conf *Config) (*Service, error) {
	if conf == nil || conf.DB == nil {
		return nil, fmt.Errorf("missing database")
	}
	pushService := conf.PushService
	if pushService == nil {
		pushService = &LogSender{}
	}
	services := map[Channel]notifications.NotificationService{ChannelPush: pushService}
	if conf.MailService != nil {
		services[ChannelEmail] = conf.MailService
	}
	var phones PhoneReader
	if conf.SMSService != nil && conf.Phones != nil {
		services[ChannelSMS] = conf.SMSService
		phones = conf.Phones
	}
	return &Service{
		db:        conf.DB,
		queue:     NewQueue(conf.TTL, conf.Throttle, services),
		mail:      conf.MailService != nil,
		phones:    phones,
		webAppURL: strings.TrimSuffix(conf.WebAppURL, "/"),
	}, nil
}

// Start runs the delivery queue until the context is canceled.
func (s *Service) Start(ctx context.Context) {
	go s.queue.Start(ctx)
}

// Queue returns the delivery queue.
func (s *Service) Queue() *Queue {
	return s.queue
}

// Notify stores the notification for its user and enqueues one push message
// per registered device, plus an email copy when possible. Only the storage
// error is returned, deliveries are best effort.
func (s *Service) Notify(ctx context.Context, n *db.Notification) error {
	if _, err := s.db.InsertNotification(ctx, n); err != nil {
		return fmt.Errorf("could not store notification: %w", err)
	}
	user, err := s.db.User(ctx, n.UserID)
	if err != nil {
		log.Warnw("notification stored for unknown user", "userID", n.UserID.String(), "error", err)
		return nil
	}
	for _, device := range user.DeviceTokens {
		if err := s.queue.Push(&Delivery{
			UserID:  user.ID,
			Channel: ChannelPush,
			Notification: &notifications.Notification{
				ToDevice:  device.Token,
				Platform:  device.Platform,
				Subject:   n.Title,
				PlainBody: n.Body,
			},
		}); err != nil {
			log.Warnw("could not enqueue push", "userID", user.ID.String(), "error", err)
		}
	}
	if s.mail {
		s.enqueueEmail(user, n)
	}
	if s.phones != nil && n.Type == db.NotificationGoalReached && user.Phone != "" {
		s.enqueueSMS(ctx, user, n)
	}
	return nil
}

// NotifyOrganizationOwner notifies the owner of the organization.
func (s *Service) NotifyOrganizationOwner(ctx context.Context, orgID internal.ObjectID, n *db.Notification) error {
	org, err := s.db.Organization(ctx, orgID)
	if err != nil {
		return fmt.Errorf("could not get organization %s: %w", orgID, err)
	}
	n.UserID = org.OwnerID
	return s.Notify(ctx, n)
}

func templateFor(t db.NotificationType) (mailtemplates.MailTemplate, bool) {
	switch t {
	case db.NotificationDonationReceived:
		return mailtemplates.DonationReceivedNotification, true
	case db.NotificationMilestoneReached:
		return mailtemplates.MilestoneReachedNotification, true
	case db.NotificationGoalReached, db.NotificationCampaignStatus:
		return mailtemplates.CampaignStatusNotification, true
	}
	return mailtemplates.MailTemplate{}, false
}

func (s *Service) enqueueEmail(user *db.User, n *db.Notification) {
	tmpl, ok := templateFor(n.Type)
	if !ok {
		return
	}
	link := s.webAppURL
	if campaignID := n.Data["campaignId"]; campaignID != "" {
		link += tmpl.WebAppURI + campaignID
	}
	email, err := tmpl.ExecTemplate(user.PreferredLanguage, mailtemplates.Data{
		UserName: strings.TrimSpace(user.FirstName + " " + user.LastName),
		Title:    n.Title,
		Body:     n.Body,
		Link:     link,
		Values:   n.Data,
	})
	if err != nil {
		log.Warnw("could not render email", "type", n.Type, "error", err)
		return
	}
	email.ToAddress = user.Email
	email.ToName = user.FirstName
	if err := s.queue.Push(&Delivery{UserID: user.ID, Channel: ChannelEmail, Notification: email}); err != nil {
		log.Warnw("could not enqueue email", "userID", user.ID.String(), "error", err)
	}
}

func (s *Service) enqueueSMS(ctx context.Context, user *db.User, n *db.Notification) {
	phone, err := s.phones.Phone(ctx, user)
	if err != nil {
		log.Warnw("could not read phone number", "userID", user.ID.String(), "error", err)
		return
	}
	if err := s.queue.Push(&Delivery{UserID: user.ID, Channel: ChannelSMS, Notification: &notifications.Notification{
		ToNumber:  phone,
		ToName:    user.FirstName,
		Subject:   n.Title,
		PlainBody: n.Title + ": " + n.Body,
	}}); err != nil {
		log.Warnw("could not enqueue sms", "userID", user.ID.String(), "error", err)
	}
}

// Notifications returns a page of the user notifications.
func (s *Service) Notifications(ctx context.Context, userID internal.ObjectID, unreadOnly bool,
	page, pageSize int64,
) (int64, []db.Notification, error) {
	return s.db.NotificationsByUser(ctx, userID, unreadOnly, page, pageSize)
}

// UnreadCount returns how many notifications the user has not read.
func (s *Service) UnreadCount(ctx context.Context, userID internal.ObjectID) (int64, error) {
	return s.db.UnreadNotifications(ctx, userID)
}

// MarkRead marks one notification of the user as read.
func (s *Service) MarkRead(ctx context.Context, userID, id internal.ObjectID) error {
	return s.db.MarkNotificationRead(ctx, userID, id)
}

// MarkAllRead marks every notification of the user as read.
func (s *Service) MarkAllRead(ctx context.Context, userID internal.ObjectID) (int64, error) {
	return s.db.MarkAllNotificationsRead(ctx, userID)
}

// RegisterDevice registers a device token to receive push notifications.
func (s *Service) RegisterDevice(ctx context.Context, userID internal.ObjectID, token, platform string) error {
	return s.db.AddDeviceToken(ctx, userID, db.DeviceToken{Token: token, Platform: platform})
}

// UnregisterDevice stops sending push notifications to the device.
func (s *Service) UnregisterDevice(ctx context.Context, userID internal.ObjectID, token string) error {
	return s.db.RemoveDeviceToken(ctx, userID, token)
}
