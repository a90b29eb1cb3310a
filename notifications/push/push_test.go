package push

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	root "github.com/raiseyourvoice/backend"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/notifications"
	"github.com/raiseyourvoice/backend/notifications/mailtemplates"
	"github.com/raiseyourvoice/backend/test"
)

var testDB *db.MongoStorage

func TestMain(m *testing.M) {
	ctx := context.Background()
	dbContainer, err := test.StartMongoContainer(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to start MongoDB container: %v", err))
	}
	mongoURI, err := test.MongoURI(ctx, dbContainer)
	if err != nil {
		panic(fmt.Sprintf("failed to get MongoDB endpoint: %v", err))
	}
	if testDB, err = db.New(mongoURI, test.RandomDatabaseName()); err != nil {
		panic(fmt.Sprintf("failed to create new MongoDB connection: %v", err))
	}
	if err := mailtemplates.Load(root.Assets, "assets/mail"); err != nil {
		panic(err)
	}
	code := m.Run()
	testDB.Close()
	if err := dbContainer.Terminate(ctx); err != nil {
		panic(fmt.Sprintf("failed to stop MongoDB container: %v", err))
	}
	os.Exit(code)
}

func TestNotifyFanOut(t *testing.T) {
	c := qt.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mail := &flakySender{}
	pushSender := &flakySender{}
	srv, err := New(&Config{
		DB:          testDB,
		MailService: mail,
		PushService: pushSender,
		WebAppURL:   "https://app.raiseyourvoice.test/",
		Throttle:    time.Millisecond,
	})
	c.Assert(err, qt.IsNil)
	srv.Start(ctx)

	userID, err := testDB.SetUser(ctx, &db.User{
		Email:             "owner@raiseyourvoice.test",
		Password:          "$2a$10$hashhashhash",
		FirstName:         "Ana",
		PreferredLanguage: "es",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(srv.RegisterDevice(ctx, userID, "device-1", "ios"), qt.IsNil)
	c.Assert(srv.RegisterDevice(ctx, userID, "device-2", "android"), qt.IsNil)
	orgID, err := testDB.SetOrganization(ctx, &db.Organization{Name: "Rivers", OwnerID: userID})
	c.Assert(err, qt.IsNil)

	c.Assert(srv.NotifyOrganizationOwner(ctx, orgID, &db.Notification{
		Type:  db.NotificationMilestoneReached,
		Title: "Milestone reached",
		Body:  "Clean water reached 500",
		Data:  map[string]string{"campaignId": "abc"},
	}), qt.IsNil)

	// two pushes and one email
	for i := 0; i < 3; i++ {
		d := waitDelivery(c, srv.Queue())
		c.Assert(d.Err, qt.IsNil)
	}
	c.Assert(pushSender.sent, qt.HasLen, 2)
	c.Assert(mail.sent, qt.HasLen, 1)
	c.Assert(mail.sent[0].ToAddress, qt.Equals, "owner@raiseyourvoice.test")
	c.Assert(mail.sent[0].Body, qt.Contains, "Hola Ana")
	c.Assert(mail.sent[0].PlainBody, qt.Contains, "https://app.raiseyourvoice.test/campaigns/abc")

	unread, err := srv.UnreadCount(ctx, userID)
	c.Assert(err, qt.IsNil)
	c.Assert(unread, qt.Equals, int64(1))
	total, list, err := srv.Notifications(ctx, userID, true, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, int64(1))
	c.Assert(srv.MarkRead(ctx, userID, list[0].ID), qt.IsNil)
	unread, err = srv.UnreadCount(ctx, userID)
	c.Assert(err, qt.IsNil)
	c.Assert(unread, qt.Equals, int64(0))

	c.Assert(srv.UnregisterDevice(ctx, userID, "device-1"), qt.IsNil)
	_, err = srv.MarkAllRead(ctx, userID)
	c.Assert(err, qt.IsNil)
}

func TestNotifyWithoutMail(t *testing.T) {
	c := qt.New(t)
	srv, err := New(&Config{DB: testDB})
	c.Assert(err, qt.IsNil)
	ctx := context.Background()
	userID, err := testDB.SetUser(ctx, &db.User{Email: "nomail@raiseyourvoice.test", Password: "$2a$10$hashhashhash"})
	c.Assert(err, qt.IsNil)
	c.Assert(srv.Notify(ctx, &db.Notification{UserID: userID, Type: db.NotificationComment, Title: "new comment"}), qt.IsNil)
	// no devices and no mail service
	c.Assert(srv.Queue().Len(), qt.Equals, 0)

	_, err = New(&Config{})
	c.Assert(err, qt.Not(qt.IsNil))
	var _ notifications.NotificationService = &LogSender{}
}

type staticPhones map[string]string

func (p staticPhones) Phone(_ context.Context, user *db.User) (string, error) {
	phone, ok := p[user.Email]
	if !ok {
		return "", fmt.Errorf("unknown user")
	}
	return phone, nil
}

func TestNotifyGoalReachedSMS(t *testing.T) {
	c := qt.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sms := &flakySender{}
	srv, err := New(&Config{
		DB:         testDB,
		SMSService: sms,
		Phones:     staticPhones{"sms@raiseyourvoice.test": "+34612345678"},
		Throttle:   time.Millisecond,
	})
	c.Assert(err, qt.IsNil)
	srv.Start(ctx)

	userID, err := testDB.SetUser(ctx, &db.User{
		Email:     "sms@raiseyourvoice.test",
		Password:  "$2a$10$hashhashhash",
		FirstName: "Lola",
		Phone:     "sealed-phone",
	})
	c.Assert(err, qt.IsNil)

	// only goal reached notifications are sent by SMS
	c.Assert(srv.Notify(ctx, &db.Notification{
		UserID: userID, Type: db.NotificationComment, Title: "new comment",
	}), qt.IsNil)
	c.Assert(srv.Queue().Len(), qt.Equals, 0)

	c.Assert(srv.Notify(ctx, &db.Notification{
		UserID: userID, Type: db.NotificationGoalReached, Title: "Goal reached", Body: "Clean water is funded",
	}), qt.IsNil)
	d := waitDelivery(c, srv.Queue())
	c.Assert(d.Err, qt.IsNil)
	c.Assert(d.Channel, qt.Equals, ChannelSMS)
	c.Assert(sms.sent, qt.HasLen, 1)
	c.Assert(sms.sent[0].ToNumber, qt.Equals, "+34612345678")
	c.Assert(sms.sent[0].PlainBody, qt.Equals, "Goal reached: Clean water is funded")
}
