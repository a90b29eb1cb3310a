package donations

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/raiseyourvoice/backend/campaigns"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/stripe"
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
	code := m.Run()
	testDB.Close()
	if err := dbContainer.Terminate(ctx); err != nil {
		panic(fmt.Sprintf("failed to stop MongoDB container: %v", err))
	}
	os.Exit(code)
}

// fakeGateway emulates the gateway idempotency: the same key returns the
// same transaction.
type fakeGateway struct {
	mu         sync.Mutex
	status     string
	decline    string
	refundErr  error
	byKey      map[string]string
	refunds    int
	cancelled  []string
	subsCancel []string
	nextSub    int
	subReqs    []*stripe.SubscriptionRequest
	subErr     error
	// onSubscribe runs once the subscription exists, before CreateSubscription
	// returns, like a webhook delivered early
	onSubscribe func(req *stripe.SubscriptionRequest, subID string)
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{status: "succeeded", byKey: map[string]string{}}
}

func (g *fakeGateway) ProcessPayment(_ context.Context, req *stripe.PaymentRequest) (*stripe.PaymentResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.decline != "" {
		return &stripe.PaymentResult{Status: "failed", ErrorMessage: g.decline}, nil
	}
	tx, ok := g.byKey[req.IdempotencyKey]
	if !ok {
		tx = "pi_" + internal.RandomHex(8)
		g.byKey[req.IdempotencyKey] = tx
	}
	return &stripe.PaymentResult{Success: true, TransactionID: tx, Status: g.status}, nil
}

func (g *fakeGateway) CancelPayment(_ context.Context, tx string) (*stripe.PaymentResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelled = append(g.cancelled, tx)
	return &stripe.PaymentResult{Success: true, TransactionID: tx, Status: "canceled"}, nil
}

func (g *fakeGateway) RefundPayment(_ context.Context, tx, _ string) (*stripe.PaymentResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refunds++
	return &stripe.PaymentResult{Success: true, TransactionID: "re_" + tx, Status: "succeeded"}, nil
}

func (g *fakeGateway) CreateSubscription(_ context.Context, req *stripe.SubscriptionRequest,
) (*stripe.SubscriptionResult, error) {
	g.mu.Lock()
	if g.subErr != nil {
		g.mu.Unlock()
		return nil, g.subErr
	}
	g.nextSub++
	subID := fmt.Sprintf("sub_%d_%s", g.nextSub, internal.RandomHex(4))
	g.subReqs = append(g.subReqs, req)
	hook := g.onSubscribe
	g.mu.Unlock()
	if hook != nil {
		hook(req, subID)
	}
	return &stripe.SubscriptionResult{
		SubscriptionID: subID,
		CustomerID:     "cus_1",
		Status:         "incomplete",
	}, nil
}

func (g *fakeGateway) CancelSubscription(_ context.Context, subID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subsCancel = append(g.subsCancel, subID)
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*db.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n *db.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingNotifier) NotifyOrganizationOwner(ctx context.Context, _ internal.ObjectID,
	n *db.Notification,
) error {
	return r.Notify(ctx, n)
}

func (r *recordingNotifier) count(t db.NotificationType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sent {
		if s.Type == t {
			n++
		}
	}
	return n
}

type fixture struct {
	srv      *Service
	gateway  *fakeGateway
	notifier *recordingNotifier
	owner    *db.User
	donor    *db.User
	campaign *db.Campaign
}

func newUser(c *qt.C, role db.UserRole) *db.User {
	user := &db.User{
		Email:     internal.RandomHex(6) + "@example.com",
		Password:  "secretpassword",
		FirstName: "Grace",
		LastName:  "Hopper",
		Role:      role,
	}
	_, err := testDB.SetUser(context.Background(), user)
	c.Assert(err, qt.IsNil)
	return user
}

func newFixture(c *qt.C, goal int64) *fixture {
	ctx := context.Background()
	f := &fixture{
		gateway:  newFakeGateway(),
		notifier: &recordingNotifier{},
		owner:    newUser(c, db.RegularRole),
		donor:    newUser(c, db.RegularRole),
	}
	orgID, err := testDB.SetOrganization(ctx, &db.Organization{
		Name:    "Open books " + internal.RandomHex(4),
		OwnerID: f.owner.ID,
	})
	c.Assert(err, qt.IsNil)
	f.campaign = &db.Campaign{
		OrganizationID: orgID,
		Title:          "Libraries",
		Goal:           goal,
		Currency:       "usd",
		CreatedBy:      f.owner.ID,
	}
	_, err = testDB.SetCampaign(ctx, f.campaign)
	c.Assert(err, qt.IsNil)
	c.Assert(testDB.UpdateCampaignStatus(ctx, f.campaign.ID, db.CampaignDraft, db.CampaignActive, ""), qt.IsNil)

	checker, err := campaigns.New(testDB, f.notifier, nil)
	c.Assert(err, qt.IsNil)
	f.srv, err = New(&Config{
		DB:         testDB,
		Gateway:    f.gateway,
		Milestones: checker,
		Notifier:   f.notifier,
	})
	c.Assert(err, qt.IsNil)
	return f
}

func (f *fixture) raised(c *qt.C) int64 {
	campaign, err := testDB.Campaign(context.Background(), f.campaign.ID)
	c.Assert(err, qt.IsNil)
	return campaign.AmountRaised
}

// assertConsistent checks that the raised amount equals the sum of the
// completed donations.
func (f *fixture) assertConsistent(c *qt.C) {
	drifts, err := f.srv.Reconcile(context.Background(), f.campaign.ID, false)
	c.Assert(err, qt.IsNil)
	c.Assert(drifts, qt.HasLen, 0)
}

func TestCreateDonation(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 1000)

	donation, err := f.srv.CreateDonation(ctx, f.donor, &DonationRequest{
		CampaignID: f.campaign.ID,
		Amount:     250,
		Currency:   "USD",
		Message:    "Keep going",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(donation.PaymentStatus, qt.Equals, db.PaymentCompleted)
	c.Assert(donation.UserID, qt.Equals, f.donor.ID)
	c.Assert(donation.TransactionID, qt.Not(qt.Equals), "")
	c.Assert(donation.StatusHistory, qt.HasLen, 1)
	c.Assert(f.raised(c), qt.Equals, int64(250))
	c.Assert(f.notifier.count(db.NotificationDonationReceived), qt.Equals, 1)

	total, list, err := f.srv.UserDonations(ctx, f.donor.ID, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, int64(1))
	c.Assert(list[0].ID, qt.Equals, donation.ID)
	f.assertConsistent(c)
}

func TestCreateDonationRejected(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 1000)

	_, err := f.srv.CreateDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 0})
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidAmount)

	_, err = f.srv.CreateDonation(ctx, f.donor, &DonationRequest{CampaignID: internal.NewObjectID(), Amount: 10})
	c.Assert(err, qt.ErrorIs, errors.ErrCampaignNotFound)

	_, err = f.srv.CreateDonation(ctx, f.donor, &DonationRequest{
		CampaignID: f.campaign.ID, Amount: 10, Currency: "eur",
	})
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidDonationData)

	f.gateway.decline = "Your card was declined."
	_, err = f.srv.CreateDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 10})
	c.Assert(err, qt.ErrorIs, errors.ErrPaymentFailed)
	c.Assert(err.Error(), qt.Contains, "Your card was declined.")
	total, _, err := testDB.DonationsByCampaign(ctx, f.campaign.ID, "", 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, int64(0))

	f.gateway.decline = ""
	c.Assert(testDB.UpdateCampaignStatus(ctx, f.campaign.ID, db.CampaignActive, db.CampaignPaused, ""), qt.IsNil)
	_, err = f.srv.CreateDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 10})
	c.Assert(err, qt.ErrorIs, errors.ErrCampaignNotActive)
	c.Assert(f.raised(c), qt.Equals, int64(0))
}

func TestCreateDonationIdempotencyKey(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 1000)

	req := func() *DonationRequest {
		return &DonationRequest{CampaignID: f.campaign.ID, Amount: 300, IdempotencyKey: "client-key-1"}
	}
	first, err := f.srv.CreateDonation(ctx, f.donor, req())
	c.Assert(err, qt.IsNil)
	second, err := f.srv.CreateDonation(ctx, f.donor, req())
	c.Assert(err, qt.IsNil)
	c.Assert(second.ID, qt.Equals, first.ID)
	c.Assert(f.raised(c), qt.Equals, int64(300))
	f.assertConsistent(c)
}

func TestRefundDonation(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 1000)
	admin := newUser(c, db.AdminRole)

	donation, err := f.srv.CreateDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 400})
	c.Assert(err, qt.IsNil)
	_, err = f.srv.CreateDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 100})
	c.Assert(err, qt.IsNil)
	c.Assert(f.raised(c), qt.Equals, int64(500))

	// the donor is not the organization owner
	_, err = f.srv.RefundDonation(ctx, f.donor, donation.ID)
	c.Assert(err, qt.ErrorIs, errors.ErrNotOwnerOfItem)

	// a gateway failure changes nothing
	f.gateway.refundErr = fmt.Errorf("gateway down")
	_, err = f.srv.RefundDonation(ctx, f.owner, donation.ID)
	c.Assert(err, qt.ErrorIs, errors.ErrStripeError)
	c.Assert(f.raised(c), qt.Equals, int64(500))
	f.gateway.refundErr = nil

	refunded, err := f.srv.RefundDonation(ctx, f.owner, donation.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(refunded.PaymentStatus, qt.Equals, db.PaymentRefunded)
	c.Assert(refunded.RefundedAt, qt.Not(qt.IsNil))
	c.Assert(refunded.StatusHistory, qt.HasLen, 2)
	c.Assert(f.raised(c), qt.Equals, int64(100))
	c.Assert(f.notifier.count(db.NotificationDonationRefunded), qt.Equals, 1)

	// refunding twice is rejected before reaching the gateway
	_, err = f.srv.RefundDonation(ctx, admin, donation.ID)
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidTransition)
	c.Assert(f.gateway.refunds, qt.Equals, 1)
	c.Assert(f.raised(c), qt.Equals, int64(100))
	f.assertConsistent(c)
}

func TestConcurrentDonationsReachGoalOnce(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 1000)
	_, err := testDB.AddCampaignMilestone(ctx, f.campaign.ID, db.Milestone{Title: "Half", TargetAmount: 500})
	c.Assert(err, qt.IsNil)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.srv.CreateDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 600})
			c.Check(err, qt.IsNil)
		}()
	}
	wg.Wait()

	c.Assert(f.raised(c), qt.Equals, int64(1200))
	c.Assert(f.notifier.count(db.NotificationGoalReached), qt.Equals, 1)
	c.Assert(f.notifier.count(db.NotificationMilestoneReached), qt.Equals, 1)
	c.Assert(f.notifier.count(db.NotificationDonationReceived), qt.Equals, 2)

	stats, err := f.srv.CampaignStats(ctx, f.campaign.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stats.AmountRaised, qt.Equals, int64(1200))
	c.Assert(stats.DonationsCount, qt.Equals, int64(2))
	c.Assert(stats.DonorsCount, qt.Equals, int64(1))
	c.Assert(stats.GoalReached, qt.IsTrue)
	c.Assert(stats.MilestonesCompleted, qt.Equals, 1)
	c.Assert(stats.Progress, qt.Equals, float64(120))
	f.assertConsistent(c)
}

func TestPendingDonationCompletedByWebhook(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 1000)
	f.gateway.status = "processing"

	donation, err := f.srv.CreateDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 700})
	c.Assert(err, qt.IsNil)
	c.Assert(donation.PaymentStatus, qt.Equals, db.PaymentPending)
	c.Assert(f.raised(c), qt.Equals, int64(0))

	event := &stripe.PaymentEvent{
		EventID:       "evt_1",
		Kind:          stripe.PaymentSucceeded,
		TransactionID: donation.TransactionID,
		CampaignID:    f.campaign.ID.String(),
		Amount:        700,
		Currency:      "usd",
	}
	c.Assert(f.srv.ApplyPaymentEvent(ctx, event), qt.IsNil)
	c.Assert(f.raised(c), qt.Equals, int64(700))

	// a repeated delivery changes nothing
	c.Assert(f.srv.ApplyPaymentEvent(ctx, event), qt.IsNil)
	c.Assert(f.raised(c), qt.Equals, int64(700))

	// a late failure cannot undo a completed payment
	event.Kind = stripe.PaymentFailed
	c.Assert(f.srv.ApplyPaymentEvent(ctx, event), qt.IsNil)

	stored, err := testDB.Donation(ctx, donation.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.PaymentStatus, qt.Equals, db.PaymentCompleted)
	c.Assert(stored.StatusHistory, qt.HasLen, 2)
	c.Assert(stored.StatusHistory[1].Source, qt.Equals, SourceWebhook)

	// refund reported by the gateway
	event.Kind = stripe.PaymentRefunded
	c.Assert(f.srv.ApplyPaymentEvent(ctx, event), qt.IsNil)
	c.Assert(f.srv.ApplyPaymentEvent(ctx, event), qt.IsNil)
	c.Assert(f.raised(c), qt.Equals, int64(0))
	f.assertConsistent(c)
}

func TestFailedPendingDonation(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 1000)
	f.gateway.status = "requires_action"

	donation, err := f.srv.CreateDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 50})
	c.Assert(err, qt.IsNil)
	c.Assert(f.srv.ApplyPaymentEvent(ctx, &stripe.PaymentEvent{
		Kind:          stripe.PaymentFailed,
		TransactionID: donation.TransactionID,
	}), qt.IsNil)
	stored, err := testDB.Donation(ctx, donation.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.PaymentStatus, qt.Equals, db.PaymentFailed)
	c.Assert(f.raised(c), qt.Equals, int64(0))
}

func TestWebhookBeforeDonationStored(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 1000)
	ref := internal.NewObjectID()

	event := &stripe.PaymentEvent{
		EventID:       "evt_early",
		Kind:          stripe.PaymentSucceeded,
		TransactionID: "pi_early",
		DonationRef:   ref.String(),
		CampaignID:    f.campaign.ID.String(),
		UserID:        f.donor.ID.String(),
		IsAnonymous:   true,
		Amount:        150,
		Currency:      "usd",
	}
	c.Assert(f.srv.ApplyPaymentEvent(ctx, event), qt.IsNil)
	c.Assert(f.srv.ApplyPaymentEvent(ctx, event), qt.IsNil)

	stored, err := testDB.Donation(ctx, ref)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.PaymentStatus, qt.Equals, db.PaymentCompleted)
	c.Assert(stored.UserID, qt.Equals, f.donor.ID)
	c.Assert(f.raised(c), qt.Equals, int64(150))

	// anonymous donors are masked in the public listing
	_, list, err := f.srv.CampaignDonations(ctx, f.campaign.ID, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 1)
	c.Assert(list[0].UserID.IsZero(), qt.IsTrue)
	visible, err := f.srv.Donation(ctx, f.donor, ref)
	c.Assert(err, qt.IsNil)
	c.Assert(visible.UserID, qt.Equals, f.donor.ID)
	f.assertConsistent(c)
}

func TestSubscriptionDonation(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 10000)

	_, err := f.srv.CreateSubscriptionDonation(ctx, nil, &DonationRequest{CampaignID: f.campaign.ID, Amount: 500})
	c.Assert(err, qt.ErrorIs, errors.ErrUnauthorized)

	donation, err := f.srv.CreateSubscriptionDonation(ctx, f.donor, &DonationRequest{
		CampaignID: f.campaign.ID,
		Amount:     500,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(donation.PaymentStatus, qt.Equals, db.PaymentPending)
	c.Assert(donation.IsSubscriptionDonation, qt.IsTrue)

	c.Assert(donation.SubscriptionID, qt.Not(qt.Equals), "")
	c.Assert(f.gateway.subReqs[0].DonationRef, qt.Equals, donation.ID.String())

	invoice := func(tx string) *stripe.PaymentEvent {
		return &stripe.PaymentEvent{
			Kind:           stripe.InvoicePaid,
			TransactionID:  tx,
			DonationRef:    donation.ID.String(),
			SubscriptionID: donation.SubscriptionID,
			CampaignID:     f.campaign.ID.String(),
			UserID:         f.donor.ID.String(),
			Amount:         500,
			Currency:       "usd",
		}
	}
	// the first invoice completes the pending donation
	c.Assert(f.srv.ApplyPaymentEvent(ctx, invoice("pi_month_1")), qt.IsNil)
	first, err := testDB.Donation(ctx, donation.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(first.PaymentStatus, qt.Equals, db.PaymentCompleted)
	c.Assert(first.TransactionID, qt.Equals, "pi_month_1")

	// the next ones create new donations, once per invoice
	c.Assert(f.srv.ApplyPaymentEvent(ctx, invoice("pi_month_2")), qt.IsNil)
	c.Assert(f.srv.ApplyPaymentEvent(ctx, invoice("pi_month_2")), qt.IsNil)
	c.Assert(f.raised(c), qt.Equals, int64(1000))
	total, _, err := testDB.DonationsByCampaign(ctx, f.campaign.ID, db.PaymentCompleted, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, int64(2))
	second, err := testDB.DonationByTransactionID(ctx, "pi_month_2")
	c.Assert(err, qt.IsNil)
	c.Assert(second.ID, qt.Not(qt.Equals), donation.ID)
	c.Assert(second.SubscriptionID, qt.Equals, donation.SubscriptionID)
	f.assertConsistent(c)
}

func TestSubscriptionInvoiceBeforeDonationReturned(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 10000)

	var applyErr error
	f.gateway.onSubscribe = func(req *stripe.SubscriptionRequest, subID string) {
		applyErr = f.srv.ApplyPaymentEvent(ctx, &stripe.PaymentEvent{
			Kind:           stripe.InvoicePaid,
			TransactionID:  "pi_early_invoice",
			DonationRef:    req.DonationRef,
			SubscriptionID: subID,
			CampaignID:     req.CampaignID,
			UserID:         req.UserID,
			Amount:         req.Amount,
			Currency:       req.Currency,
		})
	}
	donation, err := f.srv.CreateSubscriptionDonation(ctx, f.donor, &DonationRequest{
		CampaignID: f.campaign.ID,
		Amount:     300,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(applyErr, qt.IsNil)

	// the early invoice completed the stored donation, no second one exists
	c.Assert(donation.PaymentStatus, qt.Equals, db.PaymentCompleted)
	c.Assert(donation.TransactionID, qt.Equals, "pi_early_invoice")
	c.Assert(donation.SubscriptionID, qt.Not(qt.Equals), "")
	total, _, err := testDB.DonationsByCampaign(ctx, f.campaign.ID, "", 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, int64(1))
	c.Assert(f.raised(c), qt.Equals, int64(300))
	f.assertConsistent(c)
}

func TestSubscriptionGatewayFailure(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 10000)
	f.gateway.subErr = fmt.Errorf("card declined")

	_, err := f.srv.CreateSubscriptionDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 300})
	c.Assert(err, qt.ErrorIs, errors.ErrStripeError)
	// the donation stored before calling the gateway does not stay Pending
	total, list, err := testDB.DonationsByCampaign(ctx, f.campaign.ID, "", 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, int64(1))
	c.Assert(list[0].PaymentStatus, qt.Equals, db.PaymentFailed)
	c.Assert(f.raised(c), qt.Equals, int64(0))
}

func TestWebhookForUnknownCampaignOrCurrency(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 1000)

	// acknowledged without storing anything, retrying would never succeed
	c.Assert(f.srv.ApplyPaymentEvent(ctx, &stripe.PaymentEvent{
		Kind:          stripe.PaymentSucceeded,
		TransactionID: "pi_orphan",
		CampaignID:    internal.NewObjectID().String(),
		Amount:        100,
		Currency:      "usd",
	}), qt.IsNil)
	_, err := testDB.DonationByTransactionID(ctx, "pi_orphan")
	c.Assert(err, qt.Equals, db.ErrNotFound)

	c.Assert(f.srv.ApplyPaymentEvent(ctx, &stripe.PaymentEvent{
		Kind:          stripe.PaymentSucceeded,
		TransactionID: "pi_euros",
		CampaignID:    f.campaign.ID.String(),
		Amount:        100,
		Currency:      "eur",
	}), qt.IsNil)
	_, err = testDB.DonationByTransactionID(ctx, "pi_euros")
	c.Assert(err, qt.Equals, db.ErrNotFound)

	c.Assert(f.srv.ApplyPaymentEvent(ctx, &stripe.PaymentEvent{
		Kind:           stripe.InvoicePaid,
		TransactionID:  "in_euros",
		SubscriptionID: "sub_unknown",
		CampaignID:     f.campaign.ID.String(),
		Amount:         100,
		Currency:       "EUR",
	}), qt.IsNil)
	_, err = testDB.DonationByTransactionID(ctx, "in_euros")
	c.Assert(err, qt.Equals, db.ErrNotFound)
	c.Assert(f.raised(c), qt.Equals, int64(0))

	// the campaign currency matches regardless of case
	c.Assert(f.srv.ApplyPaymentEvent(ctx, &stripe.PaymentEvent{
		Kind:          stripe.PaymentSucceeded,
		TransactionID: "pi_dollars",
		CampaignID:    f.campaign.ID.String(),
		Amount:        100,
		Currency:      "USD",
	}), qt.IsNil)
	c.Assert(f.raised(c), qt.Equals, int64(100))
}

func TestCancelDonation(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 1000)

	sub, err := f.srv.CreateSubscriptionDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 500})
	c.Assert(err, qt.IsNil)
	stranger := newUser(c, db.RegularRole)
	_, err = f.srv.CancelDonation(ctx, stranger, sub.ID)
	c.Assert(err, qt.ErrorIs, errors.ErrNotOwnerOfItem)
	cancelled, err := f.srv.CancelDonation(ctx, f.donor, sub.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(cancelled.PaymentStatus, qt.Equals, db.PaymentCancelled)
	c.Assert(cancelled.SubscriptionCancelledAt, qt.IsNotNil)
	c.Assert(f.gateway.subsCancel, qt.DeepEquals, []string{sub.SubscriptionID})
	_, err = f.srv.CancelDonation(ctx, f.donor, sub.ID)
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidTransition)

	f.gateway.status = "processing"
	pending, err := f.srv.CreateDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 80})
	c.Assert(err, qt.IsNil)
	_, err = f.srv.CancelDonation(ctx, f.donor, pending.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(f.gateway.cancelled, qt.DeepEquals, []string{pending.TransactionID})

	f.gateway.status = "succeeded"
	completed, err := f.srv.CreateDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 80})
	c.Assert(err, qt.IsNil)
	_, err = f.srv.CancelDonation(ctx, f.donor, completed.ID)
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidTransition)
	c.Assert(f.raised(c), qt.Equals, int64(80))
}

func TestCancelSubscriptionAfterFirstInvoice(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 10000)

	sub, err := f.srv.CreateSubscriptionDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 500})
	c.Assert(err, qt.IsNil)
	c.Assert(f.srv.ApplyPaymentEvent(ctx, &stripe.PaymentEvent{
		Kind:           stripe.InvoicePaid,
		TransactionID:  "pi_first_month",
		DonationRef:    sub.ID.String(),
		SubscriptionID: sub.SubscriptionID,
		CampaignID:     f.campaign.ID.String(),
		Amount:         500,
		Currency:       "usd",
	}), qt.IsNil)

	// the subscription is cancelled at the gateway, the paid month stays
	cancelled, err := f.srv.CancelDonation(ctx, f.donor, sub.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(f.gateway.subsCancel, qt.DeepEquals, []string{sub.SubscriptionID})
	c.Assert(cancelled.PaymentStatus, qt.Equals, db.PaymentCompleted)
	c.Assert(cancelled.SubscriptionCancelledAt, qt.IsNotNil)
	c.Assert(f.raised(c), qt.Equals, int64(500))

	_, err = f.srv.CancelDonation(ctx, f.donor, sub.ID)
	c.Assert(err, qt.ErrorIs, errors.ErrInvalidTransition)
	c.Assert(f.gateway.subsCancel, qt.HasLen, 1)
	f.assertConsistent(c)
}

func TestReconcile(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 1000)

	_, err := f.srv.CreateDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 120})
	c.Assert(err, qt.IsNil)
	// drift introduced outside of the service
	c.Assert(testDB.SetCampaignAmountRaised(ctx, f.campaign.ID, 120, 999), qt.IsNil)

	drifts, err := f.srv.Reconcile(ctx, f.campaign.ID, false)
	c.Assert(err, qt.IsNil)
	c.Assert(drifts, qt.HasLen, 1)
	c.Assert(drifts[0].Stored, qt.Equals, int64(999))
	c.Assert(drifts[0].Computed, qt.Equals, int64(120))
	c.Assert(drifts[0].Fixed, qt.IsFalse)

	drifts, err = f.srv.Reconcile(ctx, f.campaign.ID, true)
	c.Assert(err, qt.IsNil)
	c.Assert(drifts[0].Fixed, qt.IsTrue)
	c.Assert(f.raised(c), qt.Equals, int64(120))
	f.assertConsistent(c)
}

func TestReconcileFixDoesNotLoseConcurrentDonation(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	f := newFixture(c, 10000)

	_, err := f.srv.CreateDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 120})
	c.Assert(err, qt.IsNil)
	c.Assert(testDB.SetCampaignAmountRaised(ctx, f.campaign.ID, 120, 999), qt.IsNil)
	drifts, err := f.srv.Reconcile(ctx, f.campaign.ID, false)
	c.Assert(err, qt.IsNil)
	c.Assert(drifts, qt.HasLen, 1)
	stale := drifts[0]

	// a donation completes after the drift was computed
	_, err = f.srv.CreateDonation(ctx, f.donor, &DonationRequest{CampaignID: f.campaign.ID, Amount: 30})
	c.Assert(err, qt.IsNil)
	c.Assert(f.raised(c), qt.Equals, int64(1029))

	// writing the stale computed amount would drop the 30
	c.Assert(f.srv.fixDrift(ctx, &stale), qt.IsNil)
	c.Assert(stale.Fixed, qt.IsTrue)
	c.Assert(stale.Stored, qt.Equals, int64(1029))
	c.Assert(stale.Computed, qt.Equals, int64(150))
	c.Assert(f.raised(c), qt.Equals, int64(150))
	f.assertConsistent(c)
}

func TestCanTransition(t *testing.T) {
	c := qt.New(t)
	c.Assert(CanTransition(db.PaymentPending, db.PaymentCompleted), qt.IsTrue)
	c.Assert(CanTransition(db.PaymentPending, db.PaymentCancelled), qt.IsTrue)
	c.Assert(CanTransition(db.PaymentCompleted, db.PaymentRefunded), qt.IsTrue)
	c.Assert(CanTransition(db.PaymentRefunded, db.PaymentRefunded), qt.IsFalse)
	c.Assert(CanTransition(db.PaymentCompleted, db.PaymentFailed), qt.IsFalse)
	c.Assert(CanTransition(db.PaymentFailed, db.PaymentCompleted), qt.IsFalse)
	c.Assert(amountDelta(db.PaymentPending, db.PaymentCompleted, 10), qt.Equals, int64(10))
	c.Assert(amountDelta(db.PaymentCompleted, db.PaymentRefunded, 10), qt.Equals, int64(-10))
	c.Assert(amountDelta(db.PaymentPending, db.PaymentFailed, 10), qt.Equals, int64(0))
}
