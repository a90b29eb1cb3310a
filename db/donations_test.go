package db

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/raiseyourvoice/backend/internal"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestInsertDonationWithIncrement(t *testing.T) {
	defer resetDB(t)
	c := qt.New(t)
	ctx := context.Background()
	campaign := setupCampaign(t, 1000)

	donation := &Donation{
		CampaignID:    campaign.ID,
		Amount:        250,
		Currency:      "usd",
		PaymentStatus: PaymentCompleted,
		TransactionID: "pi_1",
	}
	err := testDB.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := testDB.InsertDonation(sessCtx, donation, "test"); err != nil {
			return err
		}
		_, err := testDB.IncCampaignAmountRaised(sessCtx, campaign.ID, donation.Amount)
		return err
	})
	c.Assert(err, qt.IsNil)

	// a failing transaction leaves no trace
	err = testDB.WithTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := testDB.IncCampaignAmountRaised(sessCtx, campaign.ID, 100); err != nil {
			return err
		}
		_, err := testDB.InsertDonation(sessCtx, &Donation{
			CampaignID:    campaign.ID,
			Amount:        100,
			Currency:      "usd",
			PaymentStatus: PaymentCompleted,
			TransactionID: "pi_1",
		}, "test")
		return err
	})
	c.Assert(err, qt.ErrorIs, ErrAlreadyExists)

	stored, err := testDB.Campaign(ctx, campaign.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.AmountRaised, qt.Equals, int64(250))
	total, err := testDB.SumCompletedDonations(ctx, campaign.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(total.Total, qt.Equals, stored.AmountRaised)
	c.Assert(total.Count, qt.Equals, int64(1))

	found, err := testDB.DonationByTransactionID(ctx, "pi_1")
	c.Assert(err, qt.IsNil)
	c.Assert(found.ID, qt.Equals, donation.ID)
	c.Assert(found.StatusHistory, qt.HasLen, 1)
	c.Assert(found.StatusHistory[0].To, qt.Equals, PaymentCompleted)
}

func TestPendingDonationsWithoutTransaction(t *testing.T) {
	defer resetDB(t)
	c := qt.New(t)
	ctx := context.Background()
	campaign := setupCampaign(t, 1000)
	// donations without gateway reference do not collide on the unique index
	for i := 0; i < 2; i++ {
		_, err := testDB.InsertDonation(ctx, &Donation{
			CampaignID: campaign.ID,
			Amount:     10,
			Currency:   "usd",
		}, "test")
		c.Assert(err, qt.IsNil)
	}
	total, donations, err := testDB.DonationsByCampaign(ctx, campaign.ID, PaymentPending, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, int64(2))
	c.Assert(donations[0].PaymentStatus, qt.Equals, PaymentPending)

	_, err = testDB.InsertDonation(ctx, &Donation{CampaignID: campaign.ID, Amount: 0}, "test")
	c.Assert(err, qt.Equals, ErrInvalidData)
}

func TestTransitionDonation(t *testing.T) {
	defer resetDB(t)
	c := qt.New(t)
	ctx := context.Background()
	campaign := setupCampaign(t, 1000)
	userID := internal.NewObjectID()
	id, err := testDB.InsertDonation(ctx, &Donation{
		CampaignID: campaign.ID,
		UserID:     userID,
		Amount:     500,
		Currency:   "usd",
	}, "api")
	c.Assert(err, qt.IsNil)

	donation, err := testDB.TransitionDonation(ctx, id, PaymentPending, PaymentCompleted, "webhook")
	c.Assert(err, qt.IsNil)
	c.Assert(donation.PaymentStatus, qt.Equals, PaymentCompleted)
	c.Assert(donation.StatusHistory, qt.HasLen, 2)
	c.Assert(donation.StatusHistory[1].From, qt.Equals, PaymentPending)
	c.Assert(donation.StatusHistory[1].Source, qt.Equals, "webhook")

	// the same transition cannot be applied twice
	_, err = testDB.TransitionDonation(ctx, id, PaymentPending, PaymentCompleted, "webhook")
	c.Assert(err, qt.Equals, ErrUpdateWouldOverwrite)
	_, err = testDB.TransitionDonation(ctx, internal.NewObjectID(), PaymentPending, PaymentCompleted, "webhook")
	c.Assert(err, qt.Equals, ErrNotFound)

	donation, err = testDB.TransitionDonation(ctx, id, PaymentCompleted, PaymentRefunded, "api")
	c.Assert(err, qt.IsNil)
	c.Assert(donation.RefundedAt, qt.Not(qt.IsNil))

	total, donations, err := testDB.DonationsByUser(ctx, userID, 1, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(total, qt.Equals, int64(1))
	c.Assert(donations[0].PaymentStatus, qt.Equals, PaymentRefunded)
}

func TestCampaignDonationTotals(t *testing.T) {
	defer resetDB(t)
	c := qt.New(t)
	ctx := context.Background()
	first := setupCampaign(t, 1000)
	second := setupCampaign(t, 1000)
	donor := internal.NewObjectID()
	for _, d := range []Donation{
		{CampaignID: first.ID, UserID: donor, Amount: 100, PaymentStatus: PaymentCompleted},
		{CampaignID: first.ID, UserID: donor, Amount: 200, PaymentStatus: PaymentCompleted},
		{CampaignID: first.ID, Amount: 50, PaymentStatus: PaymentCompleted, IsAnonymous: true},
		{CampaignID: first.ID, Amount: 999, PaymentStatus: PaymentFailed},
		{CampaignID: second.ID, Amount: 70, PaymentStatus: PaymentCompleted},
	} {
		d.Currency = "usd"
		_, err := testDB.InsertDonation(ctx, &d, "seed")
		c.Assert(err, qt.IsNil)
	}
	totals, err := testDB.CampaignDonationTotals(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(totals, qt.HasLen, 2)
	byCampaign := map[internal.ObjectID]CampaignTotal{}
	for _, total := range totals {
		byCampaign[total.CampaignID] = total
	}
	c.Assert(byCampaign[first.ID].Total, qt.Equals, int64(350))
	c.Assert(byCampaign[first.ID].Count, qt.Equals, int64(3))
	c.Assert(byCampaign[first.ID].Donors, qt.Equals, int64(1))
	c.Assert(byCampaign[second.ID].Total, qt.Equals, int64(70))

	empty := setupCampaign(t, 10)
	total, err := testDB.SumCompletedDonations(ctx, empty.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(total.Total, qt.Equals, int64(0))
}
