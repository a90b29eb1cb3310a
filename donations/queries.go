package donations

import (
	"context"
	goerrors "errors"
	"fmt"

	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/internal"
	"go.vocdoni.io/dvote/log"
)

// CampaignStats summarises the donations of a campaign.
type CampaignStats struct {
	CampaignID          internal.ObjectID `json:"campaignId"`
	Goal                int64             `json:"goal"`
	AmountRaised        int64             `json:"amountRaised"`
	Currency            string            `json:"currency"`
	Progress            float64           `json:"progress"`
	DonationsCount      int64             `json:"donationsCount"`
	DonorsCount         int64             `json:"donorsCount"`
	MilestonesTotal     int               `json:"milestonesTotal"`
	MilestonesCompleted int               `json:"milestonesCompleted"`
	GoalReached         bool              `json:"goalReached"`
}

// Drift reports a campaign whose stored raised amount differs from the sum
// of its completed donations.
type Drift struct {
	CampaignID internal.ObjectID `json:"campaignId"`
	Title      string            `json:"title"`
	Stored     int64             `json:"stored"`
	Computed   int64             `json:"computed"`
	Fixed      bool              `json:"fixed"`
}

// maskDonor hides the identity of anonymous donors.
func maskDonor(d db.Donation) db.Donation {
	if d.IsAnonymous {
		d.UserID = internal.NilObjectID
	}
	return d
}

// Donation returns a donation. The donor identity of anonymous donations is
// only visible to the donor and to administrators.
func (s *Service) Donation(ctx context.Context, caller *db.User, id internal.ObjectID) (*db.Donation, error) {
	donation, err := s.db.Donation(ctx, id)
	if err != nil {
		return nil, storageError(err, errors.ErrDonationNotFound)
	}
	if caller != nil && (caller.IsAdmin() || caller.ID == donation.UserID) {
		return donation, nil
	}
	masked := maskDonor(*donation)
	return &masked, nil
}

// CampaignDonations returns a page of the completed donations of a campaign
// with anonymous donors masked.
func (s *Service) CampaignDonations(ctx context.Context, campaignID internal.ObjectID, page, pageSize int64,
) (int64, []db.Donation, error) {
	if _, err := s.db.Campaign(ctx, campaignID); err != nil {
		return 0, nil, storageError(err, errors.ErrCampaignNotFound)
	}
	total, list, err := s.db.DonationsByCampaign(ctx, campaignID, db.PaymentCompleted, page, pageSize)
	if err != nil {
		return 0, nil, storageError(err, errors.ErrCampaignNotFound)
	}
	for i := range list {
		list[i] = maskDonor(list[i])
	}
	return total, list, nil
}

// UserDonations returns a page of the donations made by the user.
func (s *Service) UserDonations(ctx context.Context, userID internal.ObjectID, page, pageSize int64,
) (int64, []db.Donation, error) {
	total, list, err := s.db.DonationsByUser(ctx, userID, page, pageSize)
	if err != nil {
		return 0, nil, storageError(err, errors.ErrUserNotFound)
	}
	return total, list, nil
}

// CampaignStats returns the donation summary of the campaign.
func (s *Service) CampaignStats(ctx context.Context, campaignID internal.ObjectID) (*CampaignStats, error) {
	campaign, err := s.db.Campaign(ctx, campaignID)
	if err != nil {
		return nil, storageError(err, errors.ErrCampaignNotFound)
	}
	totals, err := s.db.SumCompletedDonations(ctx, campaignID)
	if err != nil {
		return nil, storageError(err, errors.ErrCampaignNotFound)
	}
	stats := &CampaignStats{
		CampaignID:      campaign.ID,
		Goal:            campaign.Goal,
		AmountRaised:    campaign.AmountRaised,
		Currency:        campaign.Currency,
		DonationsCount:  totals.Count,
		DonorsCount:     totals.Donors,
		MilestonesTotal: len(campaign.Milestones),
		GoalReached:     campaign.GoalReached,
	}
	if campaign.Goal > 0 {
		stats.Progress = float64(campaign.AmountRaised) * 100 / float64(campaign.Goal)
	}
	for _, m := range campaign.Milestones {
		if m.IsCompleted {
			stats.MilestonesCompleted++
		}
	}
	return stats, nil
}

// reconcileAttempts bounds the retries of a drift fix that keeps racing
// with donations being applied.
const reconcileAttempts = 3

// Reconcile compares the raised amount of the campaigns with the sum of
// their completed donations. A zero campaignID checks every campaign. When
// fix is set the stored amount is replaced with the computed one, only if
// it did not change since it was read.
func (s *Service) Reconcile(ctx context.Context, campaignID internal.ObjectID, fix bool) ([]Drift, error) {
	// the stored amounts are read before the sums, so a donation applied in
	// between makes the conditional fix fail instead of being lost
	campaigns, err := s.db.CampaignsRaised(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list campaigns: %w", err)
	}
	totals, err := s.db.CampaignDonationTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not aggregate donations: %w", err)
	}
	computed := make(map[internal.ObjectID]int64, len(totals))
	for _, t := range totals {
		computed[t.CampaignID] = t.Total
	}
	drifts := []Drift{}
	for _, c := range campaigns {
		if !campaignID.IsZero() && c.ID != campaignID {
			continue
		}
		if c.AmountRaised == computed[c.ID] {
			continue
		}
		drift := Drift{
			CampaignID: c.ID,
			Title:      c.Title,
			Stored:     c.AmountRaised,
			Computed:   computed[c.ID],
		}
		if fix {
			if err := s.fixDrift(ctx, &drift); err != nil {
				return drifts, fmt.Errorf("could not fix campaign %s: %w", c.ID, err)
			}
			if drift.Stored == drift.Computed {
				// settled by the concurrent updates
				continue
			}
		}
		drifts = append(drifts, drift)
	}
	return drifts, nil
}

// fixDrift writes the computed amount conditional on the stored one. When
// the stored amount changed meanwhile it reads both values again and
// retries; after reconcileAttempts conflicts the drift is left unfixed.
func (s *Service) fixDrift(ctx context.Context, drift *Drift) error {
	for attempt := 1; ; attempt++ {
		err := s.db.SetCampaignAmountRaised(ctx, drift.CampaignID, drift.Stored, drift.Computed)
		if err == nil {
			drift.Fixed = true
			log.Infow("campaign raised amount reconciled",
				"campaignID", drift.CampaignID.String(),
				"stored", drift.Stored,
				"computed", drift.Computed)
			return nil
		}
		if !goerrors.Is(err, db.ErrUpdateWouldOverwrite) {
			return err
		}
		if attempt == reconcileAttempts {
			log.Warnw("campaign raised amount changed while reconciling, skipping",
				"campaignID", drift.CampaignID.String(),
				"attempts", attempt)
			return nil
		}
		campaign, err := s.db.Campaign(ctx, drift.CampaignID)
		if err != nil {
			return err
		}
		total, err := s.db.SumCompletedDonations(ctx, drift.CampaignID)
		if err != nil {
			return err
		}
		drift.Stored, drift.Computed = campaign.AmountRaised, total.Total
		if drift.Stored == drift.Computed {
			return nil
		}
	}
}
