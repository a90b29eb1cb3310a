package campaigns

import (
	"context"
	"fmt"

	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/events"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/metrics"
	"go.vocdoni.io/dvote/log"
)

// MilestoneReached is the payload of the campaign.milestone_reached event. A
// reached goal is reported with Goal set and no milestone id.
type MilestoneReached struct {
	CampaignID   string `json:"campaignId"`
	MilestoneID  string `json:"milestoneId,omitempty"`
	Title        string `json:"title"`
	TargetAmount int64  `json:"targetAmount"`
	AmountRaised int64  `json:"amountRaised"`
	Goal         bool   `json:"goal"`
}

// AddMilestone adds a milestone to the campaign. If the raised amount already
// covers it, it is completed right away.
func (s *Service) AddMilestone(ctx context.Context, caller *db.User, id internal.ObjectID, title string,
	targetAmount int64,
) (*db.Milestone, error) {
	if title == "" {
		return nil, errors.ErrInvalidCampaignData.With("milestone title is required")
	}
	if targetAmount <= 0 {
		return nil, errors.ErrInvalidAmount.With("milestone target must be greater than zero")
	}
	if _, err := s.managedCampaign(ctx, caller, id); err != nil {
		return nil, err
	}
	milestone, err := s.db.AddCampaignMilestone(ctx, id, db.Milestone{
		Title:        title,
		TargetAmount: targetAmount,
	})
	if err != nil {
		return nil, storageError(err, errors.ErrCampaignNotFound)
	}
	if completed, err := s.CheckMilestones(ctx, id); err != nil {
		log.Warnw("could not check milestones", "campaignID", id.String(), "error", err)
	} else {
		for _, m := range completed {
			if m.ID == milestone.ID {
				return &m, nil
			}
		}
	}
	return milestone, nil
}

// CheckMilestones completes every milestone covered by the current raised
// amount and returns the ones completed by this call. Each milestone is
// flipped with a conditional update, so concurrent calls for the same
// campaign complete and notify every milestone exactly once. The goal is
// handled as one more milestone.
func (s *Service) CheckMilestones(ctx context.Context, id internal.ObjectID) ([]db.Milestone, error) {
	campaign, err := s.db.Campaign(ctx, id)
	if err != nil {
		return nil, storageError(err, errors.ErrCampaignNotFound)
	}
	completed := []db.Milestone{}
	for _, m := range campaign.Milestones {
		if m.IsCompleted || m.TargetAmount > campaign.AmountRaised {
			continue
		}
		flipped, err := s.db.CompleteMilestone(ctx, id, m.ID, m.TargetAmount)
		if err != nil {
			return completed, fmt.Errorf("could not complete milestone %s: %w", m.ID, err)
		}
		if !flipped {
			continue
		}
		m.IsCompleted = true
		completed = append(completed, m)
		metrics.MilestonesReached.Inc()
		log.Infow("campaign milestone reached",
			"campaignID", id.String(),
			"milestoneID", m.ID.String(),
			"target", m.TargetAmount,
			"raised", campaign.AmountRaised)
		events.PublishAsync(s.publisher, events.CampaignMilestoneReached, &MilestoneReached{
			CampaignID:   id.String(),
			MilestoneID:  m.ID.String(),
			Title:        m.Title,
			TargetAmount: m.TargetAmount,
			AmountRaised: campaign.AmountRaised,
		})
		s.notifyOwner(ctx, campaign.OrganizationID, &db.Notification{
			Type:  db.NotificationMilestoneReached,
			Title: fmt.Sprintf("Milestone reached: %s", m.Title),
			Body: fmt.Sprintf("The campaign %q reached the milestone %q (%d of %d %s).",
				campaign.Title, m.Title, m.TargetAmount, campaign.Goal, campaign.Currency),
			Data: map[string]string{
				"campaignId":  id.String(),
				"milestoneId": m.ID.String(),
			},
		})
	}

	if !campaign.GoalReached && campaign.AmountRaised >= campaign.Goal {
		flipped, err := s.db.MarkGoalReached(ctx, id)
		if err != nil {
			return completed, fmt.Errorf("could not mark goal reached: %w", err)
		}
		if flipped {
			log.Infow("campaign goal reached",
				"campaignID", id.String(),
				"goal", campaign.Goal,
				"raised", campaign.AmountRaised)
			events.PublishAsync(s.publisher, events.CampaignMilestoneReached, &MilestoneReached{
				CampaignID:   id.String(),
				Title:        campaign.Title,
				TargetAmount: campaign.Goal,
				AmountRaised: campaign.AmountRaised,
				Goal:         true,
			})
			s.notifyOwner(ctx, campaign.OrganizationID, &db.Notification{
				Type:  db.NotificationGoalReached,
				Title: fmt.Sprintf("Goal reached: %s", campaign.Title),
				Body: fmt.Sprintf("The campaign %q reached its goal of %d %s.",
					campaign.Title, campaign.Goal, campaign.Currency),
				Data: map[string]string{"campaignId": id.String()},
			})
		}
	}
	return completed, nil
}
