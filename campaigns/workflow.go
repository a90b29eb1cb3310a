package campaigns

import (
	"context"
	"fmt"
	"time"

	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/events"
	"github.com/raiseyourvoice/backend/internal"
	"go.vocdoni.io/dvote/log"
)

// transitions lists the statuses reachable from each status. Completed,
// Cancelled and Rejected are final.
var transitions = map[db.CampaignStatus][]db.CampaignStatus{
	db.CampaignDraft:           {db.CampaignPendingApproval, db.CampaignCancelled},
	db.CampaignPendingApproval: {db.CampaignActive, db.CampaignRejected, db.CampaignCancelled},
	db.CampaignActive:          {db.CampaignPaused, db.CampaignCompleted, db.CampaignCancelled},
	db.CampaignPaused:          {db.CampaignActive, db.CampaignCompleted, db.CampaignCancelled},
}

// CanTransition reports whether a campaign can move from one status to the
// other.
func CanTransition(from, to db.CampaignStatus) bool {
	return statusIn(to, transitions[from])
}

// StatusChange is the payload of the campaign.status_changed event.
type StatusChange struct {
	CampaignID     string            `json:"campaignId"`
	OrganizationID string            `json:"organizationId"`
	From           db.CampaignStatus `json:"from"`
	To             db.CampaignStatus `json:"to"`
	Reason         string            `json:"reason,omitempty"`
	ChangedBy      string            `json:"changedBy"`
	ChangedAt      time.Time         `json:"changedAt"`
}

// SubmitCampaign sends a Draft campaign for approval.
func (s *Service) SubmitCampaign(ctx context.Context, caller *db.User, id internal.ObjectID) (*db.Campaign, error) {
	return s.transition(ctx, caller, id, db.CampaignPendingApproval, "", false)
}

// ApproveCampaign activates a campaign pending approval. Admin only.
func (s *Service) ApproveCampaign(ctx context.Context, caller *db.User, id internal.ObjectID) (*db.Campaign, error) {
	return s.transition(ctx, caller, id, db.CampaignActive, "", true)
}

// RejectCampaign rejects a campaign pending approval. Admin only.
func (s *Service) RejectCampaign(ctx context.Context, caller *db.User, id internal.ObjectID, reason string,
) (*db.Campaign, error) {
	if reason == "" {
		return nil, errors.ErrInvalidCampaignData.With("a rejection reason is required")
	}
	return s.transition(ctx, caller, id, db.CampaignRejected, reason, true)
}

// PauseCampaign stops accepting donations for an Active campaign.
func (s *Service) PauseCampaign(ctx context.Context, caller *db.User, id internal.ObjectID) (*db.Campaign, error) {
	return s.transition(ctx, caller, id, db.CampaignPaused, "", false)
}

// ResumeCampaign reactivates a Paused campaign.
func (s *Service) ResumeCampaign(ctx context.Context, caller *db.User, id internal.ObjectID) (*db.Campaign, error) {
	current, err := s.Campaign(ctx, id)
	if err != nil {
		return nil, err
	}
	// Active is also reachable from PendingApproval, but only through approval
	if current.Status != db.CampaignPaused {
		return nil, errors.ErrInvalidTransition.Withf("only paused campaigns can be resumed, status is %s",
			current.Status)
	}
	return s.transition(ctx, caller, id, db.CampaignActive, "", false)
}

// CompleteCampaign closes an Active or Paused campaign.
func (s *Service) CompleteCampaign(ctx context.Context, caller *db.User, id internal.ObjectID) (*db.Campaign, error) {
	return s.transition(ctx, caller, id, db.CampaignCompleted, "", false)
}

// CancelCampaign cancels a campaign that is not finished yet.
func (s *Service) CancelCampaign(ctx context.Context, caller *db.User, id internal.ObjectID, reason string,
) (*db.Campaign, error) {
	return s.transition(ctx, caller, id, db.CampaignCancelled, reason, false)
}

// transition moves the campaign to the next status if the transition table
// allows it. The stored status is updated conditionally on the status read,
// so a concurrent change makes this call fail with ErrConcurrentUpdate.
func (s *Service) transition(ctx context.Context, caller *db.User, id internal.ObjectID,
	next db.CampaignStatus, reason string, adminOnly bool,
) (*db.Campaign, error) {
	if caller == nil {
		return nil, errors.ErrUnauthorized
	}
	if adminOnly && !caller.IsAdmin() {
		return nil, errors.ErrAdminRequired
	}
	var (
		current *db.Campaign
		err     error
	)
	if adminOnly {
		current, err = s.Campaign(ctx, id)
	} else {
		current, err = s.managedCampaign(ctx, caller, id)
	}
	if err != nil {
		return nil, err
	}
	if !CanTransition(current.Status, next) {
		return nil, errors.ErrInvalidTransition.Withf("campaign cannot move from %s to %s", current.Status, next)
	}
	if err := s.db.UpdateCampaignStatus(ctx, id, current.Status, next, reason); err != nil {
		return nil, storageError(err, errors.ErrCampaignNotFound)
	}
	log.Infow("campaign status changed",
		"campaignID", id.String(),
		"from", current.Status,
		"to", next,
		"user", caller.Email)

	change := &StatusChange{
		CampaignID:     id.String(),
		OrganizationID: current.OrganizationID.String(),
		From:           current.Status,
		To:             next,
		Reason:         reason,
		ChangedBy:      caller.ID.String(),
		ChangedAt:      time.Now(),
	}
	events.PublishAsync(s.publisher, events.CampaignStatusChanged, change)
	s.notifyOwner(ctx, current.OrganizationID, &db.Notification{
		Type:  db.NotificationCampaignStatus,
		Title: fmt.Sprintf("Campaign %s is now %s", current.Title, next),
		Body:  statusBody(current.Title, next, reason),
		Data: map[string]string{
			"campaignId": id.String(),
			"status":     string(next),
		},
	})

	updated, err := s.Campaign(ctx, id)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func statusBody(title string, status db.CampaignStatus, reason string) string {
	body := fmt.Sprintf("The campaign %q changed its status to %s.", title, status)
	if reason != "" {
		body += " Reason: " + reason
	}
	return body
}

// notifyOwner sends a notification to the organization owner, logging
// failures.
func (s *Service) notifyOwner(ctx context.Context, orgID internal.ObjectID, n *db.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyOrganizationOwner(ctx, orgID, n); err != nil {
		log.Warnw("could not notify organization owner",
			"organizationID", orgID.String(),
			"type", n.Type,
			"error", err)
	}
}
