// Package campaigns implements the campaign management service: creation and
// edition, the approval workflow, featuring, milestones and updates.
package campaigns

import (
	"context"
	"fmt"
	"strings"

	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/events"
	"github.com/raiseyourvoice/backend/internal"
	"go.vocdoni.io/dvote/log"
)

// DefaultCurrency is used for campaigns created without a currency.
const DefaultCurrency = "usd"

// Notifier delivers notifications to users. It is implemented by the push
// notification service.
type Notifier interface {
	Notify(ctx context.Context, n *db.Notification) error
	NotifyOrganizationOwner(ctx context.Context, orgID internal.ObjectID, n *db.Notification) error
}

// Service manages the campaigns.
type Service struct {
	db        *db.MongoStorage
	notifier  Notifier
	publisher events.Publisher
}

// New creates the campaign service. The notifier and the publisher are
// optional.
func New(database *db.MongoStorage, notifier Notifier, publisher events.Publisher) (*Service, error) {
	if database == nil {
		return nil, fmt.Errorf("database is required")
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		db:        database,
		notifier:  notifier,
		publisher: publisher,
	}, nil
}

// editableStatuses are the statuses in which the campaign content can change.
var editableStatuses = []db.CampaignStatus{db.CampaignDraft, db.CampaignPendingApproval, db.CampaignPaused}

// deletableStatuses are the statuses in which a campaign can be removed.
var deletableStatuses = []db.CampaignStatus{db.CampaignDraft, db.CampaignCancelled, db.CampaignRejected}

// Campaign returns the campaign with the given id.
func (s *Service) Campaign(ctx context.Context, id internal.ObjectID) (*db.Campaign, error) {
	campaign, err := s.db.Campaign(ctx, id)
	if err != nil {
		return nil, storageError(err, errors.ErrCampaignNotFound)
	}
	return campaign, nil
}

// Campaigns returns a page of campaigns matching the filter and the total
// number of matches.
func (s *Service) Campaigns(ctx context.Context, filter db.CampaignFilter, page, pageSize int64,
) (int64, []db.Campaign, error) {
	if filter.Status != "" && !db.IsValidCampaignStatus(filter.Status) {
		return 0, nil, errors.ErrMalformedURLParam.Withf("unknown status %s", filter.Status)
	}
	total, campaigns, err := s.db.Campaigns(ctx, filter, page, pageSize)
	if err != nil {
		return 0, nil, errors.ErrGenericInternalServerError.WithErr(err)
	}
	return total, campaigns, nil
}

// CreateCampaign stores a new Draft campaign for an organization managed by
// the caller.
func (s *Service) CreateCampaign(ctx context.Context, caller *db.User, campaign *db.Campaign) (*db.Campaign, error) {
	if campaign == nil || campaign.Title == "" {
		return nil, errors.ErrInvalidCampaignData.With("title is required")
	}
	if campaign.Goal <= 0 {
		return nil, errors.ErrInvalidCampaignData.With("goal must be greater than zero")
	}
	if campaign.StartDate != nil && campaign.EndDate != nil && campaign.EndDate.Before(*campaign.StartDate) {
		return nil, errors.ErrInvalidCampaignData.With("end date is before start date")
	}
	if _, err := s.checkOrganizationManager(ctx, caller, campaign.OrganizationID); err != nil {
		return nil, err
	}
	campaign.ID = internal.NilObjectID
	campaign.CreatedBy = caller.ID
	campaign.Currency = strings.ToLower(campaign.Currency)
	if campaign.Currency == "" {
		campaign.Currency = DefaultCurrency
	}
	if _, err := s.db.SetCampaign(ctx, campaign); err != nil {
		return nil, storageError(err, errors.ErrCampaignNotFound)
	}
	log.Infow("campaign created",
		"campaignID", campaign.ID.String(),
		"organizationID", campaign.OrganizationID.String(),
		"user", caller.Email)
	return campaign, nil
}

// UpdateCampaign changes the editable fields of a campaign in Draft,
// PendingApproval or Paused status.
func (s *Service) UpdateCampaign(ctx context.Context, caller *db.User, campaign *db.Campaign) (*db.Campaign, error) {
	current, err := s.managedCampaign(ctx, caller, campaign.ID)
	if err != nil {
		return nil, err
	}
	if !statusIn(current.Status, editableStatuses) {
		return nil, errors.ErrInvalidTransition.Withf("campaign in status %s cannot be edited", current.Status)
	}
	if campaign.Goal < 0 {
		return nil, errors.ErrInvalidCampaignData.With("goal must be greater than zero")
	}
	// zero values keep the stored ones
	if campaign.Title == "" {
		campaign.Title = current.Title
	}
	if campaign.Goal == 0 {
		campaign.Goal = current.Goal
	}
	campaign.Currency = strings.ToLower(campaign.Currency)
	if _, err := s.db.SetCampaign(ctx, campaign, editableStatuses...); err != nil {
		return nil, storageError(err, errors.ErrCampaignNotFound)
	}
	return s.Campaign(ctx, campaign.ID)
}

// DeleteCampaign removes a Draft, Cancelled or Rejected campaign.
func (s *Service) DeleteCampaign(ctx context.Context, caller *db.User, id internal.ObjectID) error {
	current, err := s.managedCampaign(ctx, caller, id)
	if err != nil {
		return err
	}
	if !statusIn(current.Status, deletableStatuses) {
		return errors.ErrInvalidTransition.Withf("campaign in status %s cannot be deleted", current.Status)
	}
	if err := s.db.DelCampaign(ctx, id, deletableStatuses...); err != nil {
		return storageError(err, errors.ErrCampaignNotFound)
	}
	log.Infow("campaign deleted", "campaignID", id.String(), "user", caller.Email)
	return nil
}

// FeatureCampaign marks an Active campaign as featured. Admin only.
func (s *Service) FeatureCampaign(ctx context.Context, caller *db.User, id internal.ObjectID) error {
	return s.setFeatured(ctx, caller, id, true)
}

// UnfeatureCampaign removes the featured mark. Admin only.
func (s *Service) UnfeatureCampaign(ctx context.Context, caller *db.User, id internal.ObjectID) error {
	return s.setFeatured(ctx, caller, id, false)
}

func (s *Service) setFeatured(ctx context.Context, caller *db.User, id internal.ObjectID, featured bool) error {
	if caller == nil || !caller.IsAdmin() {
		return errors.ErrAdminRequired
	}
	if err := s.db.SetCampaignFeatured(ctx, id, featured); err != nil {
		if err == db.ErrUpdateWouldOverwrite {
			return errors.ErrCampaignNotFeaturing
		}
		return storageError(err, errors.ErrCampaignNotFound)
	}
	return nil
}

// AddUpdate appends an entry to the campaign updates log.
func (s *Service) AddUpdate(ctx context.Context, caller *db.User, id internal.ObjectID, title, content string,
) (*db.CampaignUpdate, error) {
	if title == "" || content == "" {
		return nil, errors.ErrInvalidCampaignData.With("update title and content are required")
	}
	if _, err := s.managedCampaign(ctx, caller, id); err != nil {
		return nil, err
	}
	update, err := s.db.AddCampaignUpdate(ctx, id, db.CampaignUpdate{
		Title:    title,
		Content:  content,
		AuthorID: caller.ID,
	})
	if err != nil {
		return nil, storageError(err, errors.ErrCampaignNotFound)
	}
	return update, nil
}

// managedCampaign returns the campaign if the caller can manage it.
func (s *Service) managedCampaign(ctx context.Context, caller *db.User, id internal.ObjectID) (*db.Campaign, error) {
	campaign, err := s.Campaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.checkOrganizationManager(ctx, caller, campaign.OrganizationID); err != nil {
		return nil, err
	}
	return campaign, nil
}

// checkOrganizationManager returns the organization if the caller owns it or
// is an administrator.
func (s *Service) checkOrganizationManager(ctx context.Context, caller *db.User, orgID internal.ObjectID,
) (*db.Organization, error) {
	if caller == nil {
		return nil, errors.ErrUnauthorized
	}
	if orgID.IsZero() {
		return nil, errors.ErrInvalidCampaignData.With("organization is required")
	}
	org, err := s.db.Organization(ctx, orgID)
	if err != nil {
		return nil, storageError(err, errors.ErrOrganizationNotFound)
	}
	if !caller.IsAdmin() && org.OwnerID != caller.ID {
		return nil, errors.ErrNotOwnerOfItem
	}
	return org, nil
}

func statusIn(status db.CampaignStatus, statuses []db.CampaignStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// storageError translates the storage sentinel errors.
func storageError(err error, notFound errors.Error) error {
	switch err {
	case nil:
		return nil
	case db.ErrNotFound:
		return notFound
	case db.ErrInvalidData:
		return errors.ErrInvalidCampaignData
	case db.ErrUpdateWouldOverwrite:
		return errors.ErrConcurrentUpdate
	case db.ErrAlreadyExists:
		return errors.ErrDuplicateConflict
	}
	return errors.ErrGenericInternalServerError.WithErr(err)
}
