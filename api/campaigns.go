package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/raiseyourvoice/backend/api/apicommon"
	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/errors"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/validator"
)

// campaign workflow actions of the campaignActionEndpoint
const (
	actionSubmit    = "submit"
	actionApprove   = "approve"
	actionReject    = "reject"
	actionPause     = "pause"
	actionResume    = "resume"
	actionComplete  = "complete"
	actionCancel    = "cancel"
	actionFeature   = "feature"
	actionUnfeature = "unfeature"
)

// createCampaignHandler creates a Draft campaign for an organization managed
// by the current user.
func (a *API) createCampaignHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req, ok := validator.Model[CampaignRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	orgID, err := internal.ObjectIDFromHex(req.OrganizationID)
	if err != nil {
		errors.ErrMalformedBody.With("invalid organizationId").Write(w)
		return
	}
	campaign, err := a.campaigns.CreateCampaign(r.Context(), user, &db.Campaign{
		OrganizationID: orgID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		ImageURL:       req.ImageURL,
		Goal:           req.Goal,
		Currency:       req.Currency,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	})
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, campaign)
}

// updateCampaignHandler changes the editable fields of a campaign.
func (a *API) updateCampaignHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromRequest(r, "campaignId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	req, ok := validator.Model[UpdateCampaignRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	campaign, err := a.campaigns.UpdateCampaign(r.Context(), user, &db.Campaign{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Goal:        req.Goal,
		Currency:    req.Currency,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, campaign)
}

// deleteCampaignHandler removes a Draft, Cancelled or Rejected campaign.
func (a *API) deleteCampaignHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromRequest(r, "campaignId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	if err := a.campaigns.DeleteCampaign(r.Context(), user, id); err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteOK(w)
}

// campaignActionHandler runs a workflow action on a campaign. The reject and
// cancel actions accept an optional JSON body with a reason.
func (a *API) campaignActionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromRequest(r, "campaignId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	ctx := r.Context()
	var campaign *db.Campaign
	switch action := chi.URLParam(r, "action"); action {
	case actionSubmit:
		campaign, err = a.campaigns.SubmitCampaign(ctx, user, id)
	case actionApprove:
		campaign, err = a.campaigns.ApproveCampaign(ctx, user, id)
	case actionPause:
		campaign, err = a.campaigns.PauseCampaign(ctx, user, id)
	case actionResume:
		campaign, err = a.campaigns.ResumeCampaign(ctx, user, id)
	case actionComplete:
		campaign, err = a.campaigns.CompleteCampaign(ctx, user, id)
	case actionReject, actionCancel:
		reason, rerr := reasonFromBody(r)
		if rerr != nil {
			apicommon.HTTPWriteError(w, rerr)
			return
		}
		if action == actionReject {
			campaign, err = a.campaigns.RejectCampaign(ctx, user, id, reason)
		} else {
			campaign, err = a.campaigns.CancelCampaign(ctx, user, id, reason)
		}
	case actionFeature, actionUnfeature:
		if action == actionFeature {
			err = a.campaigns.FeatureCampaign(ctx, user, id)
		} else {
			err = a.campaigns.UnfeatureCampaign(ctx, user, id)
		}
		if err == nil {
			campaign, err = a.campaigns.Campaign(ctx, id)
		}
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, campaign)
}

// reasonFromBody reads the optional reason of a rejection or cancellation.
func reasonFromBody(r *http.Request) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		return "", errors.ErrMalformedBody.WithErr(err)
	}
	if len(body) == 0 {
		return "", nil
	}
	req := &ReasonRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		return "", errors.ErrMalformedBody.WithErr(err)
	}
	return req.Reason, nil
}

// addMilestoneHandler adds a milestone to a campaign.
func (a *API) addMilestoneHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromRequest(r, "campaignId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	req, ok := validator.Model[MilestoneRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	milestone, err := a.campaigns.AddMilestone(r.Context(), user, id, req.Title, req.TargetAmount)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, milestone)
}

// addCampaignUpdateHandler publishes an entry of the campaign updates log.
func (a *API) addCampaignUpdateHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	id, err := apicommon.ObjectIDFromRequest(r, "campaignId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	req, ok := validator.Model[CampaignUpdateRequest](r)
	if !ok {
		errors.ErrMalformedBody.Write(w)
		return
	}
	update, err := a.campaigns.AddUpdate(r.Context(), user, id, req.Title, req.Content)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, update)
}

// campaignsHandler lists the campaigns. Supported filters are the status,
// organizationId, category and featured query parameters.
func (a *API) campaignsHandler(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := apicommon.PaginationFromRequest(r)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	orgID, err := apicommon.ObjectIDFromQuery(r, "organizationId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	query := r.URL.Query()
	filter := db.CampaignFilter{
		Status:         db.CampaignStatus(query.Get("status")),
		OrganizationID: orgID,
		Category:       query.Get("category"),
	}
	if raw := query.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			errors.ErrMalformedURLParam.With("invalid featured").Write(w)
			return
		}
		filter.Featured = &featured
	}
	total, campaigns, err := a.campaigns.Campaigns(r.Context(), filter, page, pageSize)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, &ListResponse[db.Campaign]{
		Total: total, Page: page, PageSize: pageSize, Items: campaigns,
	})
}

// campaignHandler returns a campaign.
func (a *API) campaignHandler(w http.ResponseWriter, r *http.Request) {
	id, err := apicommon.ObjectIDFromRequest(r, "campaignId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	campaign, err := a.campaigns.Campaign(r.Context(), id)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, campaign)
}

// campaignDonationsHandler lists the completed donations of a campaign with
// the anonymous donors masked.
func (a *API) campaignDonationsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := apicommon.ObjectIDFromRequest(r, "campaignId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	page, pageSize, err := apicommon.PaginationFromRequest(r)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	total, donations, err := a.donations.CampaignDonations(r.Context(), id, page, pageSize)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, &ListResponse[db.Donation]{
		Total: total, Page: page, PageSize: pageSize, Items: donations,
	})
}

// campaignStatsHandler returns the donation summary of a campaign.
func (a *API) campaignStatsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := apicommon.ObjectIDFromRequest(r, "campaignId")
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	stats, err := a.donations.CampaignStats(r.Context(), id)
	if err != nil {
		apicommon.HTTPWriteError(w, err)
		return
	}
	apicommon.HTTPWriteJSON(w, stats)
}
