package api

import (
	"time"

	"github.com/raiseyourvoice/backend/db"
	"github.com/raiseyourvoice/backend/internal"
)

// RegisterRequest is the body of the account registration.
type RegisterRequest struct {
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required"`
	FirstName         string `json:"firstName" validate:"required,max=100"`
	LastName          string `json:"lastName" validate:"max=100"`
	Phone             string `json:"phone" validate:"omitempty,phone"`
	PreferredLanguage string `json:"preferredLanguage" validate:"omitempty,lang"`
}

// LoginRequest holds the user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token to rotate or revoke.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UpdateUserRequest holds the editable profile fields. Empty fields are not
// changed.
type UpdateUserRequest struct {
	FirstName         string `json:"firstName" validate:"max=100"`
	LastName          string `json:"lastName" validate:"max=100"`
	Phone             string `json:"phone" validate:"omitempty,phone"`
	PreferredLanguage string `json:"preferredLanguage" validate:"omitempty,lang"`
}

// ChangePasswordRequest replaces the password of the current user.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// DeviceRequest registers a push notification device.
type DeviceRequest struct {
	Token    string `json:"token" validate:"required,max=4096"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

// OrganizationRequest holds the editable fields of an organization.
type OrganizationRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Website     string `json:"website" validate:"omitempty,url"`
	LogoURL     string `json:"logoURL" validate:"omitempty,url"`
}

// ReasonRequest carries the reason of a rejection or a cancellation.
type ReasonRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// CampaignRequest is the body of the campaign creation.
type CampaignRequest struct {
	OrganizationID string     `json:"organizationId" validate:"required,objectid"`
	Title          string     `json:"title" validate:"required,max=200"`
	Description    string     `json:"description" validate:"max=20000"`
	Category       string     `json:"category" validate:"max=100"`
	ImageURL       string     `json:"imageURL" validate:"omitempty,url"`
	Goal           int64      `json:"goal" validate:"gt=0"`
	Currency       string     `json:"currency" validate:"omitempty,currency"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
}

// UpdateCampaignRequest holds the editable fields of a campaign. Zero values
// keep the stored ones.
type UpdateCampaignRequest struct {
	Title       string     `json:"title" validate:"max=200"`
	Description string     `json:"description" validate:"max=20000"`
	Category    string     `json:"category" validate:"max=100"`
	ImageURL    string     `json:"imageURL" validate:"omitempty,url"`
	Goal        int64      `json:"goal" validate:"min=0"`
	Currency    string     `json:"currency" validate:"omitempty,currency"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// MilestoneRequest adds a milestone to a campaign.
type MilestoneRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	TargetAmount int64  `json:"targetAmount" validate:"gt=0"`
}

// CampaignUpdateRequest publishes an entry of the campaign updates log.
type CampaignUpdateRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=20000"`
}

// DonationRequest is the body of one-off and monthly donations. Amount is
// in minor units.
type DonationRequest struct {
	CampaignID      string `json:"campaignId" validate:"required,objectid"`
	Amount          int64  `json:"amount" validate:"gt=0"`
	Currency        string `json:"currency" validate:"omitempty,currency"`
	PaymentMethodID string `json:"paymentMethodId" validate:"required"`
	IsAnonymous     bool   `json:"isAnonymous"`
	Message         string `json:"message" validate:"max=500"`
	IdempotencyKey  string `json:"idempotencyKey" validate:"max=255"`
}

// PostRequest holds the fields of a post.
type PostRequest struct {
	OrganizationID string   `json:"organizationId" validate:"omitempty,objectid"`
	Content        string   `json:"content" validate:"required,max=5000"`
	MediaURLs      []string `json:"mediaURLs" validate:"max=10,dive,url"`
	Tags           []string `json:"tags" validate:"max=10,dive,max=50"`
}

// CommentRequest is the body of a comment or a reply.
type CommentRequest struct {
	Content  string `json:"content" validate:"required,max=5000"`
	ParentID string `json:"parentId" validate:"omitempty,objectid"`
}

// LocalizedStringRequest sets the value of a localized string.
type LocalizedStringRequest struct {
	Value string `json:"value" validate:"required"`
}

// UserInfo is the public representation of the current user.
type UserInfo struct {
	ID                internal.ObjectID `json:"id"`
	Email             string            `json:"email"`
	FirstName         string            `json:"firstName"`
	LastName          string            `json:"lastName"`
	Phone             string            `json:"phone,omitempty"`
	Role              db.UserRole       `json:"role"`
	PreferredLanguage string            `json:"preferredLanguage"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// AuthResponse is returned on registration, login and refresh.
type AuthResponse struct {
	User             *UserInfo `json:"user"`
	AccessToken      string    `json:"accessToken"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// ListResponse is a page of a listing.
type ListResponse[T any] struct {
	Total    int64 `json:"total"`
	Page     int64 `json:"page"`
	PageSize int64 `json:"pageSize"`
	Items    []T   `json:"items"`
}

// CountResponse reports a number of items.
type CountResponse struct {
	Count int64 `json:"count"`
}

// LocalizedStringResponse is a single localized string.
type LocalizedStringResponse struct {
	Key      string `json:"key"`
	Language string `json:"language"`
	Value    string `json:"value"`
}
