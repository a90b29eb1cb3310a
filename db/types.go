package db

import (
	"time"

	"github.com/raiseyourvoice/backend/internal"
)

type UserRole string

type DeviceToken struct {
	Token    string    `json:"token" bson:"token"`
	Platform string    `json:"platform" bson:"platform"`
	AddedAt  time.Time `json:"addedAt" bson:"addedAt"`
}

type User struct {
	ID                internal.ObjectID `json:"id" bson:"_id"`
	Email             string            `json:"email" bson:"email"`
	Password          string            `json:"-" bson:"password"`
	FirstName         string            `json:"firstName" bson:"firstName"`
	LastName          string            `json:"lastName" bson:"lastName"`
	Phone             string            `json:"-" bson:"phone,omitempty"`
	Role              UserRole          `json:"role" bson:"role"`
	DeviceTokens      []DeviceToken     `json:"-" bson:"deviceTokens"`
	PreferredLanguage string            `json:"preferredLanguage" bson:"preferredLanguage"`
	CreatedAt         time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool { return u.Role == AdminRole }

// IsModerator returns true if the user can moderate content.
func (u *User) IsModerator() bool { return u.Role == AdminRole || u.Role == ModeratorRole }

// RefreshToken stores the hash of an opaque refresh token. Tokens issued by
// rotating the same login share a Family.
type RefreshToken struct {
	ID         internal.ObjectID `json:"id" bson:"_id"`
	UserID     internal.ObjectID `json:"userId" bson:"userId"`
	TokenHash  string            `json:"-" bson:"tokenHash"`
	Family     string            `json:"family" bson:"family"`
	ExpiresAt  time.Time         `json:"expiresAt" bson:"expiresAt"`
	CreatedAt  time.Time         `json:"createdAt" bson:"createdAt"`
	RevokedAt  *time.Time        `json:"revokedAt,omitempty" bson:"revokedAt,omitempty"`
	ReplacedBy string            `json:"-" bson:"replacedBy,omitempty"`
}

type VerificationStatus string

type Organization struct {
	ID                 internal.ObjectID  `json:"id" bson:"_id"`
	Name               string             `json:"name" bson:"name"`
	Description        string             `json:"description" bson:"description"`
	Website            string             `json:"website" bson:"website"`
	LogoURL            string             `json:"logoURL" bson:"logoURL"`
	OwnerID            internal.ObjectID  `json:"ownerId" bson:"ownerId"`
	VerificationStatus VerificationStatus `json:"verificationStatus" bson:"verificationStatus"`
	RejectionReason    string             `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type CampaignStatus string

type Milestone struct {
	ID           internal.ObjectID `json:"id" bson:"_id"`
	Title        string            `json:"title" bson:"title"`
	TargetAmount int64             `json:"targetAmount" bson:"targetAmount"`
	IsCompleted  bool              `json:"isCompleted" bson:"isCompleted"`
	ReachedAt    *time.Time        `json:"reachedAt,omitempty" bson:"reachedAt,omitempty"`
}

type CampaignUpdate struct {
	ID        internal.ObjectID `json:"id" bson:"_id"`
	Title     string            `json:"title" bson:"title"`
	Content   string            `json:"content" bson:"content"`
	AuthorID  internal.ObjectID `json:"authorId" bson:"authorId"`
	CreatedAt time.Time         `json:"createdAt" bson:"createdAt"`
}

// Campaign is a fundraising initiative owned by an organization. AmountRaised
// is only ever modified with $inc.
type Campaign struct {
	ID              internal.ObjectID `json:"id" bson:"_id"`
	OrganizationID  internal.ObjectID `json:"organizationId" bson:"organizationId"`
	Title           string            `json:"title" bson:"title"`
	Description     string            `json:"description" bson:"description"`
	Category        string            `json:"category" bson:"category"`
	ImageURL        string            `json:"imageURL" bson:"imageURL"`
	Goal            int64             `json:"goal" bson:"goal"`
	Currency        string            `json:"currency" bson:"currency"`
	AmountRaised    int64             `json:"amountRaised" bson:"amountRaised"`
	Status          CampaignStatus    `json:"status" bson:"status"`
	Featured        bool              `json:"featured" bson:"featured"`
	GoalReached     bool              `json:"goalReached" bson:"goalReached"`
	RejectionReason string            `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	Milestones      []Milestone       `json:"milestones" bson:"milestones"`
	Updates         []CampaignUpdate  `json:"updates" bson:"updates"`
	StartDate       *time.Time        `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate         *time.Time        `json:"endDate,omitempty" bson:"endDate,omitempty"`
	CreatedBy       internal.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt       time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// CampaignFilter narrows down Campaigns listings. Zero values are ignored.
type CampaignFilter struct {
	Status         CampaignStatus
	OrganizationID internal.ObjectID
	Category       string
	Featured       *bool
}

type PaymentStatus string

type StatusChange struct {
	From   PaymentStatus `json:"from" bson:"from"`
	To     PaymentStatus `json:"to" bson:"to"`
	Source string        `json:"source" bson:"source"`
	At     time.Time     `json:"at" bson:"at"`
}

type Donation struct {
	ID                      internal.ObjectID `json:"id" bson:"_id"`
	CampaignID              internal.ObjectID `json:"campaignId" bson:"campaignId"`
	UserID                  internal.ObjectID `json:"userId,omitempty" bson:"userId"`
	Amount                  int64             `json:"amount" bson:"amount"`
	Currency                string            `json:"currency" bson:"currency"`
	PaymentStatus           PaymentStatus     `json:"paymentStatus" bson:"paymentStatus"`
	TransactionID           string            `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	IsAnonymous             bool              `json:"isAnonymous" bson:"isAnonymous"`
	Message                 string            `json:"message,omitempty" bson:"message,omitempty"`
	IsSubscriptionDonation  bool              `json:"isSubscriptionDonation" bson:"isSubscriptionDonation"`
	SubscriptionID          string            `json:"subscriptionId,omitempty" bson:"subscriptionId,omitempty"`
	SubscriptionCancelledAt *time.Time        `json:"subscriptionCancelledAt,omitempty" bson:"subscriptionCancelledAt,omitempty"`
	StatusHistory           []StatusChange    `json:"statusHistory" bson:"statusHistory"`
	RefundedAt              *time.Time        `json:"refundedAt,omitempty" bson:"refundedAt,omitempty"`
	CreatedAt               time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt               time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// CampaignTotal is the result of aggregating completed donations per campaign.
type CampaignTotal struct {
	CampaignID internal.ObjectID `json:"campaignId" bson:"_id"`
	Total      int64             `json:"total" bson:"total"`
	Count      int64             `json:"count" bson:"count"`
	Donors     int64             `json:"donors" bson:"donors"`
}

type Post struct {
	ID             internal.ObjectID   `json:"id" bson:"_id"`
	AuthorID       internal.ObjectID   `json:"authorId" bson:"authorId"`
	OrganizationID internal.ObjectID   `json:"organizationId,omitempty" bson:"organizationId"`
	Content        string              `json:"content" bson:"content"`
	MediaURLs      []string            `json:"mediaURLs" bson:"mediaURLs"`
	Tags           []string            `json:"tags" bson:"tags"`
	Likes          []internal.ObjectID `json:"-" bson:"likes"`
	LikesCount     int64               `json:"likesCount" bson:"likesCount"`
	CommentsCount  int64               `json:"commentsCount" bson:"commentsCount"`
	CreatedAt      time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updatedAt"`
}

type Comment struct {
	ID        internal.ObjectID `json:"id" bson:"_id"`
	PostID    internal.ObjectID `json:"postId" bson:"postId"`
	AuthorID  internal.ObjectID `json:"authorId" bson:"authorId"`
	ParentID  internal.ObjectID `json:"parentId,omitempty" bson:"parentId"`
	Content   string            `json:"content" bson:"content"`
	CreatedAt time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt" bson:"updatedAt"`
}

type NotificationType string

type Notification struct {
	ID        internal.ObjectID `json:"id" bson:"_id"`
	UserID    internal.ObjectID `json:"userId" bson:"userId"`
	Type      NotificationType  `json:"type" bson:"type"`
	Title     string            `json:"title" bson:"title"`
	Body      string            `json:"body" bson:"body"`
	Data      map[string]string `json:"data,omitempty" bson:"data,omitempty"`
	Read      bool              `json:"read" bson:"read"`
	CreatedAt time.Time         `json:"createdAt" bson:"createdAt"`
}

type LocalizedString struct {
	Key       string    `json:"key" bson:"key"`
	Language  string    `json:"language" bson:"language"`
	Value     string    `json:"value" bson:"value"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// EncryptionKey describes a data key. The key material itself is derived
// from the master secret and the salt, it is never stored.
type EncryptionKey struct {
	ID        string     `json:"id" bson:"_id"`
	Salt      []byte     `json:"-" bson:"salt"`
	Active    bool       `json:"active" bson:"active"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	RetiredAt *time.Time `json:"retiredAt,omitempty" bson:"retiredAt,omitempty"`
}
