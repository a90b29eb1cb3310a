package db

import "time"

const defaultTimeout = 10 * time.Second

const (
	// user roles
	RegularRole   UserRole = "user"
	ModeratorRole UserRole = "moderator"
	AdminRole     UserRole = "admin"
	// organization verification statuses
	VerificationPending  VerificationStatus = "Pending"
	VerificationVerified VerificationStatus = "Verified"
	VerificationRejected VerificationStatus = "Rejected"
	// campaign statuses
	CampaignDraft           CampaignStatus = "Draft"
	CampaignPendingApproval CampaignStatus = "PendingApproval"
	CampaignActive          CampaignStatus = "Active"
	CampaignPaused          CampaignStatus = "Paused"
	CampaignCompleted       CampaignStatus = "Completed"
	CampaignCancelled       CampaignStatus = "Cancelled"
	CampaignRejected        CampaignStatus = "Rejected"
	// donation payment statuses
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
	PaymentCancelled PaymentStatus = "Cancelled"
	// notification types
	NotificationDonationReceived NotificationType = "donation_received"
	NotificationMilestoneReached NotificationType = "milestone_reached"
	NotificationGoalReached      NotificationType = "goal_reached"
	NotificationCampaignStatus   NotificationType = "campaign_status"
	NotificationDonationRefunded NotificationType = "donation_refunded"
	NotificationComment          NotificationType = "comment"
	NotificationOrganization     NotificationType = "organization"
)

var validRoles = map[UserRole]bool{
	RegularRole:   true,
	ModeratorRole: true,
	AdminRole:     true,
}

// IsValidUserRole function checks if the user role is valid
func IsValidUserRole(role UserRole) bool {
	return validRoles[role]
}

var validCampaignStatuses = map[CampaignStatus]bool{
	CampaignDraft:           true,
	CampaignPendingApproval: true,
	CampaignActive:          true,
	CampaignPaused:          true,
	CampaignCompleted:       true,
	CampaignCancelled:       true,
	CampaignRejected:        true,
}

// IsValidCampaignStatus function checks if the campaign status exists.
func IsValidCampaignStatus(status CampaignStatus) bool {
	return validCampaignStatuses[status]
}
