// Package mailtemplates provides the email templates sent along with the
// in-app notifications (donation receipts, milestones, campaign status
// changes) and the utilities to render them.
package mailtemplates

import "github.com/raiseyourvoice/backend/notifications"

// Data is the content every template is rendered with.
type Data struct {
	UserName string
	Title    string
	Body     string
	Link     string
	Values   map[string]string
}

// DonationReceivedNotification is sent to the organization owner when a
// campaign receives a donation.
var DonationReceivedNotification = MailTemplate{
	File: "donation_received",
	Placeholder: notifications.Notification{
		Subject: "{{.Title}}",
		PlainBody: `Hello {{.UserName}},

{{.Body}}

See the campaign: {{.Link}}`,
	},
	WebAppURI: "/campaigns/",
}

// MilestoneReachedNotification is sent when a campaign milestone is reached.
var MilestoneReachedNotification = MailTemplate{
	File: "milestone_reached",
	Placeholder: notifications.Notification{
		Subject: "{{.Title}}",
		PlainBody: `Hello {{.UserName}},

{{.Body}}

See the campaign: {{.Link}}`,
	},
	WebAppURI: "/campaigns/",
}

// CampaignStatusNotification is sent when the status of a campaign changes,
// including the goal being reached.
var CampaignStatusNotification = MailTemplate{
	File: "campaign_status",
	Placeholder: notifications.Notification{
		Subject: "{{.Title}}",
		PlainBody: `Hello {{.UserName}},

{{.Body}}

{{.Link}}`,
	},
	WebAppURI: "/campaigns/",
}
