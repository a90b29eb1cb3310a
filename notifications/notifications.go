// Package notifications defines the outbound notification contract shared by
// the email (smtp), SMS (twilio) and push delivery channels.
package notifications

import "context"

// Notification is a rendered message ready to be delivered by any channel.
// Email channels use the address, subject and both bodies; SMS and push
// channels use the number or device token and the plain body.
type Notification struct {
	ToName    string
	ToAddress string
	ToNumber  string
	ToDevice  string
	Platform  string
	ReplyTo   string
	Subject   string
	Body      string
	PlainBody string
}

// NotificationService is implemented by every delivery channel.
type NotificationService interface {
	New(conf any) error
	SendNotification(context.Context, *Notification) error
}
