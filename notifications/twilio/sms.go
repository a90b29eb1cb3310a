// Package twilio implements the NotificationService interface over the Twilio
// messaging API to send SMS notifications.
package twilio

import (
	"context"
	"fmt"

	t "github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/notifications"
)

// maxSMSLength is the longest body sent, longer bodies are truncated.
const maxSMSLength = 1600

// Config represents the configuration for the Twilio SMS service. It
// contains the account SID, the auth token and the number from which the SMS
// will be sent.
type Config struct {
	AccountSid string
	AuthToken  string
	FromNumber string
}

// SMS is the implementation of the NotificationService interface for the
// Twilio SMS service. It contains the configuration and the Twilio REST client.
type SMS struct {
	config *Config
	client *t.RestClient
}

// New initializes the Twilio SMS service with the configuration.
// Read more here: https://www.twilio.com/docs/messaging/quickstart/go
func (tsms *SMS) New(rawConfig any) error {
	config, ok := rawConfig.(*Config)
	if !ok {
		return fmt.Errorf("invalid Twilio configuration")
	}
	if config.AccountSid == "" || config.AuthToken == "" {
		return fmt.Errorf("missing Twilio credentials")
	}
	from, err := internal.SanitizeAndVerifyPhoneNumber(config.FromNumber)
	if err != nil {
		return fmt.Errorf("invalid Twilio sender number: %w", err)
	}
	config.FromNumber = from
	tsms.config = config
	tsms.client = t.NewRestClientWithParams(t.ClientParams{
		Username: config.AccountSid,
		Password: config.AuthToken,
	})
	return nil
}

// SendNotification sends an SMS notification to the recipient with the plain
// body of the notification, or the body if there is no plain version. It
// returns an error if the number is invalid, the notification could not be
// sent or the context is done.
func (tsms *SMS) SendNotification(ctx context.Context, notification *notifications.Notification) error {
	to, err := internal.SanitizeAndVerifyPhoneNumber(notification.ToNumber)
	if err != nil {
		return err
	}
	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(tsms.config.FromNumber)
	params.SetBody(smsBody(notification))
	errCh := make(chan error, 1)
	go func() {
		_, err := tsms.client.Api.CreateMessage(params)
		errCh <- err
		close(errCh)
	}()
	// wait for the message to be sent or the context to be done
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func smsBody(notification *notifications.Notification) string {
	body := notification.PlainBody
	if body == "" {
		body = notification.Body
	}
	if notification.Subject != "" {
		body = notification.Subject + "\n" + body
	}
	if len(body) > maxSMSLength {
		body = body[:maxSMSLength]
	}
	return body
}
