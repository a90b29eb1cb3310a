package push

import (
	"context"
	"fmt"

	"github.com/raiseyourvoice/backend/notifications"
	"go.vocdoni.io/dvote/log"
)

// LogSender is the push channel used when no push provider is integrated:
// it validates and logs every message.
type LogSender struct{}

func (*LogSender) New(any) error { return nil }

func (*LogSender) SendNotification(_ context.Context, n *notifications.Notification) error {
	if n.ToDevice == "" {
		return fmt.Errorf("missing device token")
	}
	log.Infow("push notification", "platform", n.Platform, "device", n.ToDevice, "title", n.Subject)
	return nil
}
