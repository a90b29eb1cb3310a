package push

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/notifications"
)

// flakySender fails the first n sends and records the rest.
type flakySender struct {
	mu       sync.Mutex
	failures int
	sent     []*notifications.Notification
}

func (*flakySender) New(any) error { return nil }

func (f *flakySender) SendNotification(_ context.Context, n *notifications.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return fmt.Errorf("provider unavailable")
	}
	f.sent = append(f.sent, n)
	return nil
}

func waitDelivery(c *qt.C, q *Queue) *Delivery {
	select {
	case d := <-q.Delivered:
		return d
	case <-time.After(5 * time.Second):
		c.Fatal("delivery not reported")
	}
	return nil
}

func TestQueueRetries(t *testing.T) {
	c := qt.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sender := &flakySender{failures: 2}
	q := NewQueue(time.Minute, time.Millisecond, map[Channel]notifications.NotificationService{
		ChannelPush: sender,
	})
	go q.Start(ctx)

	c.Assert(q.Push(&Delivery{
		UserID:       internal.NewObjectID(),
		Channel:      ChannelPush,
		Notification: &notifications.Notification{ToDevice: "tok", Subject: "hi"},
	}), qt.IsNil)
	d := waitDelivery(c, q)
	c.Assert(d.Err, qt.IsNil)
	c.Assert(d.Retries, qt.Equals, 2)
	sender.mu.Lock()
	c.Assert(sender.sent, qt.HasLen, 1)
	sender.mu.Unlock()
}

func TestQueueDropsAfterMaxRetries(t *testing.T) {
	c := qt.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sender := &flakySender{failures: DefaultQueueMaxRetries + 1}
	q := NewQueue(time.Minute, time.Millisecond, map[Channel]notifications.NotificationService{
		ChannelPush: sender,
	})
	go q.Start(ctx)
	c.Assert(q.Push(&Delivery{
		Channel:      ChannelPush,
		Notification: &notifications.Notification{ToDevice: "tok"},
	}), qt.IsNil)
	d := waitDelivery(c, q)
	c.Assert(d.Err, qt.Not(qt.IsNil))
	c.Assert(d.Retries, qt.Equals, DefaultQueueMaxRetries)
}

func TestQueueRejectsUnknownChannel(t *testing.T) {
	c := qt.New(t)
	q := NewQueue(0, 0, map[Channel]notifications.NotificationService{ChannelPush: &LogSender{}})
	err := q.Push(&Delivery{Channel: ChannelSMS, Notification: &notifications.Notification{}})
	c.Assert(err, qt.ErrorMatches, "no service for channel sms")
	c.Assert(q.Push(nil), qt.Not(qt.IsNil))
	c.Assert(q.Len(), qt.Equals, 0)
}
