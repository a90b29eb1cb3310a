package push

import (
	"context"
	"fmt"
	"time"

	"github.com/enriquebris/goconcurrentqueue"
	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/metrics"
	"github.com/raiseyourvoice/backend/notifications"
	"go.vocdoni.io/dvote/log"
)

const (
	// DefaultThrottle is the default time between two deliveries.
	DefaultThrottle = 50 * time.Millisecond
	// DefaultTTL is how long a delivery is retried before being dropped.
	DefaultTTL = 10 * time.Minute
	// DefaultQueueMaxRetries is how many times a failed delivery is retried.
	DefaultQueueMaxRetries = 10
)

// Channel identifies the delivery channel of a message.
type Channel string

const (
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Delivery is a message waiting in the queue to be sent through a channel.
type Delivery struct {
	UserID       internal.ObjectID
	Channel      Channel
	Notification *notifications.Notification
	Retries      int
	CreatedAt    time.Time
	Err          error
}

// Queue is a FIFO queue that sends deliveries through their channel service
// with a throttle between sends. Failed deliveries are re-enqueued until
// DefaultQueueMaxRetries or the TTL is reached. Every delivery leaving the
// queue (sent or dropped) is reported on Delivered if there is room for it.
type Queue struct {
	Delivered chan *Delivery
	items     *goconcurrentqueue.FIFO
	ttl       time.Duration
	throttle  time.Duration
	services  map[Channel]notifications.NotificationService
}

// NewQueue creates a new queue with the provided TTL, throttle time and
// channel services. Channels without service are not enqueued.
func NewQueue(ttl, throttle time.Duration, services map[Channel]notifications.NotificationService) *Queue {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if throttle == 0 {
		throttle = DefaultThrottle
	}
	return &Queue{
		Delivered: make(chan *Delivery, 64),
		items:     goconcurrentqueue.NewFIFO(),
		ttl:       ttl,
		throttle:  throttle,
		services:  services,
	}
}

// Push adds a delivery to the queue.
func (q *Queue) Push(d *Delivery) error {
	if d == nil || d.Notification == nil {
		return fmt.Errorf("empty delivery")
	}
	if q.services[d.Channel] == nil {
		return fmt.Errorf("no service for channel %s", d.Channel)
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	log.Debugw("delivery enqueued", "userID", d.UserID.String(), "channel", d.Channel)
	return q.items.Enqueue(d)
}

// Len returns the number of pending deliveries.
func (q *Queue) Len() int {
	return q.items.GetLen()
}

// Start runs the queue processing loop until the context is canceled.
func (q *Queue) Start(ctx context.Context) {
	ticker := time.NewTicker(q.throttle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.processNext(ctx)
		}
	}
}

func (q *Queue) processNext(ctx context.Context) {
	item, err := q.items.Dequeue()
	if err != nil {
		return // empty queue
	}
	d, ok := item.(*Delivery)
	if !ok {
		log.Warnw("invalid delivery type in queue")
		return
	}
	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err = q.services[d.Channel].SendNotification(sendCtx, d.Notification)
	metrics.RecordNotification(string(d.Channel), err)
	if err == nil {
		log.Debugw("delivery sent", "userID", d.UserID.String(), "channel", d.Channel)
		q.report(d)
		return
	}
	log.Warnw("failed to send delivery", "userID", d.UserID.String(), "channel", d.Channel,
		"retry", d.Retries, "error", err)
	if err := q.reenqueue(d); err != nil {
		log.Warnw("delivery dropped", "userID", d.UserID.String(), "channel", d.Channel, "error", err)
		d.Err = err
		q.report(d)
	}
}

// reenqueue tries to re-enqueue the delivery. It returns an error if the
// delivery reached the maximum number of retries or its TTL expired.
func (q *Queue) reenqueue(d *Delivery) error {
	if d.Retries >= DefaultQueueMaxRetries || time.Since(d.CreatedAt) > q.ttl {
		return fmt.Errorf("TTL or max retries reached")
	}
	d.Retries++
	if err := q.items.Enqueue(d); err != nil {
		return fmt.Errorf("cannot enqueue the delivery: %w", err)
	}
	return nil
}

func (q *Queue) report(d *Delivery) {
	select {
	case q.Delivered <- d:
	default:
	}
}
