package stripe

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	stripeapi "github.com/stripe/stripe-go/v81"
	stripewebhook "github.com/stripe/stripe-go/v81/webhook"
)

const testWebhookSecret = "whsec_test_secret"

type recordingApplier struct {
	mu     sync.Mutex
	events []*PaymentEvent
	fail   int
}

func (r *recordingApplier) ApplyPaymentEvent(_ context.Context, event *PaymentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail > 0 {
		r.fail--
		return fmt.Errorf("temporary failure")
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingApplier) applied() []*PaymentEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*PaymentEvent{}, r.events...)
}

func newTestService(c *qt.C, applier PaymentEventApplier) *Service {
	srv, err := NewService(&Config{APIKey: "sk_test_x", WebhookSecret: testWebhookSecret}, applier, nil)
	c.Assert(err, qt.IsNil)
	return srv
}

func signedEvent(id string, eventType stripeapi.EventType, object string) ([]byte, string) {
	payload := []byte(fmt.Sprintf(`{"id":%q,"object":"event","api_version":%q,"type":%q,"data":{"object":%s}}`,
		id, stripeapi.APIVersion, eventType, object))
	signed := stripewebhook.GenerateTestSignedPayload(&stripewebhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

const succeededIntent = `{"id":"pi_1","object":"payment_intent","amount":600,"currency":"usd",
	"status":"succeeded","metadata":{"campaignId":"65f0c0ffee0000000000aaaa","userId":"65f0c0ffee0000000000bbbb"}}`

func TestHandleWebhookEventDispatch(t *testing.T) {
	c := qt.New(t)
	applier := &recordingApplier{}
	srv := newTestService(c, applier)

	payload, header := signedEvent("evt_1", stripeapi.EventTypePaymentIntentSucceeded, succeededIntent)
	c.Assert(srv.HandleWebhookEvent(context.Background(), payload, header), qt.IsNil)

	events := applier.applied()
	c.Assert(events, qt.HasLen, 1)
	c.Assert(events[0].EventID, qt.Equals, "evt_1")
	c.Assert(events[0].Kind, qt.Equals, PaymentSucceeded)
	c.Assert(events[0].TransactionID, qt.Equals, "pi_1")
	c.Assert(events[0].CampaignID, qt.Equals, "65f0c0ffee0000000000aaaa")
	c.Assert(events[0].UserID, qt.Equals, "65f0c0ffee0000000000bbbb")
	c.Assert(events[0].Amount, qt.Equals, int64(600))
	c.Assert(events[0].Currency, qt.Equals, "usd")
}

func TestHandleWebhookEventDuplicate(t *testing.T) {
	c := qt.New(t)
	applier := &recordingApplier{}
	srv := newTestService(c, applier)

	payload, header := signedEvent("evt_dup", stripeapi.EventTypePaymentIntentSucceeded, succeededIntent)
	c.Assert(srv.HandleWebhookEvent(context.Background(), payload, header), qt.IsNil)
	c.Assert(srv.HandleWebhookEvent(context.Background(), payload, header), qt.IsNil)
	c.Assert(applier.applied(), qt.HasLen, 1)
}

func TestHandleWebhookEventRetryAfterFailure(t *testing.T) {
	c := qt.New(t)
	applier := &recordingApplier{fail: 1}
	srv := newTestService(c, applier)

	payload, header := signedEvent("evt_retry", stripeapi.EventTypePaymentIntentSucceeded, succeededIntent)
	c.Assert(srv.HandleWebhookEvent(context.Background(), payload, header), qt.Not(qt.IsNil))
	c.Assert(applier.applied(), qt.HasLen, 0)

	// the failed delivery released its claim so the retry is applied
	c.Assert(srv.HandleWebhookEvent(context.Background(), payload, header), qt.IsNil)
	c.Assert(applier.applied(), qt.HasLen, 1)
}

func TestHandleWebhookEventBadSignature(t *testing.T) {
	c := qt.New(t)
	applier := &recordingApplier{}
	srv := newTestService(c, applier)

	payload, _ := signedEvent("evt_bad", stripeapi.EventTypePaymentIntentSucceeded, succeededIntent)
	err := srv.HandleWebhookEvent(context.Background(), payload, "t=1,v1=deadbeef")
	c.Assert(err, qt.ErrorIs, ErrWebhookValidation)
	c.Assert(applier.applied(), qt.HasLen, 0)
}

func TestHandleWebhookEventUnhandledType(t *testing.T) {
	c := qt.New(t)
	applier := &recordingApplier{}
	srv := newTestService(c, applier)

	payload, header := signedEvent("evt_cust", stripeapi.EventTypeCustomerCreated, `{"id":"cus_1","object":"customer"}`)
	c.Assert(srv.HandleWebhookEvent(context.Background(), payload, header), qt.IsNil)
	c.Assert(applier.applied(), qt.HasLen, 0)
}

func TestParsePaymentEvents(t *testing.T) {
	c := qt.New(t)

	c.Run("payment failed", func(c *qt.C) {
		event := &stripeapi.Event{
			ID:   "evt_f",
			Type: stripeapi.EventTypePaymentIntentPaymentFailed,
			Data: &stripeapi.EventData{Raw: []byte(`{"id":"pi_2","amount":100,"currency":"EUR",
				"last_payment_error":{"message":"Your card was declined."},"metadata":{"campaignId":"c1"}}`)},
		}
		pe, err := parsePaymentEvent(event)
		c.Assert(err, qt.IsNil)
		c.Assert(pe.Kind, qt.Equals, PaymentFailed)
		c.Assert(pe.Currency, qt.Equals, "eur")
		c.Assert(pe.FailureMessage, qt.Equals, "Your card was declined.")
		c.Assert(pe.LockKey(), qt.Equals, "campaign:c1")
	})

	c.Run("full refund", func(c *qt.C) {
		event := &stripeapi.Event{
			ID:   "evt_r",
			Type: stripeapi.EventTypeChargeRefunded,
			Data: &stripeapi.EventData{Raw: []byte(`{"id":"ch_1","payment_intent":"pi_3","refunded":true,
				"amount_refunded":250,"currency":"usd"}`)},
		}
		pe, err := parsePaymentEvent(event)
		c.Assert(err, qt.IsNil)
		c.Assert(pe.Kind, qt.Equals, PaymentRefunded)
		c.Assert(pe.TransactionID, qt.Equals, "pi_3")
		c.Assert(pe.Amount, qt.Equals, int64(250))
		c.Assert(pe.LockKey(), qt.Equals, "transaction:pi_3")
	})

	c.Run("partial refund is ignored", func(c *qt.C) {
		event := &stripeapi.Event{
			ID:   "evt_pr",
			Type: stripeapi.EventTypeChargeRefunded,
			Data: &stripeapi.EventData{Raw: []byte(`{"id":"ch_2","payment_intent":"pi_4","refunded":false,
				"amount_refunded":10}`)},
		}
		pe, err := parsePaymentEvent(event)
		c.Assert(err, qt.IsNil)
		c.Assert(pe, qt.IsNil)
	})

	c.Run("invoice paid", func(c *qt.C) {
		event := &stripeapi.Event{
			ID:   "evt_i",
			Type: stripeapi.EventTypeInvoicePaid,
			Data: &stripeapi.EventData{Raw: []byte(`{"id":"in_1","subscription":"sub_1","payment_intent":"pi_5",
				"amount_paid":1500,"currency":"usd","subscription_details":{"metadata":
				{"campaignId":"c2","donationRef":"d2","anonymous":"true","message":"monthly"}}}`)},
		}
		pe, err := parsePaymentEvent(event)
		c.Assert(err, qt.IsNil)
		c.Assert(pe.Kind, qt.Equals, InvoicePaid)
		c.Assert(pe.SubscriptionID, qt.Equals, "sub_1")
		c.Assert(pe.DonationRef, qt.Equals, "d2")
		c.Assert(pe.TransactionID, qt.Equals, "pi_5")
		c.Assert(pe.IsAnonymous, qt.IsTrue)
		c.Assert(pe.Message, qt.Equals, "monthly")
		c.Assert(pe.Amount, qt.Equals, int64(1500))
	})

	c.Run("invoice without campaign", func(c *qt.C) {
		event := &stripeapi.Event{
			ID:   "evt_i2",
			Type: stripeapi.EventTypeInvoicePaid,
			Data: &stripeapi.EventData{Raw: []byte(`{"id":"in_2","subscription":"sub_2","amount_paid":1500}`)},
		}
		_, err := parsePaymentEvent(event)
		c.Assert(err, qt.ErrorIs, ErrMissingMetadata)
	})

	c.Run("intent of a subscription invoice", func(c *qt.C) {
		event := &stripeapi.Event{
			ID:   "evt_s",
			Type: stripeapi.EventTypePaymentIntentSucceeded,
			Data: &stripeapi.EventData{Raw: []byte(`{"id":"pi_6","invoice":"in_3","amount":1500}`)},
		}
		pe, err := parsePaymentEvent(event)
		c.Assert(err, qt.IsNil)
		c.Assert(pe, qt.IsNil)
	})
}
