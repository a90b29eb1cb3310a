package stripe

import (
	"fmt"
	"time"
)

// DefaultEventTTL is how long a processed webhook event id is remembered.
const DefaultEventTTL = 72 * time.Hour

// Config holds the Stripe configuration of the donation gateway
type Config struct {
	APIKey        string `yaml:"api_key" json:"api_key"`
	WebhookSecret string `yaml:"webhook_secret" json:"webhook_secret"`
	// DonationProductID is the product used to build the inline monthly
	// price of subscription donations.
	DonationProductID string        `yaml:"donation_product_id" json:"donation_product_id"`
	EventTTL          time.Duration `yaml:"event_ttl" json:"event_ttl"`
}

// Validate checks the mandatory fields and fills the defaults.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrInvalidConfiguration.withMessage("stripe API key is required")
	}
	if c.WebhookSecret == "" {
		return ErrInvalidConfiguration.withMessage("stripe webhook secret is required")
	}
	if c.EventTTL <= 0 {
		c.EventTTL = DefaultEventTTL
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("stripe(product=%s, eventTTL=%s)", c.DonationProductID, c.EventTTL)
}
