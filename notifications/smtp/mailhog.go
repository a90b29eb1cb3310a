package smtp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	mailhogSearchEndpoint = "http://%s:%d/api/v2/search?kind=to&query=%s"
	mailhogClearEndpoint  = "http://%s:%d/api/v1/messages"
)

// ReceivedEmail is an email captured by the test inbox.
type ReceivedEmail struct {
	Subject string
	Body    string
}

// FindEmail searches the test inbox (MailHog API on TestAPIPort) for the
// last email sent to the address, then clears the inbox. It returns io.EOF
// when there is no email for the address.
func (se *Email) FindEmail(ctx context.Context, to string) (*ReceivedEmail, error) {
	endpoint := fmt.Sprintf(mailhogSearchEndpoint, se.config.SMTPServer, se.config.TestAPIPort, url.QueryEscape(to))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	var results struct {
		Items []struct {
			Content struct {
				Headers map[string][]string `json:"Headers"`
				Body    string              `json:"Body"`
			} `json:"Content"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("could not decode response: %v", err)
	}
	if len(results.Items) == 0 {
		return nil, io.EOF
	}
	item := results.Items[0].Content
	email := &ReceivedEmail{Body: item.Body}
	if subject := item.Headers["Subject"]; len(subject) > 0 {
		email.Subject = subject[0]
	}
	return email, se.clearInbox(ctx)
}

func (se *Email) clearInbox(ctx context.Context) error {
	endpoint := fmt.Sprintf(mailhogClearEndpoint, se.config.SMTPServer, se.config.TestAPIPort)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("could not create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not send request: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}
