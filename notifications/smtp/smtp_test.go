package smtp

import (
	"context"
	"fmt"
	"net/mail"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	qt "github.com/frankban/quicktest"
	"github.com/raiseyourvoice/backend/notifications"
	"github.com/raiseyourvoice/backend/test"
)

var testConfig *Config

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := test.StartMailService(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to start mail container: %v", err))
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	smtpPort, err := container.MappedPort(ctx, nat.Port(test.MailSMTPPort+"/tcp"))
	if err != nil {
		panic(err)
	}
	apiPort, err := container.MappedPort(ctx, nat.Port(test.MailAPIPort+"/tcp"))
	if err != nil {
		panic(err)
	}
	testConfig = &Config{
		FromName:    "RaiseYourVoice",
		FromAddress: "no-reply@raiseyourvoice.test",
		SMTPServer:  host,
		SMTPPort:    smtpPort.Int(),
		TestAPIPort: apiPort.Int(),
	}
	code := m.Run()
	if err := container.Terminate(ctx); err != nil {
		panic(fmt.Sprintf("failed to stop mail container: %v", err))
	}
	os.Exit(code)
}

func TestNew(t *testing.T) {
	c := qt.New(t)
	c.Assert(new(Email).New("invalid"), qt.ErrorMatches, "invalid SMTP configuration")
	c.Assert(new(Email).New(&Config{FromAddress: "not an email"}), qt.Not(qt.IsNil))
	c.Assert(new(Email).New(testConfig), qt.IsNil)
}

func TestSendNotification(t *testing.T) {
	c := qt.New(t)
	email := new(Email)
	c.Assert(email.New(testConfig), qt.IsNil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	c.Assert(email.SendNotification(ctx, &notifications.Notification{
		ToName:    "Ana",
		ToAddress: "ana@raiseyourvoice.test",
		Subject:   "Milestone reached",
		Body:      "<p>Clean water reached 500</p>",
		PlainBody: "Clean water reached 500",
	}), qt.IsNil)

	received, err := email.FindEmail(ctx, "ana@raiseyourvoice.test")
	c.Assert(err, qt.IsNil)
	c.Assert(received.Subject, qt.Equals, "Milestone reached")
	c.Assert(received.Body, qt.Contains, "Clean water reached 500")

	// invalid recipients fail before connecting
	err = email.SendNotification(ctx, &notifications.Notification{ToAddress: "nope"})
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestComposeEncodesNonASCII(t *testing.T) {
	c := qt.New(t)
	email := new(Email)
	c.Assert(email.New(testConfig), qt.IsNil)
	msg, err := email.compose(&mail.Address{Address: "lola@raiseyourvoice.test"}, &notifications.Notification{
		Subject:   "¡Meta alcanzada!",
		Body:      "<p>¡Gracias!</p>",
		PlainBody: "¡Gracias!",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(string(msg), qt.Contains, "Subject: =?utf-8?q?=C2=A1Meta_alcanzada!?=")
	c.Assert(string(msg), qt.Contains, "=C2=A1Gracias!")
	c.Assert(string(msg), qt.Contains, "Message-ID: <")
	c.Assert(string(msg), qt.Contains, "@raiseyourvoice.test>")
}
