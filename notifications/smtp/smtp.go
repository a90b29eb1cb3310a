// Package smtp provides an SMTP-based implementation of the NotificationService
// interface for sending email notifications.
package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/raiseyourvoice/backend/internal"
	"github.com/raiseyourvoice/backend/notifications"
)

// DialTimeout bounds the connection to the SMTP server when the context has
// no earlier deadline.
const DialTimeout = 15 * time.Second

// Config represents the configuration for the SMTP email service. The
// TestAPIPort is the port of the mail catcher API used by the tests to read
// the sent messages (MailHog).
type Config struct {
	FromName     string
	FromAddress  string
	SMTPUsername string
	SMTPPassword string
	SMTPServer   string
	SMTPPort     int
	TestAPIPort  int
}

// Email is the implementation of the NotificationService interface for the
// SMTP email service.
type Email struct {
	config *Config
	from   *mail.Address
	auth   smtp.Auth
}

// New initializes the SMTP email service with the configuration. Plain auth
// is used only when both username and password are set.
func (se *Email) New(rawConfig any) error {
	config, ok := rawConfig.(*Config)
	if !ok {
		return fmt.Errorf("invalid SMTP configuration")
	}
	from, err := mail.ParseAddress(config.FromAddress)
	if err != nil {
		return fmt.Errorf("could not parse from email: %v", err)
	}
	from.Name = config.FromName
	se.config = config
	se.from = from
	if config.SMTPUsername != "" && config.SMTPPassword != "" {
		se.auth = smtp.PlainAuth("", config.SMTPUsername, config.SMTPPassword, config.SMTPServer)
	}
	return nil
}

// SendNotification renders the message and delivers it through the SMTP
// server. The connection honours the context deadline and cancellation.
func (se *Email) SendNotification(ctx context.Context, notification *notifications.Notification) error {
	to, err := mail.ParseAddress(notification.ToAddress)
	if err != nil {
		return fmt.Errorf("could not parse to email: %v", err)
	}
	if notification.ToName != "" {
		to.Name = notification.ToName
	}
	msg, err := se.compose(to, notification)
	if err != nil {
		return fmt.Errorf("could not compose email: %v", err)
	}
	dialer := &net.Dialer{Timeout: DialTimeout}
	addr := net.JoinHostPort(se.config.SMTPServer, strconv.Itoa(se.config.SMTPPort))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("could not connect to %s: %w", addr, err)
	}
	// unblock the SMTP conversation when the context is done
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	err = se.deliver(conn, to.Address, msg)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func (se *Email) deliver(conn net.Conn, rcpt string, msg []byte) error {
	client, err := smtp.NewClient(conn, se.config.SMTPServer)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = client.Close() }()
	if ok, _ := client.Extension("STARTTLS"); ok && se.auth != nil {
		if err := client.StartTLS(&tls.Config{ServerName: se.config.SMTPServer}); err != nil {
			return fmt.Errorf("starttls failed: %w", err)
		}
	}
	if se.auth != nil {
		if err := client.Auth(se.auth); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}
	if err := client.Mail(se.from.Address); err != nil {
		return err
	}
	if err := client.Rcpt(rcpt); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// compose creates a multipart/alternative message with a plain text and an
// HTML part. Both parts are quoted-printable so non ASCII text survives any
// relay, and the subject is RFC 2047 encoded.
func (se *Email) compose(to *mail.Address, notification *notifications.Notification) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", notification.PlainBody},
		{"text/html; charset=UTF-8", notification.Body},
	}
	for _, p := range parts {
		pw, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(pw)
		if _, err := qp.Write([]byte(p.content)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	header := func(key, value string) {
		fmt.Fprintf(&msg, "%s: %s\r\n", key, value)
	}
	header("From", se.from.String())
	header("To", to.String())
	if notification.ReplyTo != "" {
		replyTo, err := mail.ParseAddress(notification.ReplyTo)
		if err != nil {
			return nil, fmt.Errorf("could not parse reply-to email: %v", err)
		}
		header("Reply-To", replyTo.String())
	}
	header("Subject", mime.QEncoding.Encode("utf-8", notification.Subject))
	header("Date", time.Now().Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", internal.RandomHex(16), domainOf(se.from.Address)))
	header("MIME-Version", "1.0")
	header("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", writer.Boundary()))
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

func domainOf(address string) string {
	if i := strings.LastIndexByte(address, '@'); i >= 0 {
		return address[i+1:]
	}
	return "localhost"
}
