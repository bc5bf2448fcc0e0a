package mail

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gopkg.in/gomail.v2"

	"lead_handler/config"
)

// Message is one outgoing notification.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Sender hands a message to an email provider. A nil error means the provider
// accepted the message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var ErrNoRecipients = errors.New("message has no recipients")

// MailDialer allows mocking gomail.Dialer
type MailDialer interface {
	DialAndSend(...*gomail.Message) error
}

// NewDialer constructs the real gomail dialer
func NewDialer(cfg *config.AppConfig) MailDialer {
	return gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
}

// SMTPSender delivers messages through an SMTP relay.
type SMTPSender struct {
	dialer MailDialer
}

func NewSMTPSender(dialer MailDialer) *SMTPSender {
	return &SMTPSender{dialer: dialer}
}

// Send delivers msg and returns once the relay answers or ctx ends. gomail has
// no context support, so on ctx expiry the SMTP session is abandoned, not
// interrupted: the relay may still accept the message after Send has returned
// an error, and a client retry can then produce a duplicate lead.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	mailer := gomail.NewMessage()
	name, addr := splitAddress(msg.From)
	mailer.SetAddressHeader("From", addr, name)
	mailer.SetHeader("To", msg.To...)
	mailer.SetHeader("Subject", msg.Subject)
	mailer.SetBody("text/html", msg.HTML)

	done := make(chan error, 1)
	go func() {
		err := s.dialer.DialAndSend(mailer)
		if err == nil && ctx.Err() != nil {
			log.Printf("Email to %s delivered after the caller gave up: Subject: `%s`", strings.Join(msg.To, ", "), msg.Subject)
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
	case <-ctx.Done():
		log.Printf("Email to %s still in flight after %v; it may yet be delivered", strings.Join(msg.To, ", "), ctx.Err())
		return fmt.Errorf("failed to send email: %w", ctx.Err())
	}

	log.Printf("Email sent successfully to: %s Subject: `%s`", strings.Join(msg.To, ", "), msg.Subject)
	return nil
}

// splitAddress splits `Name <addr>` into its parts. A bare address has no name.
func splitAddress(v string) (name, addr string) {
	v = strings.TrimSpace(v)
	open := strings.LastIndexByte(v, '<')
	if open < 0 || !strings.HasSuffix(v, ">") {
		return "", v
	}
	return strings.TrimSpace(v[:open]), v[open+1 : len(v)-1]
}
