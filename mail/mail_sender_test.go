package mail

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/gomail.v2"

	"lead_handler/config"
)

type MockDialer struct {
	EmailsSent []*gomail.Message
	SendError  error
	Block      chan struct{}
	Done       chan struct{} // closed when DialAndSend returns, if set
}

func (m *MockDialer) DialAndSend(msg ...*gomail.Message) error {
	if m.Done != nil {
		defer close(m.Done)
	}
	if m.Block != nil {
		<-m.Block
	}
	if m.SendError != nil {
		return m.SendError
	}
	m.EmailsSent = append(m.EmailsSent, msg...)
	return nil
}

func testMessage() Message {
	return Message{
		From:    "Стеклопром <onboarding@resend.dev>",
		To:      []string{"sales@example.com"},
		Subject: "Новая заявка",
		HTML:    "<p>hello</p>",
	}
}

func TestSMTPSender_Success(t *testing.T) {
	mockDialer := &MockDialer{}

	if err := NewSMTPSender(mockDialer).Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}

	if len(mockDialer.EmailsSent) != 1 {
		t.Fatalf("Expected 1 email to be sent, but got %d", len(mockDialer.EmailsSent))
	}
	sent := mockDialer.EmailsSent[0]
	if got := sent.GetHeader("To"); len(got) != 1 || got[0] != "sales@example.com" {
		t.Errorf("To header = %v", got)
	}
	if got := sent.GetHeader("From"); len(got) != 1 || !strings.Contains(got[0], "<onboarding@resend.dev>") {
		t.Errorf("From header = %v", got)
	}
}

func TestSMTPSender_NoRecipients(t *testing.T) {
	msg := testMessage()
	msg.To = nil

	err := NewSMTPSender(&MockDialer{}).Send(context.Background(), msg)
	if !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("Expected ErrNoRecipients, got %v", err)
	}
}

func TestSMTPSender_SendError(t *testing.T) {
	mockDialer := &MockDialer{SendError: errors.New("SMTP connection failed")}

	err := NewSMTPSender(mockDialer).Send(context.Background(), testMessage())
	if err == nil {
		t.Fatal("Expected error, but got none")
	}

	expectedError := "failed to send email: SMTP connection failed"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
	}
}

func TestSMTPSender_RespectsDeadline(t *testing.T) {
	mockDialer := &MockDialer{Block: make(chan struct{})}
	defer close(mockDialer.Block)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := NewSMTPSender(mockDialer).Send(ctx, testMessage())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline error, got %v", err)
	}
}

func TestSMTPSender_AbandonedSendMayStillDeliver(t *testing.T) {
	mockDialer := &MockDialer{Block: make(chan struct{}), Done: make(chan struct{})}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := NewSMTPSender(mockDialer).Send(ctx, testMessage()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline error, got %v", err)
	}

	close(mockDialer.Block)
	select {
	case <-mockDialer.Done:
	case <-time.After(time.Second):
		t.Fatal("dialer never returned")
	}
	if len(mockDialer.EmailsSent) != 1 {
		t.Fatalf("Expected the abandoned send to complete, got %d emails", len(mockDialer.EmailsSent))
	}
}

func TestNewDialer_UsesConfig(t *testing.T) {
	cfg := &config.AppConfig{SMTPHost: "smtp.example.com", SMTPPort: 2525, SMTPUser: "robot", SMTPPass: "secret"}

	d, ok := NewDialer(cfg).(*gomail.Dialer)
	if !ok {
		t.Fatalf("expected *gomail.Dialer")
	}
	if d.Host != "smtp.example.com" || d.Port != 2525 || d.Username != "robot" {
		t.Errorf("dialer = %s:%d as %s", d.Host, d.Port, d.Username)
	}
}

func TestSplitAddress(t *testing.T) {
	tests := []struct {
		in, name, addr string
	}{
		{"Стеклопром <onboarding@resend.dev>", "Стеклопром", "onboarding@resend.dev"},
		{"robot@example.com", "", "robot@example.com"},
		{" <robot@example.com> ", "", "robot@example.com"},
	}
	for _, tc := range tests {
		name, addr := splitAddress(tc.in)
		if name != tc.name || addr != tc.addr {
			t.Errorf("splitAddress(%q) = %q, %q; want %q, %q", tc.in, name, addr, tc.name, tc.addr)
		}
	}
}
