package sms

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"
)

// MockPort simulates a serial port for testing purposes.
type MockPort struct {
	WriteBuffer bytes.Buffer
	ReadBuffer  bytes.Buffer
}

// Write writes data to the mock port's write buffer.
func (m *MockPort) Write(p []byte) (int, error) {
	return m.WriteBuffer.Write(p)
}

// Read reads data from the mock port's read buffer.
func (m *MockPort) Read(p []byte) (int, error) {
	return m.ReadBuffer.Read(p)
}

// TestHardwareSender tests the AT command sequence written to the modem.
func TestHardwareSender(t *testing.T) {
	mockPort := &MockPort{}
	sender := NewHardwareSender(mockPort)
	sender.pause = 0

	tests := []struct {
		name          string
		recipient     string
		message       string
		mockResponse  string
		expectError   bool
		expectedWrite string
	}{
		{
			name:          "ValidSMS",
			recipient:     "+78631234567",
			message:       "New lead",
			mockResponse:  "OK",
			expectError:   false,
			expectedWrite: "AT+CMGF=1\rAT+CMGS=\"+78631234567\"\rNew lead\x1A",
		},
		{
			name:         "ModemErrorResponse",
			recipient:    "+78631234567",
			message:      "Test error response",
			mockResponse: "ERROR",
			expectError:  true,
		},
		{
			name:         "EmptyMessage",
			recipient:    "+78631234567",
			message:      "",
			mockResponse: "OK",
			expectError:  true,
		},
		{
			name:         "InvalidRecipient",
			recipient:    "INVALID",
			message:      "Test message",
			mockResponse: "OK",
			expectError:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockPort.ReadBuffer.Reset()
			mockPort.ReadBuffer.WriteString(tc.mockResponse)

			mockPort.WriteBuffer.Reset()

			err := sender.Send(&SMS{Recipient: tc.recipient, Message: tc.message})
			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got one: %v", err)
			}

			if tc.expectedWrite != "" && mockPort.WriteBuffer.String() != tc.expectedWrite {
				t.Errorf("Unexpected commands sent to port. Got: %q, want: %q", mockPort.WriteBuffer.String(), tc.expectedWrite)
			}
		})
	}
}

// TestValidatePhone tests the phone number validation logic.
func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		isValid bool
	}{
		{"ValidPhone", "+78631234567", true},
		{"InvalidPhoneLetters", "+7863ABC4567", false},
		{"MissingPlus", "78631234567", false},
		{"InvalidPhoneShort", "+12345", false},
		{"EmptyPhone", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := ValidatePhone(tc.phone)
			if result != tc.isValid {
				t.Errorf("ValidatePhone(%q) = %v, want %v", tc.phone, result, tc.isValid)
			}
		})
	}
}

func TestMaskPhone(t *testing.T) {
	if got := MaskPhone("+78631234567"); got != "********4567" {
		t.Errorf("MaskPhone = %q", got)
	}
	if got := MaskPhone("123"); got != "****" {
		t.Errorf("MaskPhone short = %q", got)
	}
}

// TestQueue tests that queued messages reach the sender.
func TestQueue(t *testing.T) {
	var mu sync.Mutex
	var sent []*SMS
	done := make(chan struct{}, 3)

	q := NewQueue(10, func(s *SMS) error {
		mu.Lock()
		sent = append(sent, s)
		mu.Unlock()
		done <- struct{}{}
		if s.Message == "fail" {
			return errors.New("provider down")
		}
		return nil
	})
	q.Start()
	defer q.Stop()

	for _, msg := range []string{"first", "fail", "third"} {
		if !q.TrySend(&SMS{Recipient: "+78631234567", Message: msg}) {
			t.Fatalf("expected %q to be queued", msg)
		}
	}
	// invalid messages never reach the sender
	q.TrySend(&SMS{Recipient: "INVALID", Message: "skipped"})

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for message %d", i+1)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(sent) != 3 || sent[0].Message != "first" || sent[2].Message != "third" {
		t.Fatalf("unexpected delivery order: %+v", sent)
	}
}

// TestQueue_FullQueueDrops tests that TrySend never blocks.
func TestQueue_FullQueueDrops(t *testing.T) {
	q := NewQueue(1, nil) // not started, nothing drains

	if !q.TrySend(&SMS{Recipient: "+78631234567", Message: "one"}) {
		t.Fatalf("expected first message to fit")
	}
	if q.TrySend(&SMS{Recipient: "+78631234567", Message: "two"}) {
		t.Fatalf("expected full queue to reject")
	}
	q.Stop()
	q.Stop()
}
