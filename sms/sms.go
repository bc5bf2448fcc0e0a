package sms

import (
	"errors"
	"strings"
)

// SMS represents a single SMS message
type SMS struct {
	Recipient string
	Message   string
}

// SendFunc delivers one SMS synchronously
type SendFunc func(*SMS) error

var (
	ErrInvalidRecipient = errors.New("invalid recipient phone number")
	ErrEmptyMessage     = errors.New("message cannot be empty")
)

// Check validates an SMS before it reaches a provider
func (s *SMS) Check() error {
	if !ValidatePhone(s.Recipient) {
		return ErrInvalidRecipient
	}
	if strings.TrimSpace(s.Message) == "" {
		return ErrEmptyMessage
	}
	return nil
}

// ValidatePhone checks if the phone number is in a valid E.164 format
func ValidatePhone(phone string) bool {
	if len(phone) < 10 || len(phone) > 16 || !strings.HasPrefix(phone, "+") {
		return false
	}
	for _, r := range phone[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MaskPhone obfuscates the phone number for logging
func MaskPhone(phone string) string {
	runes := []rune(phone)
	if len(runes) > 4 {
		return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
	}
	return "****"
}
