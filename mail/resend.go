package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// ResendSender delivers messages through the Resend HTTP API.
type ResendSender struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewResendSender creates a Resend client. A nil client means http.DefaultClient.
func NewResendSender(apiKey, baseURL string, client *http.Client) *ResendSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &ResendSender{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	jsonPayload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(jsonPayload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("error from Resend API: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("error parsing response: %w", err)
	}

	log.Printf("Resend accepted email id=%s subject=`%s`", response.ID, msg.Subject)
	return nil
}
