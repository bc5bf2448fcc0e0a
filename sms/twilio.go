package sms

import (
	"fmt"
	"log"

	twilio "github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender sends SMS using Twilio's API
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, twilioNumber string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: twilioNumber,
	}
}

func (s *TwilioSender) Send(sms *SMS) error {
	if err := sms.Check(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(sms.Recipient)
	params.SetFrom(s.from)
	params.SetBody(sms.Message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}

	sid, status := "", ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	if resp.Status != nil {
		status = *resp.Status
	}
	log.Printf("Twilio SMS sent to %s: SID=%s Status=%s", MaskPhone(sms.Recipient), sid, status)
	return nil
}
