package notifications

import (
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/you/marketsvc/domain"
)

// TwilioServiceImpl implements domain.NotificationService
type TwilioServiceImpl struct {
	client     *twilio.RestClient
	fromNumber string
	emailFrom  string
}

// NewTwilioService creates a new Twilio notification service. Email has no
// provider wired and is logged.
func NewTwilioService(accountSID, authToken, fromNumber, emailFrom string) domain.NotificationService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioServiceImpl{
		client:     client,
		fromNumber: fromNumber,
		emailFrom:  emailFrom,
	}
}

// SendSMS implements domain.NotificationService
func (t *TwilioServiceImpl) SendSMS(to, message string) error {
	if to == "" {
		return nil
	}
	if t.fromNumber == "" {
		log.Printf("[notifications] sms not configured, dropped %d-char message to %s", len(message), to)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}

// SendEmail implements domain.NotificationService. Bodies carry generated
// credentials and are never logged.
func (t *TwilioServiceImpl) SendEmail(to, subject, body string) error {
	if to == "" {
		return nil
	}
	log.Printf("[notifications] email from %s to %s: %q (%d-char body, no provider)", t.emailFrom, to, subject, len(body))
	return nil
}
