package mocks

import (
	"sync"

	"github.com/you/marketsvc/domain"
)

// DefaultEmailFrom is the sender recorded when EmailFrom is left empty
const DefaultEmailFrom = "noreply@market.test"

// SentNotice is one recorded SMS or email
type SentNotice struct {
	Channel string
	From    string
	To      string
	Subject string
	Body    string
}

// MockNotificationService implements domain.NotificationService interface for testing.
// Every call is recorded, including failed ones.
type MockNotificationService struct {
	SendSMSFunc   func(to, message string) error
	SendEmailFunc func(to, subject, body string) error
	SMSFrom       string
	EmailFrom     string

	mu   sync.Mutex
	sent []SentNotice
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{EmailFrom: DefaultEmailFrom}
}

// SendSMS records the message and delegates to SendSMSFunc when set
func (m *MockNotificationService) SendSMS(to, message string) error {
	m.record(SentNotice{Channel: "sms", From: m.SMSFrom, To: to, Body: message})
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	return nil
}

// SendEmail records the message and delegates to SendEmailFunc when set
func (m *MockNotificationService) SendEmail(to, subject, body string) error {
	from := m.EmailFrom
	if from == "" {
		from = DefaultEmailFrom
	}
	m.record(SentNotice{Channel: "email", From: from, To: to, Subject: subject, Body: body})
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, body)
	}
	return nil
}

// Emails returns the recorded emails in send order
func (m *MockNotificationService) Emails() []SentNotice { return m.filter("email") }

// SMS returns the recorded text messages in send order
func (m *MockNotificationService) SMS() []SentNotice { return m.filter("sms") }

func (m *MockNotificationService) record(n SentNotice) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
}

func (m *MockNotificationService) filter(channel string) []SentNotice {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SentNotice
	for _, n := range m.sent {
		if n.Channel == channel {
			out = append(out, n)
		}
	}
	return out
}

var _ domain.NotificationService = (*MockNotificationService)(nil)
