package notifications

import (
	"fmt"
	"strings"

	"github.com/you/marketsvc/domain"
)

// Message is a rendered notice ready for email or SMS
type Message struct {
	Subject string
	Body    string
	SMS     string
}

// ApprovalNotice carries the credentials verbatim; the applicant types them in.
func ApprovalNotice(app *domain.Application, creds domain.Credentials) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", app.OwnerName)
	fmt.Fprintf(&b, "Your application for %s has been approved.\n\n", app.BusinessName)
	fmt.Fprintf(&b, "Username: %s\nPassword: %s\n\n", creds.Username, creds.Password)
	b.WriteString("Please sign in to the restaurant panel to publish your first package.\n")

	return Message{
		Subject: fmt.Sprintf("%s is approved", app.BusinessName),
		Body:    b.String(),
		SMS:     fmt.Sprintf("%s approved. Username: %s Password: %s", app.BusinessName, creds.Username, creds.Password),
	}
}

// RejectionNotice explains a rejected application
func RejectionNotice(app *domain.Application) Message {
	reason := app.RejectReason
	if reason == "" {
		reason = "no reason given"
	}
	return Message{
		Subject: fmt.Sprintf("Your application for %s", app.BusinessName),
		Body: fmt.Sprintf("Hello %s,\n\nWe could not approve %s at this time (%s).\n",
			app.OwnerName, app.BusinessName, reason),
		SMS: fmt.Sprintf("%s application was not approved: %s", app.BusinessName, reason),
	}
}

// NewOrderNotice is texted to a restaurant that has no live connection
func NewOrderNotice(order *domain.Order) Message {
	units := 0
	for _, item := range order.Items {
		units += item.Quantity
	}
	text := fmt.Sprintf("New order from %s: %d item(s), total %.2f", order.Customer.Name, units, order.TotalPrice)
	return Message{Subject: "New order", Body: text, SMS: text}
}
