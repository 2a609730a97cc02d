// Package mail renders the customer-facing notification messages. Composing
// is a pure function of the order snapshot; sending lives in the mailapi
// adapter.
package mail

import (
	"fmt"
	"strings"

	"github.com/treedelivery/treedelivery-backend/internal/datepolicy"
	"github.com/treedelivery/treedelivery-backend/internal/domain"
)

type Event string

const (
	EventCreated   Event = "created"
	EventUpdated   Event = "updated"
	EventCancelled Event = "cancelled"
)

type Message struct {
	Subject string
	Text    string
	HTML    string
}

const (
	paymentReminder = "Payment is cash on delivery."
	cancelReminder  = "You can cancel free of charge up to 24 hours before the planned delivery."
)

// deliveryPhrase renders the chosen date as DD.MM.YYYY, or the relative
// fallback wording when no date was picked.
func deliveryPhrase(o *domain.Order) string {
	if o.Date == nil {
		return "in 2 days"
	}
	return "on " + o.Date.In(datepolicy.Location).Format("02.01.2006")
}

// Compose builds the notification for an order event. Created and updated
// messages carry the payment and cancellation reminders; cancelled omits
// both.
func Compose(event Event, o *domain.Order) Message {
	when := deliveryPhrase(o)

	var subject string
	lines := []string{fmt.Sprintf("Hello %s,", o.Name), ""}
	switch event {
	case EventCreated:
		subject = "Your Christmas tree order " + o.CustomerID
		lines = append(lines,
			fmt.Sprintf("thank you for your order! Your %s tree will be delivered %s to %s, %s %s.",
				o.Size, when, o.Street, o.Zip, o.City),
			"",
			fmt.Sprintf("Your customer ID is %s. Keep it together with your email address to look up, change or cancel the order.", o.CustomerID),
		)
	case EventUpdated:
		subject = "Your Christmas tree order " + o.CustomerID + " was updated"
		lines = append(lines,
			fmt.Sprintf("your order was updated. Your %s tree will be delivered %s to %s, %s %s.",
				o.Size, when, o.Street, o.Zip, o.City),
		)
	case EventCancelled:
		subject = "Your Christmas tree order " + o.CustomerID + " was cancelled"
		lines = append(lines,
			fmt.Sprintf("your order %s has been cancelled. No tree will be delivered and nothing is owed.", o.CustomerID),
		)
	}

	if o.SpecialRequests != "" && event != EventCancelled {
		lines = append(lines, "", "Special requests: "+o.SpecialRequests)
	}
	if event != EventCancelled {
		lines = append(lines, "", paymentReminder, cancelReminder)
	}
	lines = append(lines, "", "Your tree delivery team")

	text := strings.Join(lines, "\n")
	return Message{Subject: subject, Text: text, HTML: toHTML(lines)}
}

// ComposeDeliveryWindow builds the admin-triggered delivery-time mail.
func ComposeDeliveryWindow(o *domain.Order, fromTime, toTime string) Message {
	lines := []string{
		fmt.Sprintf("Hello %s,", o.Name),
		"",
		fmt.Sprintf("your Christmas tree will be delivered %s between %s and %s.",
			deliveryPhrase(o), fromTime, toTime),
		"",
		"Please make sure someone is available at " + o.Street + ", " + o.Zip + " " + o.City + ".",
		"",
		paymentReminder,
		"",
		"Your tree delivery team",
	}
	return Message{
		Subject: "Delivery time for your Christmas tree order " + o.CustomerID,
		Text:    strings.Join(lines, "\n"),
		HTML:    toHTML(lines),
	}
}

func toHTML(lines []string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(htmlEscape(l))
		b.WriteString("</p>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func htmlEscape(s string) string { return htmlEscaper.Replace(s) }
