package templates

import (
	"fmt"
	"strings"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
)

// BookingConfirmation builds the email sent to a customer after their
// submission is accepted.
func BookingConfirmation(booking *entity.Booking) *entity.OutboundEmail {
	serviceLabel := labelize(booking.Service)
	date := booking.Date.Format("Monday, January 2, 2006")

	var html strings.Builder
	html.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`)
	html.WriteString(`<h2 style="color: #1a1a2e;">Booking Received</h2>`)
	html.WriteString(fmt.Sprintf(`<p>Hi %s,</p>`, booking.Name))
	html.WriteString(`<p>Thanks for booking with SleepySquid Drones. Here are your details:</p>`)
	html.WriteString(`<table style="border-collapse: collapse; width: 100%;">`)
	html.WriteString(row("Reference", booking.ID.Hex()))
	html.WriteString(row("Service", serviceLabel))
	if booking.Package != "" {
		html.WriteString(row("Package", labelize(booking.Package)))
	}
	html.WriteString(row("Date", date))
	html.WriteString(row("Location", booking.Location))
	if booking.EstimatedPrice > 0 {
		html.WriteString(row("Estimated price", fmt.Sprintf("$%.0f", booking.EstimatedPrice)))
	}
	html.WriteString(`</table>`)
	html.WriteString(`<p>We will confirm your booking shortly. Reply to this email with any questions.</p>`)
	html.WriteString(`</div>`)

	text := fmt.Sprintf(
		"Hi %s,\n\nThanks for booking with SleepySquid Drones.\n\nReference: %s\nService: %s\nDate: %s\nLocation: %s\n\nWe will confirm your booking shortly.\n",
		booking.Name, booking.ID.Hex(), serviceLabel, date, booking.Location)

	return &entity.OutboundEmail{
		To:       booking.Email,
		Subject:  fmt.Sprintf("Booking received - %s on %s", serviceLabel, booking.Date.Format("Jan 2")),
		HTMLBody: html.String(),
		TextBody: text,
	}
}

func row(label, value string) string {
	return fmt.Sprintf(
		`<tr><td style="padding: 6px 12px; color: #666;">%s</td><td style="padding: 6px 12px; font-weight: bold;">%s</td></tr>`,
		label, value)
}

// labelize turns a slug like "aerial-photography" into "Aerial Photography".
func labelize(slug string) string {
	parts := strings.Split(slug, "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
