package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonasWeber/TrackNest/app/models"
)

// Mailer is the outbound delivery dependency; satisfied by mail.SMTPMailer.
type Mailer interface {
	Send(to, subject, body string) error
}

// PurchaseReceipt renders the confirmation email for a one-time track
// purchase. The download links themselves are issued by the recovery
// boundary, so the mail only carries the reference the buyer needs.
func PurchaseReceipt(reference string, items []models.OrderItem, amount int64, currency string) (subject, body string) {
	subject = "Your TrackNest purchase"

	var sb strings.Builder
	sb.WriteString("<h2>Thank you for your purchase!</h2>")
	sb.WriteString("<p>Your payment was confirmed. Your order reference is <strong>")
	sb.WriteString(reference)
	sb.WriteString("</strong>.</p>")
	if len(items) > 0 {
		sb.WriteString("<ul>")
		for _, it := range items {
			sb.WriteString(fmt.Sprintf("<li>%s (%s)</li>", it.Asset, it.Variant))
		}
		sb.WriteString("</ul>")
	}
	sb.WriteString(fmt.Sprintf("<p>Total: %s</p>", FormatAmount(amount, currency)))
	sb.WriteString("<p>Lost your download? Use the recovery page with your order reference.</p>")
	return subject, sb.String()
}

// MembershipReceipt renders the confirmation email for a membership payment.
func MembershipReceipt(reference, plan string, months int, expiresAt *time.Time) (subject, body string) {
	subject = "Your TrackNest membership"

	var sb strings.Builder
	sb.WriteString("<h2>Membership confirmed</h2>")
	sb.WriteString(fmt.Sprintf("<p>Your <strong>%s</strong> membership payment for %d month(s) was confirmed (reference %s).</p>", plan, months, reference))
	if expiresAt != nil {
		sb.WriteString(fmt.Sprintf("<p>Your membership is active until <strong>%s</strong>.</p>", expiresAt.UTC().Format("2 January 2006")))
	}
	return subject, sb.String()
}

// FormatAmount renders a minor-unit amount with its ISO currency code.
func FormatAmount(amount int64, currency string) string {
	return fmt.Sprintf("%.2f %s", float64(amount)/100, strings.ToUpper(currency))
}
