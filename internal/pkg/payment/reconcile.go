package payment

import (
	"sort"
	"time"

	"github.com/JonasWeber/TrackNest/app/models"
)

// Recompute derives the membership window from the non-refunded membership
// ledger of one principal. It is pure: same events and clock in, same window
// out. Both the ingestion path and the refund path call it; nothing else in
// the codebase is allowed to do month arithmetic on memberships.
//
// The cursor walks the ledger in paid_at order. A payment made after the
// running expiry starts a fresh window at its payment time (the previous
// window had lapsed); a payment made before the running expiry renews from
// the expiry, so unused days are kept when renewing early.
func Recompute(events []models.PaymentEvent, now time.Time) Window {
	win := Window{Status: models.MembershipStatusExpired}
	if len(events) == 0 {
		return win
	}

	sorted := make([]models.PaymentEvent, len(events))
	copy(sorted, events)
	// Stable sort: ties on paid_at keep insertion order.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PaidAt.Before(sorted[j].PaidAt)
	})

	var cursor time.Time
	for i, ev := range sorted {
		if i == 0 || ev.PaidAt.After(cursor) {
			cursor = ev.PaidAt
		}
		cursor = AddMonths(cursor, ev.Months)
	}

	startedAt := sorted[0].PaidAt
	expiresAt := cursor

	win.Principal = sorted[0].Principal
	win.Plan = sorted[len(sorted)-1].Plan
	win.StartedAt = &startedAt
	win.ExpiresAt = &expiresAt
	if cursor.After(now) {
		win.Status = models.MembershipStatusActive
	}
	return win
}

// AddMonths advances t by a calendar month count, keeping the day-of-month
// unless the target month is shorter, in which case it clamps to the target
// month's last day. Jan 31 + 1 month is Feb 28 (or 29), never Mar 2/3.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}
