package notifications

import (
	"strings"
	"testing"
	"time"

	"github.com/JonasWeber/TrackNest/app/models"
)

func TestPurchaseReceipt(t *testing.T) {
	items := []models.OrderItem{{Asset: "trk_1", Variant: "wav"}}
	subject, body := PurchaseReceipt("ref_123", items, 250000, "ngn")

	if subject == "" {
		t.Fatalf("expected non-empty subject")
	}
	if !strings.Contains(body, "ref_123") {
		t.Fatalf("body must carry the order reference")
	}
	if !strings.Contains(body, "trk_1 (wav)") {
		t.Fatalf("body must list the purchased items, got %q", body)
	}
	if !strings.Contains(body, "2500.00 NGN") {
		t.Fatalf("body must carry the formatted total, got %q", body)
	}
}

func TestMembershipReceipt(t *testing.T) {
	expires := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	_, body := MembershipReceipt("ref_456", "gold", 2, &expires)

	if !strings.Contains(body, "gold") || !strings.Contains(body, "ref_456") {
		t.Fatalf("body must carry plan and reference, got %q", body)
	}
	if !strings.Contains(body, "1 July 2024") {
		t.Fatalf("body must carry the expiry date, got %q", body)
	}

	// No expiry known yet is still a valid mail.
	_, body = MembershipReceipt("ref_789", "gold", 1, nil)
	if !strings.Contains(body, "ref_789") {
		t.Fatalf("body must carry the reference, got %q", body)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(150050, "usd"); got != "1500.50 USD" {
		t.Fatalf("FormatAmount = %q", got)
	}
}
