package models

import "testing"

func TestEncodeDecodeOrderItems(t *testing.T) {
	items := []OrderItem{{Asset: "trk_1", Variant: "wav"}, {Asset: "trk_2", Variant: "mp3"}}

	raw, err := EncodeOrderItems(items)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	decoded, err := DecodeOrderItems(raw)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(decoded) != 2 || decoded[0] != items[0] || decoded[1] != items[1] {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}
}

func TestEncodeOrderItems_Empty(t *testing.T) {
	raw, err := EncodeOrderItems(nil)
	if err != nil || raw != "" {
		t.Fatalf("expected empty encoding, got %q, %v", raw, err)
	}

	decoded, err := DecodeOrderItems("")
	if err != nil || decoded != nil {
		t.Fatalf("expected nil items for empty column, got %+v, %v", decoded, err)
	}
}

func TestDecodeOrderItems_Invalid(t *testing.T) {
	if _, err := DecodeOrderItems("{broken"); err == nil {
		t.Fatalf("expected decode error")
	}
}
