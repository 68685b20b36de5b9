package amqp

import (
	"testing"
	"time"
)

func TestSaleEventMessageRoundTrip(t *testing.T) {
	msg := NewSaleUpsertMessage(42)
	if msg.Kind != KindUpsert || msg.ID != 42 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if time.Since(msg.Timestamp) > time.Minute {
		t.Fatal("timestamp should be recent")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := SaleEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.Kind != msg.Kind || parsed.ID != msg.ID {
		t.Fatalf("round trip mismatch: %+v vs %+v", parsed, msg)
	}
}

func TestSaleEventMessageRejectsBadInput(t *testing.T) {
	if _, err := SaleEventMessageFromJSON([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if _, err := SaleEventMessageFromJSON([]byte(`{"kind":"explode","id":1}`)); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestSaleDeleteMessage(t *testing.T) {
	msg := NewSaleDeleteMessage(7)
	if msg.Kind != KindDelete || msg.ID != 7 {
		t.Fatalf("unexpected message: %+v", msg)
	}
}
