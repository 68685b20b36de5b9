package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event kinds carried on the sale events queue.
const (
	KindUpsert = "upsert"
	KindDelete = "delete"
)

// SaleEventMessage is a lightweight notification that a transaction changed.
// It carries only the ID; the worker fetches the full row from the database.
type SaleEventMessage struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSaleUpsertMessage announces a created or updated transaction.
func NewSaleUpsertMessage(id int64) *SaleEventMessage {
	return &SaleEventMessage{Kind: KindUpsert, ID: id, Timestamp: time.Now()}
}

// NewSaleDeleteMessage announces a deleted transaction.
func NewSaleDeleteMessage(id int64) *SaleEventMessage {
	return &SaleEventMessage{Kind: KindDelete, ID: id, Timestamp: time.Now()}
}

// ToJSON converts the message to JSON bytes.
func (m *SaleEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SaleEventMessageFromJSON parses a message and rejects unknown kinds.
func SaleEventMessageFromJSON(data []byte) (*SaleEventMessage, error) {
	var msg SaleEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Kind != KindUpsert && msg.Kind != KindDelete {
		return nil, fmt.Errorf("unknown sale event kind: %q", msg.Kind)
	}
	return &msg, nil
}
