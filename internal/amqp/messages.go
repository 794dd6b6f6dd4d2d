package amqp

import (
	"encoding/json"
	"time"
)

// LedgerEventMessage announces a mutation against the remote ledger.
// It carries only the resource type and entity id; consumers revalidate
// against the remote instead of trusting a payload.
type LedgerEventMessage struct {
	Resource  string    `json:"resource"` // transactions | accounts | goals | ...
	Action    string    `json:"action"`   // created | updated | deleted
	ID        string    `json:"id"`
	GroupID   string    `json:"groupId,omitempty"` // installment group, set for batch creates
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEventMessage(resource, action, id string) *LedgerEventMessage {
	return &LedgerEventMessage{
		Resource:  resource,
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
