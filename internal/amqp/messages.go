package amqp

import (
	"encoding/json"
	"time"
)

// Message type discriminator carried in every payload so the consumer can
// dispatch without sniffing fields.
const (
	MessageTypeSync   = "sync"
	MessageTypeDelete = "delete"
)

// TransactionSyncMessage represents a lightweight message for exporting a
// transaction to Google Sheets. It carries only the ID and version, the
// worker fetches the full transaction from the database.
type TransactionSyncMessage struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionSyncMessage creates a new sync message with just ID and version
func NewTransactionSyncMessage(id, version int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		Type:      MessageTypeSync,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionSyncMessageFromJSON creates a message from JSON bytes
func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// TransactionDeleteMessage notifies the worker that a transaction was
// removed locally. The export sheet is append-only, so the worker only
// acknowledges and logs it.
type TransactionDeleteMessage struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionDeleteMessage creates a new delete message for the given ID
func NewTransactionDeleteMessage(id int64) *TransactionDeleteMessage {
	return &TransactionDeleteMessage{
		Type:      MessageTypeDelete,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionDeleteMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionDeleteMessageFromJSON creates a message from JSON bytes
func TransactionDeleteMessageFromJSON(data []byte) (*TransactionDeleteMessage, error) {
	var msg TransactionDeleteMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// peekMessageType reads only the discriminator. Messages published before
// the delete flow existed have no type field and are treated as sync.
func peekMessageType(data []byte) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", err
	}
	if head.Type == "" {
		return MessageTypeSync, nil
	}
	return head.Type, nil
}
