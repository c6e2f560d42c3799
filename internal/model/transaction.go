package model

import "time"

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusSent      TransactionStatus = "SENT"
	StatusDelivered TransactionStatus = "DELIVERED"
	StatusRead      TransactionStatus = "READ"
	StatusResponded TransactionStatus = "RESPONDED"
	StatusFailed    TransactionStatus = "FAILED"
)

func (s TransactionStatus) String() string {
	return string(s)
}

func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusSent, StatusDelivered, StatusRead, StatusResponded, StatusFailed:
		return true
	}
	return false
}

// Transaction is the DB entity persisted in the transactions table. One row
// per outbound send, updated as receipts and replies arrive from the webhook.
type Transaction struct {
	ID           string            `db:"transaction_id"`
	PhoneNumber  string            `db:"phone_number"`
	Content      string            `db:"message_content"`
	Status       TransactionStatus `db:"status"`
	SentAt       time.Time         `db:"sent_at"`
	ResponseJSON []byte            `db:"response_json"`
	ResponseAt   *time.Time        `db:"response_at"`
}
