package model

import "time"

// InboundEvent is the audit record written to ClickHouse for every accepted
// webhook delivery (append-only, queried newest first).
type InboundEvent struct {
	ID             string    `db:"id"`              // ULID
	Classification string    `db:"classification"`  // router classification
	SenderPhone    string    `db:"sender_phone"`    // may be empty
	Payload        string    `db:"payload"`         // raw JSON body
	ReceivedAt     time.Time `db:"received_at"`
}
