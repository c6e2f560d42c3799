package handler

import (
	"context"

	"github.com/dcamacho/rbm-gateway/internal/model"
)

// NoText is the sentinel used when a message carries no extractable text.
const NoText = "no text"

// TransactionStore is the slice of the transactions repository the handlers
// need. Optional: handlers operate without one.
type TransactionStore interface {
	UpdateStatus(ctx context.Context, id string, status model.TransactionStatus, responseJSON []byte) error
}

// Deduper remembers message IDs across deliveries so redelivered events can
// be skipped. Optional.
type Deduper interface {
	// Seen marks id as processed and reports whether it had been seen before.
	Seen(ctx context.Context, id string) (bool, error)
}

// getString walks p by keys and returns the string at the end, or "" if any
// hop is missing or the wrong shape.
func getString(p map[string]any, keys ...string) string {
	cur := p
	for i, k := range keys {
		if i == len(keys)-1 {
			s, _ := cur[k].(string)
			return s
		}
		next, ok := cur[k].(map[string]any)
		if !ok {
			return ""
		}
		cur = next
	}
	return ""
}

func getMap(p map[string]any, key string) map[string]any {
	m, _ := p[key].(map[string]any)
	return m
}

// senderPhone resolves the sender: senderInformation.senderPhoneNumber takes
// priority, with the flat top-level field as fallback.
func senderPhone(p map[string]any) string {
	if s := getString(p, "senderInformation", "senderPhoneNumber"); s != "" {
		return s
	}
	return getString(p, "senderPhoneNumber")
}
