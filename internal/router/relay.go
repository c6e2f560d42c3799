package router

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Relay message_type values seen from the pub/sub transport.
const (
	relayTypeSuggestion = "SUGGESTION_RESPONSE"
	relayTypeText       = "TEXT"
	relayTypeMessage    = "message"
)

// isRelayEnvelope reports whether the payload is a transport wrapper rather
// than a direct delivery: payload.message.attributes must exist and carry a
// message_type key.
func isRelayEnvelope(p Payload) bool {
	msg, ok := p["message"].(map[string]any)
	if !ok {
		return false
	}
	attrs, ok := msg["attributes"].(map[string]any)
	if !ok {
		return false
	}
	_, ok = attrs["message_type"]
	return ok
}

// unwrapRelay extracts the real payload from a relay envelope:
// message.data is base64-encoded JSON of the inner event.
func unwrapRelay(p Payload) (inner Payload, messageType string, err error) {
	msg, ok := p["message"].(map[string]any)
	if !ok {
		return nil, "", fmt.Errorf("relay envelope missing message object")
	}
	attrs, _ := msg["attributes"].(map[string]any)
	messageType, _ = attrs["message_type"].(string)

	data, ok := msg["data"].(string)
	if !ok {
		return nil, messageType, fmt.Errorf("relay envelope missing data field")
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, messageType, fmt.Errorf("decode relay data: %w", err)
	}
	if err := json.Unmarshal(raw, &inner); err != nil {
		return nil, messageType, fmt.Errorf("parse relay data: %w", err)
	}
	return inner, messageType, nil
}
