package router

// Payload is a parsed webhook body. All inspection is key-based because the
// platform sends several event shapes through the same endpoint.
type Payload = map[string]any

// Classification is the closed set of event kinds the router recognizes.
type Classification string

const (
	ClassVerification       Classification = "verification"
	ClassMessage            Classification = "message"
	ClassUserStatus         Classification = "userStatus"
	ClassReceipt            Classification = "receipt"
	ClassSuggestionResponse Classification = "suggestionResponse"
	ClassRelay              Classification = "relay"
	ClassUnknown            Classification = "unknown"
)

func (c Classification) String() string { return string(c) }

// Classify determines the event kind from payload shape alone. Precedence is
// load-bearing and fixed:
//
//  1. endpoint-ownership handshake (clientToken + secret) beats everything,
//     since registration requests carry no signature on some deployments;
//  2. relay envelope (message.attributes.message_type) beats a direct
//     message, because the relay reuses the "message" key for its wrapper;
//  3. direct events in order: message > userStatus > receipt >
//     suggestionResponse; first match wins.
func Classify(p Payload) Classification {
	if p == nil {
		return ClassUnknown
	}
	if _, ok := p["clientToken"]; ok {
		if _, ok := p["secret"]; ok {
			return ClassVerification
		}
	}
	if isRelayEnvelope(p) {
		return ClassRelay
	}
	if _, ok := p["message"]; ok {
		return ClassMessage
	}
	if _, ok := p["userStatus"]; ok {
		return ClassUserStatus
	}
	if _, ok := p["receipt"]; ok {
		return ClassReceipt
	}
	if _, ok := p["suggestionResponse"]; ok {
		return ClassSuggestionResponse
	}
	return ClassUnknown
}
