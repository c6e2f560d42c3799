package router

import (
	"context"
	"crypto/hmac"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Handler consumes one classified event payload. A non-nil error marks a
// handler fault; faults are logged by the router and never fail the request
// once verification and parsing have passed (a non-200 would make the
// platform redeliver).
type Handler interface {
	Handle(ctx context.Context, payload Payload) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, payload Payload) error

func (f HandlerFunc) Handle(ctx context.Context, payload Payload) error { return f(ctx, payload) }

// HandshakePolicy controls how the one-time ownership verification request
// is answered. The choice is fixed per deployment, never data-dependent.
type HandshakePolicy string

const (
	// HandshakeEcho answers 200 with the delivered secret echoed back
	// verbatim, trusting the platform's registration flow.
	HandshakeEcho HandshakePolicy = "echo"
	// HandshakeStrict compares the delivered clientToken against a locally
	// configured token and rejects mismatches with 401.
	HandshakeStrict HandshakePolicy = "strict"
)

// ParseHandshakePolicy normalizes input; empty => echo.
// Returns (value, true) if valid; otherwise (echo, false).
func ParseHandshakePolicy(s string) (HandshakePolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(HandshakeEcho):
		return HandshakeEcho, true
	case string(HandshakeStrict):
		return HandshakeStrict, true
	default:
		return HandshakeEcho, false
	}
}

// Ack is the response shape the HTTP layer writes once routing completes.
type Ack struct {
	Status int
	Body   map[string]any
}

func successAck() Ack {
	return Ack{Status: http.StatusOK, Body: map[string]any{"status": "success"}}
}

// Handlers groups the type-specific collaborators. Nil entries are allowed;
// events with no handler are logged and acknowledged.
type Handlers struct {
	Message    Handler
	UserStatus Handler
	Receipt    Handler
	Suggestion Handler
}

// Router classifies a parsed payload, unwraps relay envelopes, and
// dispatches to the matching handler. It keeps no state between requests.
type Router struct {
	handlers      Handlers
	handshake     HandshakePolicy
	expectedToken string
	log           *zap.Logger
}

func New(handlers Handlers, handshake HandshakePolicy, expectedToken string, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		handlers:      handlers,
		handshake:     handshake,
		expectedToken: expectedToken,
		log:           log,
	}
}

// Route runs the classification/dispatch pipeline and returns the
// classification actually dispatched plus the acknowledgment to write.
// It is deterministic: the same payload always yields the same
// classification and ack shape.
func (r *Router) Route(ctx context.Context, payload Payload) (Classification, Ack) {
	class := Classify(payload)

	switch class {
	case ClassVerification:
		return class, r.ackHandshake(payload)

	case ClassRelay:
		r.routeRelay(ctx, payload)
		return class, successAck()

	case ClassMessage:
		r.dispatch(ctx, r.handlers.Message, class, payload)
	case ClassUserStatus:
		r.dispatch(ctx, r.handlers.UserStatus, class, payload)
	case ClassReceipt:
		r.dispatch(ctx, r.handlers.Receipt, class, payload)
	case ClassSuggestionResponse:
		r.dispatch(ctx, r.handlers.Suggestion, class, payload)
	default:
		keys := make([]string, 0, len(payload))
		for k := range payload {
			keys = append(keys, k)
		}
		r.log.Warn("unknown event type, acknowledging without dispatch", zap.Strings("keys", keys))
	}

	return class, successAck()
}

// ackHandshake answers the endpoint-ownership verification request.
func (r *Router) ackHandshake(payload Payload) Ack {
	secret, _ := payload["secret"].(string)
	token, _ := payload["clientToken"].(string)

	if r.handshake == HandshakeStrict {
		if !hmac.Equal([]byte(token), []byte(r.expectedToken)) {
			r.log.Warn("handshake client token mismatch", zap.String("clientToken", token))
			return Ack{Status: http.StatusUnauthorized, Body: map[string]any{"error": "invalid client token"}}
		}
	}

	r.log.Info("endpoint verification handshake, echoing secret", zap.String("clientToken", token))
	return Ack{Status: http.StatusOK, Body: map[string]any{"secret": secret}}
}

// routeRelay unwraps the transport envelope and redispatches the inner
// payload. Any envelope defect is a handler-level fault: logged, no
// dispatch, still acknowledged by the caller.
func (r *Router) routeRelay(ctx context.Context, payload Payload) {
	inner, messageType, err := unwrapRelay(payload)
	if err != nil {
		r.log.Error("relay envelope unwrap failed", zap.String("message_type", messageType), zap.Error(err))
		return
	}

	switch messageType {
	case relayTypeSuggestion:
		r.dispatch(ctx, r.handlers.Suggestion, ClassSuggestionResponse, inner)
	case relayTypeText, relayTypeMessage:
		r.dispatch(ctx, r.handlers.Message, ClassMessage, inner)
	default:
		r.log.Warn("unknown relay message_type, no dispatch", zap.String("message_type", messageType))
	}
}

func (r *Router) dispatch(ctx context.Context, h Handler, class Classification, payload Payload) {
	if h == nil {
		r.log.Warn("no handler registered", zap.String("classification", class.String()))
		return
	}
	if err := h.Handle(ctx, payload); err != nil {
		// Faults are isolated per invocation; the request is still acked.
		r.log.Error("handler fault", zap.String("classification", class.String()), zap.Error(err))
	}
}
