package handler

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// MessageHandler processes user messages: extracts sender, message ID and
// content, skips redelivered message IDs when a deduper is wired.
type MessageHandler struct {
	dedupe Deduper
	log    *zap.Logger
}

func NewMessageHandler(dedupe Deduper, log *zap.Logger) *MessageHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MessageHandler{dedupe: dedupe, log: log}
}

func (h *MessageHandler) Handle(ctx context.Context, payload map[string]any) error {
	sender := senderPhone(payload)
	msg := getMap(payload, "message")
	messageID := getString(msg, "messageId")
	sendTime := getString(payload, "sendTime")

	if h.dedupe != nil && messageID != "" {
		seen, err := h.dedupe.Seen(ctx, messageID)
		if err != nil {
			// Dedupe is best effort; process anyway.
			h.log.Warn("dedupe check failed", zap.String("messageId", messageID), zap.Error(err))
		} else if seen {
			h.log.Info("duplicate delivery skipped", zap.String("messageId", messageID))
			return nil
		}
	}

	kind, text := messageContent(msg)

	h.log.Info("message received",
		zap.String("from", sender),
		zap.String("messageId", messageID),
		zap.String("kind", kind),
		zap.String("text", text),
		zap.String("sendTime", sendTime),
	)
	return nil
}

// messageContent identifies the content kind and extracts its text. Text may
// arrive nested (message.textEvent.text) or flat (message.text) depending on
// transport; nested wins, then flat, then the NoText sentinel.
func messageContent(msg map[string]any) (kind, text string) {
	if msg == nil {
		return "empty", NoText
	}
	if te := getMap(msg, "textEvent"); te != nil {
		if t := getString(te, "text"); t != "" {
			return "text", t
		}
		return "text", NoText
	}
	if card := getMap(msg, "richCardEvent"); card != nil {
		return "richCard", fmt.Sprintf("%v", card)
	}
	if card := getMap(msg, "standaloneCardEvent"); card != nil {
		return "standaloneCard", fmt.Sprintf("%v", card)
	}
	if t := getString(msg, "text"); t != "" {
		return "text", t
	}
	return "empty", NoText
}
