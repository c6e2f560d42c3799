package handler

import (
	"context"

	"go.uber.org/zap"
)

// SuggestionHandler processes suggestion-chip responses (buttons, suggested
// actions).
type SuggestionHandler struct {
	log *zap.Logger
}

func NewSuggestionHandler(log *zap.Logger) *SuggestionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SuggestionHandler{log: log}
}

func (h *SuggestionHandler) Handle(ctx context.Context, payload map[string]any) error {
	resp := getMap(payload, "suggestionResponse")

	h.log.Info("suggestion response",
		zap.String("from", senderPhone(payload)),
		zap.String("text", getString(resp, "text")),
		zap.String("postbackData", getString(resp, "postbackData")),
	)
	return nil
}
