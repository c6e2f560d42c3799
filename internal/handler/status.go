package handler

import (
	"context"

	"go.uber.org/zap"
)

// UserStatusHandler logs typing-state changes.
type UserStatusHandler struct {
	log *zap.Logger
}

func NewUserStatusHandler(log *zap.Logger) *UserStatusHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserStatusHandler{log: log}
}

func (h *UserStatusHandler) Handle(ctx context.Context, payload map[string]any) error {
	status := getMap(payload, "userStatus")
	isTyping, _ := status["isTyping"].(bool)

	h.log.Info("user status",
		zap.String("from", senderPhone(payload)),
		zap.Bool("isTyping", isTyping),
	)
	return nil
}
