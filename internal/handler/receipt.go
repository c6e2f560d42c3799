package handler

import (
	"context"
	"fmt"

	"github.com/dcamacho/rbm-gateway/internal/model"
	"go.uber.org/zap"
)

// ReceiptHandler processes delivery/read confirmations and, when a
// transactions store is wired, advances the matching transaction's status.
// The receipt's messageId is the transaction ID we sent with.
type ReceiptHandler struct {
	store TransactionStore
	log   *zap.Logger
}

func NewReceiptHandler(store TransactionStore, log *zap.Logger) *ReceiptHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReceiptHandler{store: store, log: log}
}

func (h *ReceiptHandler) Handle(ctx context.Context, payload map[string]any) error {
	receipt := getMap(payload, "receipt")
	messageID := getString(receipt, "messageId")
	receiptType := getString(receipt, "receiptType")

	h.log.Info("receipt received",
		zap.String("messageId", messageID),
		zap.String("receiptType", receiptType),
		zap.String("sendTime", getString(payload, "sendTime")),
	)

	if h.store == nil || messageID == "" {
		return nil
	}

	var status model.TransactionStatus
	switch receiptType {
	case "DELIVERED":
		status = model.StatusDelivered
	case "READ":
		status = model.StatusRead
	default:
		return nil
	}

	if err := h.store.UpdateStatus(ctx, messageID, status, nil); err != nil {
		return fmt.Errorf("update transaction %s: %w", messageID, err)
	}
	return nil
}
