package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/dcamacho/rbm-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	updates map[string]model.TransactionStatus
	err     error
}

func (s *fakeStore) UpdateStatus(ctx context.Context, id string, status model.TransactionStatus, responseJSON []byte) error {
	if s.err != nil {
		return s.err
	}
	if s.updates == nil {
		s.updates = map[string]model.TransactionStatus{}
	}
	s.updates[id] = status
	return nil
}

func receiptPayload(messageID, receiptType string) map[string]any {
	return map[string]any{
		"receipt": map[string]any{
			"messageId":   messageID,
			"receiptType": receiptType,
		},
		"sendTime": "2026-08-23T10:00:00Z",
	}
}

func TestReceiptHandler_AdvancesTransaction(t *testing.T) {
	store := &fakeStore{}
	h := NewReceiptHandler(store, nil)

	require.NoError(t, h.Handle(context.Background(), receiptPayload("tx1", "DELIVERED")))
	require.NoError(t, h.Handle(context.Background(), receiptPayload("tx2", "READ")))

	assert.Equal(t, model.StatusDelivered, store.updates["tx1"])
	assert.Equal(t, model.StatusRead, store.updates["tx2"])
}

func TestReceiptHandler_IgnoresUnknownReceiptType(t *testing.T) {
	store := &fakeStore{}
	h := NewReceiptHandler(store, nil)

	require.NoError(t, h.Handle(context.Background(), receiptPayload("tx1", "IS_TYPING")))
	assert.Empty(t, store.updates)
}

func TestReceiptHandler_StoreErrorIsFault(t *testing.T) {
	h := NewReceiptHandler(&fakeStore{err: errors.New("db down")}, nil)
	assert.Error(t, h.Handle(context.Background(), receiptPayload("tx1", "DELIVERED")))
}

func TestReceiptHandler_NoStore(t *testing.T) {
	h := NewReceiptHandler(nil, nil)
	assert.NoError(t, h.Handle(context.Background(), receiptPayload("tx1", "DELIVERED")))
}

func TestUserStatusAndSuggestionHandlers(t *testing.T) {
	status := NewUserStatusHandler(nil)
	assert.NoError(t, status.Handle(context.Background(), map[string]any{
		"userStatus":        map[string]any{"isTyping": true},
		"senderPhoneNumber": "+1555",
	}))

	suggestion := NewSuggestionHandler(nil)
	assert.NoError(t, suggestion.Handle(context.Background(), map[string]any{
		"suggestionResponse": map[string]any{"text": "yes", "postbackData": "pb-1"},
	}))
}
