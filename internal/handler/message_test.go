package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeduper struct {
	seen map[string]bool
	err  error
}

func (d *fakeDeduper) Seen(ctx context.Context, id string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen[id] {
		return true, nil
	}
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	d.seen[id] = true
	return false, nil
}

func TestMessageContent_NestedTextWins(t *testing.T) {
	kind, text := messageContent(map[string]any{
		"textEvent": map[string]any{"text": "nested"},
		"text":      "flat",
	})
	assert.Equal(t, "text", kind)
	assert.Equal(t, "nested", text)
}

func TestMessageContent_FlatFallback(t *testing.T) {
	kind, text := messageContent(map[string]any{"text": "flat"})
	assert.Equal(t, "text", kind)
	assert.Equal(t, "flat", text)
}

func TestMessageContent_Sentinel(t *testing.T) {
	for _, msg := range []map[string]any{
		nil,
		{},
		{"messageId": "m1"},
	} {
		_, text := messageContent(msg)
		assert.Equal(t, NoText, text)
	}
}

func TestMessageContent_CardKinds(t *testing.T) {
	kind, _ := messageContent(map[string]any{"richCardEvent": map[string]any{"title": "x"}})
	assert.Equal(t, "richCard", kind)

	kind, _ = messageContent(map[string]any{"standaloneCardEvent": map[string]any{"title": "x"}})
	assert.Equal(t, "standaloneCard", kind)
}

func TestMessageHandler_DedupeSkipsRedelivery(t *testing.T) {
	d := &fakeDeduper{}
	h := NewMessageHandler(d, nil)
	payload := map[string]any{
		"message":           map[string]any{"messageId": "m1", "text": "hola"},
		"senderPhoneNumber": "+1555",
	}

	require.NoError(t, h.Handle(context.Background(), payload))
	require.NoError(t, h.Handle(context.Background(), payload))
	assert.True(t, d.seen["m1"])
}

func TestMessageHandler_DedupeErrorIsBestEffort(t *testing.T) {
	h := NewMessageHandler(&fakeDeduper{err: errors.New("redis down")}, nil)
	payload := map[string]any{"message": map[string]any{"messageId": "m1"}}

	assert.NoError(t, h.Handle(context.Background(), payload))
}

func TestMessageHandler_NoDeduper(t *testing.T) {
	h := NewMessageHandler(nil, nil)
	assert.NoError(t, h.Handle(context.Background(), map[string]any{
		"message": map[string]any{"textEvent": map[string]any{"text": "hola"}},
	}))
}

func TestSenderPhone_NestedWins(t *testing.T) {
	p := map[string]any{
		"senderInformation": map[string]any{"senderPhoneNumber": "+1111"},
		"senderPhoneNumber": "+2222",
	}
	assert.Equal(t, "+1111", senderPhone(p))

	assert.Equal(t, "+2222", senderPhone(map[string]any{"senderPhoneNumber": "+2222"}))
	assert.Equal(t, "", senderPhone(map[string]any{}))
}
