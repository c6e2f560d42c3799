package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	for name, tc := range map[string]struct {
		payload Payload
		want    Classification
	}{
		"message":            {Payload{"message": map[string]any{"text": "hi"}}, ClassMessage},
		"userStatus":         {Payload{"userStatus": map[string]any{"isTyping": true}}, ClassUserStatus},
		"receipt":            {Payload{"receipt": map[string]any{"messageId": "m1"}}, ClassReceipt},
		"suggestionResponse": {Payload{"suggestionResponse": map[string]any{"text": "yes"}}, ClassSuggestionResponse},
		"empty":              {Payload{}, ClassUnknown},
		"nil":                {nil, ClassUnknown},
		"unrelated keys":     {Payload{"foo": 1, "bar": "baz"}, ClassUnknown},
		"handshake": {
			Payload{"clientToken": "t", "secret": "s"},
			ClassVerification,
		},
		"handshake beats message": {
			Payload{"clientToken": "t", "secret": "s", "message": map[string]any{}},
			ClassVerification,
		},
		"clientToken alone is not a handshake": {
			Payload{"clientToken": "t"},
			ClassUnknown,
		},
		"message beats userStatus": {
			Payload{"message": map[string]any{}, "userStatus": map[string]any{}},
			ClassMessage,
		},
		"userStatus beats receipt": {
			Payload{"userStatus": map[string]any{}, "receipt": map[string]any{}},
			ClassUserStatus,
		},
		"receipt beats suggestionResponse": {
			Payload{"receipt": map[string]any{}, "suggestionResponse": map[string]any{}},
			ClassReceipt,
		},
		"relay envelope": {
			Payload{"message": map[string]any{
				"data":       "e30=",
				"attributes": map[string]any{"message_type": "TEXT"},
			}},
			ClassRelay,
		},
		"message with attributes but no message_type stays direct": {
			Payload{"message": map[string]any{
				"attributes": map[string]any{"other": "x"},
			}},
			ClassMessage,
		},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.payload))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	p := Payload{"message": map[string]any{"messageId": "m1"}}
	first := Classify(p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(p))
	}
}
