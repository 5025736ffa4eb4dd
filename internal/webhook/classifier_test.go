package webhook

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbaye/wacloud/internal/domain/models"
)

func decodePayload(t *testing.T, raw string) models.WebhookPayload {
	t.Helper()

	var payload models.WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func envelope(value string) string {
	return fmt.Sprintf(`{"object":"whatsapp_business_account","entry":[{"id":"0","changes":[{"value":%s,"field":"messages"}]}]}`, value)
}

func TestClassifyTextMessage(t *testing.T) {
	payload := decodePayload(t, envelope(`{
		"messaging_product": "whatsapp",
		"contacts": [{"profile": {"name": "John Doe"}, "wa_id": "33601020304"}],
		"messages": [{
			"from": "33601020304",
			"id": "wamid.abcd",
			"timestamp": "1664585233",
			"type": "text",
			"text": {"body": "Hello world"}
		}]
	}`))

	result := Classify(payload)

	require.Equal(t, OutcomeMessage, result.Outcome)
	assert.Equal(t, models.ChannelText, result.Channel)
	require.NotNil(t, result.Message)
	assert.Equal(t, "33601020304", result.Message.From)
	assert.Equal(t, "John Doe", result.Message.Name)
	assert.Equal(t, "wamid.abcd", result.Message.ID)
	assert.Equal(t, "1664585233", result.Message.Timestamp)
	assert.Equal(t, models.ChannelText, result.Message.Type)

	data, ok := result.Message.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Hello world", data["text"])
}

func TestClassifyMediaMessages(t *testing.T) {
	tests := []struct {
		name     string
		block    string
		channel  models.Channel
		wantData map[string]any
	}{
		{
			name:    "image by object id",
			block:   `"type": "image", "image": {"id": "media-1", "mime_type": "image/jpeg", "sha256": "abc", "caption": "a cat"}`,
			channel: models.ChannelImage,
			wantData: map[string]any{
				"id": "media-1", "mime_type": "image/jpeg", "sha256": "abc", "caption": "a cat",
			},
		},
		{
			name:    "document keeps filename",
			block:   `"type": "document", "document": {"id": "media-2", "mime_type": "application/pdf", "filename": "report.pdf"}`,
			channel: models.ChannelDocument,
			wantData: map[string]any{
				"id": "media-2", "mime_type": "application/pdf", "filename": "report.pdf",
			},
		},
		{
			name:    "video by link",
			block:   `"type": "video", "video": {"link": "https://example.com/clip.mp4", "mime_type": "video/mp4"}`,
			channel: models.ChannelVideo,
			wantData: map[string]any{
				"link": "https://example.com/clip.mp4", "mime_type": "video/mp4",
			},
		},
		{
			name:    "sticker",
			block:   `"type": "sticker", "sticker": {"id": "media-3", "mime_type": "image/webp"}`,
			channel: models.ChannelSticker,
			wantData: map[string]any{
				"id": "media-3", "mime_type": "image/webp",
			},
		},
		{
			name:    "audio",
			block:   `"type": "audio", "audio": {"id": "media-4", "mime_type": "audio/ogg"}`,
			channel: models.ChannelAudio,
			wantData: map[string]any{
				"id": "media-4", "mime_type": "audio/ogg",
			},
		},
		{
			name:    "location with optional name",
			block:   `"type": "location", "location": {"latitude": 40.7128, "longitude": -74.006, "name": "New York"}`,
			channel: models.ChannelLocation,
			wantData: map[string]any{
				"latitude": 40.7128, "longitude": -74.006, "name": "New York",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := decodePayload(t, envelope(fmt.Sprintf(`{
				"messages": [{"from": "123", "id": "wamid.1", "timestamp": "1664585233", %s}]
			}`, tt.block)))

			result := Classify(payload)

			require.Equal(t, OutcomeMessage, result.Outcome)
			assert.Equal(t, tt.channel, result.Channel)
			assert.Equal(t, tt.channel, result.Message.Type)
			assert.Equal(t, tt.wantData, result.Message.Data)
		})
	}
}

func TestClassifyContactsMessage(t *testing.T) {
	payload := decodePayload(t, envelope(`{
		"messages": [{
			"from": "123",
			"id": "wamid.1",
			"timestamp": "1664585233",
			"type": "contacts",
			"contacts": [{"name": {"formatted_name": "John Doe", "first_name": "John"}, "phones": [{"phone": "0712345678", "type": "HOME"}]}]
		}]
	}`))

	result := Classify(payload)

	require.Equal(t, OutcomeMessage, result.Outcome)
	assert.Equal(t, models.ChannelContacts, result.Channel)

	data, ok := result.Message.Data.([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	card, ok := data[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"formatted_name": "John Doe", "first_name": "John"}, card["name"])
}

func TestClassifyInteractiveReplies(t *testing.T) {
	tests := []struct {
		name    string
		block   string
		channel models.Channel
		want    map[string]any
	}{
		{
			name:    "list reply",
			block:   `{"type": "list_reply", "list_reply": {"id": "r1", "title": "Item 1"}}`,
			channel: models.ChannelListReply,
			want:    map[string]any{"id": "r1", "title": "Item 1"},
		},
		{
			name:    "list reply with description",
			block:   `{"type": "list_reply", "list_reply": {"id": "r2", "title": "Item 2", "description": "Second"}}`,
			channel: models.ChannelListReply,
			want:    map[string]any{"id": "r2", "title": "Item 2", "description": "Second"},
		},
		{
			name:    "button reply",
			block:   `{"type": "button_reply", "button_reply": {"id": "yes", "title": "Yes"}}`,
			channel: models.ChannelButtonReply,
			want:    map[string]any{"id": "yes", "title": "Yes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := decodePayload(t, envelope(fmt.Sprintf(`{
				"messages": [{"from": "123", "id": "wamid.1", "timestamp": "1664585233", "type": "interactive", "interactive": %s}]
			}`, tt.block)))

			result := Classify(payload)

			require.Equal(t, OutcomeMessage, result.Outcome)
			assert.Equal(t, tt.channel, result.Channel)
			assert.Equal(t, tt.channel, result.Message.Type)
			assert.Equal(t, tt.want, result.Message.Data)
		})
	}
}

func TestClassifyContextMerge(t *testing.T) {
	payload := decodePayload(t, envelope(`{
		"messages": [{
			"from": "123",
			"id": "wamid.2",
			"timestamp": "1664585233",
			"type": "text",
			"text": {"body": "replying"},
			"context": {"from": "456", "id": "wamid.original"}
		}]
	}`))

	result := Classify(payload)

	require.Equal(t, OutcomeMessage, result.Outcome)
	data, ok := result.Message.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "replying", data["text"])
	assert.Equal(t, map[string]any{"from": "456", "id": "wamid.original"}, data["context"])
}

func TestClassifyMessageWithoutProfileName(t *testing.T) {
	payload := decodePayload(t, envelope(`{
		"messages": [{"from": "123", "id": "wamid.1", "timestamp": "1664585233", "type": "text", "text": {"body": "hi"}}]
	}`))

	result := Classify(payload)

	require.Equal(t, OutcomeMessage, result.Outcome)
	assert.Empty(t, result.Message.Name)

	// An unset name must not surface as an explicit key either.
	raw, err := json.Marshal(result.Message)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"name"`)
}

func TestClassifyStatuses(t *testing.T) {
	tests := []struct {
		name             string
		block            string
		channel          models.Channel
		wantConversation map[string]any
		wantPricing      map[string]any
		wantErrors       []models.StatusError
	}{
		{
			name:    "read carries no extras",
			block:   `{"id": "wamid.1", "status": "read", "timestamp": "1664585400", "recipient_id": "123"}`,
			channel: models.ChannelRead,
		},
		{
			name: "sent copies conversation and pricing",
			block: `{"id": "wamid.2", "status": "sent", "timestamp": "1664585400", "recipient_id": "123",
				"conversation": {"id": "conv-1", "origin": {"type": "business_initiated"}, "expiration_timestamp": "1664671800"},
				"pricing": {"billable": true, "pricing_model": "CBP", "category": "business_initiated"}}`,
			channel: models.ChannelSent,
			wantConversation: map[string]any{
				"id": "conv-1", "origin": map[string]any{"type": "business_initiated"}, "expiration_timestamp": "1664671800",
			},
			wantPricing: map[string]any{
				"billable": true, "pricing_model": "CBP", "category": "business_initiated",
			},
		},
		{
			name:    "sent without extras keeps them unset",
			block:   `{"id": "wamid.3", "status": "sent", "timestamp": "1664585400", "recipient_id": "123"}`,
			channel: models.ChannelSent,
		},
		{
			name: "delivered copies conversation and pricing",
			block: `{"id": "wamid.4", "status": "delivered", "timestamp": "1664585400", "recipient_id": "123",
				"conversation": {"id": "conv-2", "origin": {"type": "user_initiated"}},
				"pricing": {"billable": false, "pricing_model": "CBP", "category": "user_initiated"}}`,
			channel: models.ChannelDelivered,
			wantConversation: map[string]any{
				"id": "conv-2", "origin": map[string]any{"type": "user_initiated"},
			},
			wantPricing: map[string]any{
				"billable": false, "pricing_model": "CBP", "category": "user_initiated",
			},
		},
		{
			name: "failed copies errors",
			block: `{"id": "wamid.5", "status": "failed", "timestamp": "1664585400", "recipient_id": "123",
				"errors": [{"code": 131047, "title": "Re-engagement message", "href": "https://developers.facebook.com"}]}`,
			channel: models.ChannelFailed,
			wantErrors: []models.StatusError{
				{Code: 131047, Title: "Re-engagement message", Href: "https://developers.facebook.com"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := decodePayload(t, envelope(fmt.Sprintf(`{"statuses": [%s]}`, tt.block)))

			result := Classify(payload)

			require.Equal(t, OutcomeStatus, result.Outcome)
			assert.Equal(t, tt.channel, result.Channel)
			require.NotNil(t, result.Status)
			assert.Equal(t, string(tt.channel), result.Status.Status)
			assert.Equal(t, "123", result.Status.RecipientID)
			assert.Equal(t, tt.wantConversation, result.Status.Conversation)
			assert.Equal(t, tt.wantPricing, result.Status.Pricing)
			assert.Equal(t, tt.wantErrors, result.Status.Errors)
		})
	}
}

func TestStatusEventOmitsAbsentFields(t *testing.T) {
	payload := decodePayload(t, envelope(`{"statuses": [{"id": "wamid.1", "status": "sent", "timestamp": "1664585400", "recipient_id": "123"}]}`))

	result := Classify(payload)
	require.Equal(t, OutcomeStatus, result.Outcome)

	raw, err := json.Marshal(result.Status)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "conversation")
	assert.NotContains(t, string(raw), "pricing")
	assert.NotContains(t, string(raw), "errors")
}

func TestClassifyUnrecognizedDiscriminants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "unknown status value",
			raw:  envelope(`{"statuses": [{"id": "wamid.1", "status": "queued", "timestamp": "1664585400", "recipient_id": "123"}]}`),
		},
		{
			name: "unknown message type",
			raw:  envelope(`{"messages": [{"from": "123", "id": "wamid.1", "timestamp": "1664585233", "type": "reaction"}]}`),
		},
		{
			name: "media type without media block",
			raw:  envelope(`{"messages": [{"from": "123", "id": "wamid.1", "timestamp": "1664585233", "type": "image"}]}`),
		},
		{
			name: "interactive without inner block",
			raw:  envelope(`{"messages": [{"from": "123", "id": "wamid.1", "timestamp": "1664585233", "type": "interactive"}]}`),
		},
		{
			name: "interactive with unknown inner type",
			raw:  envelope(`{"messages": [{"from": "123", "id": "wamid.1", "timestamp": "1664585233", "type": "interactive", "interactive": {"type": "nfm_reply"}}]}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(decodePayload(t, tt.raw))

			assert.Equal(t, OutcomeNone, result.Outcome)
			assert.Nil(t, result.Status)
			assert.Nil(t, result.Message)
		})
	}
}

func TestClassifyRejectedEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty body", raw: `{}`},
		{name: "missing object", raw: `{"entry": [{"changes": [{"value": {"messages": [{"type": "text", "text": {"body": "hi"}}]}}]}]}`},
		{name: "missing entry", raw: `{"object": "whatsapp_business_account"}`},
		{name: "empty changes", raw: `{"object": "whatsapp_business_account", "entry": [{"changes": []}]}`},
		{name: "change without value", raw: `{"object": "whatsapp_business_account", "entry": [{"changes": [{"field": "messages"}]}]}`},
		{name: "value with neither block", raw: envelope(`{"messaging_product": "whatsapp"}`)},
		{name: "empty statuses array", raw: envelope(`{"statuses": []}`)},
		{name: "empty messages array", raw: envelope(`{"messages": []}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(decodePayload(t, tt.raw))

			assert.Equal(t, OutcomeRejected, result.Outcome)
			assert.Nil(t, result.Status)
			assert.Nil(t, result.Message)
		})
	}
}

func TestClassifyOnlyFirstElementIsProcessed(t *testing.T) {
	payload := decodePayload(t, envelope(`{
		"messages": [
			{"from": "123", "id": "wamid.first", "timestamp": "1", "type": "text", "text": {"body": "first"}},
			{"from": "456", "id": "wamid.second", "timestamp": "2", "type": "text", "text": {"body": "second"}}
		]
	}`))

	result := Classify(payload)

	require.Equal(t, OutcomeMessage, result.Outcome)
	assert.Equal(t, "wamid.first", result.Message.ID)
}

func TestClassifyIsPure(t *testing.T) {
	payload := decodePayload(t, envelope(`{
		"contacts": [{"profile": {"name": "John Doe"}, "wa_id": "123"}],
		"messages": [{
			"from": "123", "id": "wamid.1", "timestamp": "1664585233", "type": "text",
			"text": {"body": "hi"}, "context": {"from": "456", "id": "wamid.0"}
		}]
	}`))

	first := Classify(payload)
	second := Classify(payload)

	require.Equal(t, OutcomeMessage, first.Outcome)
	assert.Equal(t, first.Channel, second.Channel)
	assert.Equal(t, first.Message, second.Message)
}
