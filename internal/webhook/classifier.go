// Package webhook turns raw provider callback payloads into canonical events.
//
// Classification is a pure function: it performs no I/O and the same payload
// always yields structurally equal results, so the HTTP layer can map each
// outcome straight to a response code and a bus publish.
package webhook

import (
	"encoding/json"

	"github.com/mbaye/wacloud/internal/domain/models"
)

// Outcome tags the result of classifying one webhook payload.
type Outcome int

const (
	// OutcomeRejected means the envelope invariant failed; the caller must
	// answer with a client error and publish nothing.
	OutcomeRejected Outcome = iota
	// OutcomeNone means the envelope was valid but the inner block carried an
	// unrecognized or unusable discriminant; the caller must still answer
	// success so the provider does not retry or disable the webhook.
	OutcomeNone
	// OutcomeStatus carries a delivery-receipt event.
	OutcomeStatus
	// OutcomeMessage carries an inbound user-message event.
	OutcomeMessage
)

// Classification is the closed result type of Classify. Exactly one of
// Status and Message is set, and only for the matching outcome.
type Classification struct {
	Outcome Outcome
	Channel models.Channel
	Status  *models.StatusEvent
	Message *models.MessageEvent
}

// Classify validates the envelope and extracts at most one canonical event
// from it. Only the first entry, change, status and message are consulted;
// batched payloads lose everything after index zero, matching the provider
// integration this pipeline replaces.
func Classify(payload models.WebhookPayload) Classification {
	value := firstValue(payload)
	if payload.Object == "" || value == nil {
		return Classification{Outcome: OutcomeRejected}
	}

	if len(value.Statuses) > 0 {
		return classifyStatus(value.Statuses[0])
	}

	if len(value.Messages) > 0 {
		return classifyMessage(value)
	}

	// A value with neither a status nor a message is malformed.
	return Classification{Outcome: OutcomeRejected}
}

func firstValue(payload models.WebhookPayload) *models.WebhookValue {
	if len(payload.Entry) == 0 {
		return nil
	}
	changes := payload.Entry[0].Changes
	if len(changes) == 0 {
		return nil
	}
	return changes[0].Value
}

func classifyStatus(status models.InboundStatus) Classification {
	event := &models.StatusEvent{
		ID:          status.ID,
		Status:      status.Status,
		Timestamp:   status.Timestamp,
		RecipientID: status.RecipientID,
	}

	var channel models.Channel
	switch status.Status {
	case "read":
		channel = models.ChannelRead
	case "sent":
		channel = models.ChannelSent
		event.Conversation = decodeObject(status.Conversation)
		event.Pricing = decodeObject(status.Pricing)
	case "delivered":
		channel = models.ChannelDelivered
		event.Conversation = decodeObject(status.Conversation)
		event.Pricing = decodeObject(status.Pricing)
	case "failed":
		channel = models.ChannelFailed
		if len(status.Errors) > 0 {
			event.Errors = status.Errors
		}
	default:
		return Classification{Outcome: OutcomeNone}
	}

	return Classification{Outcome: OutcomeStatus, Channel: channel, Status: event}
}

func classifyMessage(value *models.WebhookValue) Classification {
	msg := value.Messages[0]

	var channel models.Channel
	var data any

	switch msg.Type {
	case "text":
		channel = models.ChannelText
		body := ""
		if msg.Text != nil {
			body = msg.Text.Body
		}
		data = map[string]any{"text": body}
	case "image", "document", "audio", "video", "sticker", "location":
		channel = models.Channel(msg.Type)
		payload := decodeObject(mediaPayload(msg))
		if payload == nil {
			return Classification{Outcome: OutcomeNone}
		}
		data = payload
	case "contacts":
		channel = models.ChannelContacts
		payload := decodeArray(msg.Contacts)
		if payload == nil {
			return Classification{Outcome: OutcomeNone}
		}
		data = payload
	case "interactive":
		if msg.Interactive == nil {
			return Classification{Outcome: OutcomeNone}
		}
		var reply map[string]any
		switch msg.Interactive.Type {
		case "button_reply":
			channel = models.ChannelButtonReply
			reply = decodeObject(msg.Interactive.ButtonReply)
		case "list_reply":
			channel = models.ChannelListReply
			reply = decodeObject(msg.Interactive.ListReply)
		default:
			return Classification{Outcome: OutcomeNone}
		}
		if reply == nil {
			reply = map[string]any{}
		}
		data = reply
	default:
		return Classification{Outcome: OutcomeNone}
	}

	// A reply reference rides along under its own key. Contacts data is an
	// array, which has no place to hang the context on; it is dropped there.
	if context := decodeObject(msg.Context); context != nil {
		if m, ok := data.(map[string]any); ok {
			m["context"] = context
		}
	}

	event := &models.MessageEvent{
		From:      msg.From,
		Name:      senderName(value),
		ID:        msg.ID,
		Timestamp: msg.Timestamp,
		Type:      channel,
		Data:      data,
	}

	return Classification{Outcome: OutcomeMessage, Channel: channel, Message: event}
}

func senderName(value *models.WebhookValue) string {
	if len(value.Contacts) == 0 {
		return ""
	}
	return value.Contacts[0].Profile.Name
}

// decodeObject unmarshals a raw JSON object, returning nil for absent, null
// or non-object input so optional fields never surface as empty placeholders.
func decodeObject(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func decodeArray(raw json.RawMessage) []any {
	if len(raw) == 0 {
		return nil
	}
	var a []any
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil
	}
	return a
}

func mediaPayload(msg models.InboundMessage) json.RawMessage {
	switch msg.Type {
	case "image":
		return msg.Image
	case "document":
		return msg.Document
	case "audio":
		return msg.Audio
	case "video":
		return msg.Video
	case "sticker":
		return msg.Sticker
	case "location":
		return msg.Location
	}
	return nil
}
