package models

import "encoding/json"

// WebhookPayload mirrors the structure sent by Meta's WhatsApp Cloud API webhook callbacks.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry represents one entry payload within the webhook body.
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange captures the actual notification contents. Value is a pointer
// so a change carrying no value at all can be told apart from an empty one.
type WebhookChange struct {
	Value *WebhookValue `json:"value,omitempty"`
	Field string        `json:"field"`
}

// WebhookValue contains message metadata, contacts and message or status
// events sent by the provider.
type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         Metadata         `json:"metadata"`
	Contacts         []WebhookContact `json:"contacts,omitempty"`
	Messages         []InboundMessage `json:"messages,omitempty"`
	Statuses         []InboundStatus  `json:"statuses,omitempty"`
}

// Metadata contains WhatsApp phone identifiers for the business account.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// WebhookContact represents the WhatsApp user initiating the conversation.
type WebhookContact struct {
	Profile ContactProfile `json:"profile"`
	WaID    string         `json:"wa_id"`
}

// ContactProfile contains the human-friendly contact name.
type ContactProfile struct {
	Name string `json:"name"`
}

// InboundMessage aggregates all inbound WhatsApp message shapes. The payload
// blocks the pipeline never looks inside (media, location, contacts, context)
// are kept as raw JSON so they reach subscribers exactly as the provider sent
// them, with absent fields staying absent.
type InboundMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`

	Text        *TextContent        `json:"text,omitempty"`
	Interactive *InteractiveContent `json:"interactive,omitempty"`
	Image       json.RawMessage     `json:"image,omitempty"`
	Document    json.RawMessage     `json:"document,omitempty"`
	Audio       json.RawMessage     `json:"audio,omitempty"`
	Video       json.RawMessage     `json:"video,omitempty"`
	Sticker     json.RawMessage     `json:"sticker,omitempty"`
	Location    json.RawMessage     `json:"location,omitempty"`
	Contacts    json.RawMessage     `json:"contacts,omitempty"`

	// Context is present when the message is a reply to a prior message.
	Context json.RawMessage `json:"context,omitempty"`
}

// TextContent contains a text message body.
type TextContent struct {
	Body string `json:"body"`
}

// InteractiveContent represents button/list replies. The inner reply objects
// stay raw; they are forwarded verbatim as the event data.
type InteractiveContent struct {
	Type        string          `json:"type"`
	ButtonReply json.RawMessage `json:"button_reply,omitempty"`
	ListReply   json.RawMessage `json:"list_reply,omitempty"`
}

// InboundStatus represents a delivery/read receipt coming from WhatsApp.
// Conversation and pricing appear only on sent/delivered receipts, errors
// only on failed ones.
type InboundStatus struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Timestamp    string          `json:"timestamp"`
	RecipientID  string          `json:"recipient_id"`
	Conversation json.RawMessage `json:"conversation,omitempty"`
	Pricing      json.RawMessage `json:"pricing,omitempty"`
	Errors       []StatusError   `json:"errors,omitempty"`
}

// StatusError exposes errors attached to a failed delivery receipt.
type StatusError struct {
	Code    int    `json:"code"`
	Title   string `json:"title"`
	Href    string `json:"href,omitempty"`
	Message string `json:"message,omitempty"`
}
