package models

// Channel names an event-bus topic. The set is closed: the generic message
// and status channels plus one channel per message type and per status kind.
type Channel string

const (
	ChannelMessage Channel = "message"
	ChannelStatus  Channel = "status"

	ChannelText        Channel = "text"
	ChannelImage       Channel = "image"
	ChannelDocument    Channel = "document"
	ChannelAudio       Channel = "audio"
	ChannelVideo       Channel = "video"
	ChannelSticker     Channel = "sticker"
	ChannelLocation    Channel = "location"
	ChannelContacts    Channel = "contacts"
	ChannelButtonReply Channel = "button_reply"
	ChannelListReply   Channel = "list_reply"

	ChannelRead      Channel = "read"
	ChannelSent      Channel = "sent"
	ChannelDelivered Channel = "delivered"
	ChannelFailed    Channel = "failed"
)

// StatusEvent is the canonical, flattened form of a delivery receipt.
// Optional fields are nil when the provider omitted them so they marshal as
// absent, never as null.
type StatusEvent struct {
	ID           string         `json:"id"`
	Status       string         `json:"status"`
	Timestamp    string         `json:"timestamp"`
	RecipientID  string         `json:"recipient_id"`
	Errors       []StatusError  `json:"errors,omitempty"`
	Conversation map[string]any `json:"conversation,omitempty"`
	Pricing      map[string]any `json:"pricing,omitempty"`
}

// MessageEvent is the canonical form of an inbound user message. Type holds
// the emission channel, which for interactive messages is the inner reply
// kind rather than "interactive". Data carries the type-specific payload:
// a map for every type except contacts, where the provider sends an array.
type MessageEvent struct {
	From      string  `json:"from"`
	Name      string  `json:"name,omitempty"`
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Type      Channel `json:"type"`
	Data      any     `json:"data"`
}
