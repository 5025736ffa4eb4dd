// Package whatsapp wraps the Meta WhatsApp Cloud API send surface behind
// friendly method signatures. Each method builds one payload and performs one
// HTTP POST against the /{phone-number-id}/messages endpoint.
package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mbaye/wacloud/internal/config"
)

// Client exposes the WhatsApp Cloud API operations used by the application.
type Client interface {
	SendText(ctx context.Context, to, body string, opts *TextOptions) (*SendResult, error)
	SendImage(ctx context.Context, to, urlOrID string, opts *MediaOptions) (*SendResult, error)
	SendDocument(ctx context.Context, to, urlOrID string, opts *MediaOptions) (*SendResult, error)
	SendAudio(ctx context.Context, to, urlOrID string) (*SendResult, error)
	SendVideo(ctx context.Context, to, urlOrID string, opts *MediaOptions) (*SendResult, error)
	SendSticker(ctx context.Context, to, urlOrID string) (*SendResult, error)
	SendLocation(ctx context.Context, to string, latitude, longitude float64, opts *LocationOptions) (*SendResult, error)
	SendContacts(ctx context.Context, to string, contacts []Contact) (*SendResult, error)
	SendTemplate(ctx context.Context, to, name, languageCode string, components []TemplateComponent) (*SendResult, error)
	SendReplyButtons(ctx context.Context, to, bodyText string, buttons []ReplyButton, opts *InteractiveOptions) (*SendResult, error)
	SendList(ctx context.Context, to, buttonName, bodyText string, sections []ListSection, opts *InteractiveOptions) (*SendResult, error)
	MarkRead(ctx context.Context, messageID string) (*StatusResult, error)
}

// SendResult mirrors the successful response from Meta, flattened for callers.
// Status events later arriving on the webhook carry the same MessageID, which
// is how callers correlate receipts to sends.
type SendResult struct {
	MessageID   string `json:"message_id"`
	PhoneNumber string `json:"phone_number"`
	WhatsAppID  string `json:"whatsapp_id"`
}

// StatusResult is the outcome of a status update such as a read receipt.
type StatusResult struct {
	Success bool `json:"success"`
}

// APIError is the single error shape for provider-rejected requests. It
// carries the parsed Graph error body when one was returned; transport-level
// failures are wrapped standard errors instead.
type APIError struct {
	StatusCode int
	Code       int
	Subcode    int
	Type       string
	Message    string
	FBTraceID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api error: code=%d, message=%s", e.Code, e.Message)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient    *resty.Client
	phoneNumberID string
}

var _ Client = (*APIClient)(nil)

// NewClient builds a WhatsApp API client using the provided configuration values.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AccessToken)).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient:    restyClient,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

// payloadBase returns the fields every outbound message shares.
func (c *APIClient) payloadBase(to, messageType string) map[string]any {
	return map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              messageType,
	}
}

func (c *APIClient) SendText(ctx context.Context, to, body string, opts *TextOptions) (*SendResult, error) {
	text := map[string]any{"body": body}
	if opts != nil && opts.PreviewURL {
		text["preview_url"] = true
	}

	payload := c.payloadBase(to, "text")
	payload["text"] = text
	return c.send(ctx, payload)
}

func (c *APIClient) SendImage(ctx context.Context, to, urlOrID string, opts *MediaOptions) (*SendResult, error) {
	payload := c.payloadBase(to, "image")
	payload["image"] = mediaPayload(urlOrID, opts)
	return c.send(ctx, payload)
}

func (c *APIClient) SendDocument(ctx context.Context, to, urlOrID string, opts *MediaOptions) (*SendResult, error) {
	payload := c.payloadBase(to, "document")
	payload["document"] = mediaPayload(urlOrID, opts)
	return c.send(ctx, payload)
}

func (c *APIClient) SendAudio(ctx context.Context, to, urlOrID string) (*SendResult, error) {
	payload := c.payloadBase(to, "audio")
	payload["audio"] = mediaPayload(urlOrID, nil)
	return c.send(ctx, payload)
}

func (c *APIClient) SendVideo(ctx context.Context, to, urlOrID string, opts *MediaOptions) (*SendResult, error) {
	payload := c.payloadBase(to, "video")
	payload["video"] = mediaPayload(urlOrID, opts)
	return c.send(ctx, payload)
}

func (c *APIClient) SendSticker(ctx context.Context, to, urlOrID string) (*SendResult, error) {
	payload := c.payloadBase(to, "sticker")
	payload["sticker"] = mediaPayload(urlOrID, nil)
	return c.send(ctx, payload)
}

func (c *APIClient) SendLocation(ctx context.Context, to string, latitude, longitude float64, opts *LocationOptions) (*SendResult, error) {
	location := map[string]any{
		"latitude":  latitude,
		"longitude": longitude,
	}
	if opts != nil {
		if opts.Name != "" {
			location["name"] = opts.Name
		}
		if opts.Address != "" {
			location["address"] = opts.Address
		}
	}

	payload := c.payloadBase(to, "location")
	payload["location"] = location
	return c.send(ctx, payload)
}

func (c *APIClient) SendContacts(ctx context.Context, to string, contacts []Contact) (*SendResult, error) {
	payload := c.payloadBase(to, "contacts")
	payload["contacts"] = contacts
	return c.send(ctx, payload)
}

func (c *APIClient) SendTemplate(ctx context.Context, to, name, languageCode string, components []TemplateComponent) (*SendResult, error) {
	template := map[string]any{
		"name":     name,
		"language": map[string]any{"code": languageCode},
	}
	if len(components) > 0 {
		template["components"] = components
	}

	payload := c.payloadBase(to, "template")
	payload["template"] = template
	return c.send(ctx, payload)
}

func (c *APIClient) SendReplyButtons(ctx context.Context, to, bodyText string, buttons []ReplyButton, opts *InteractiveOptions) (*SendResult, error) {
	actionButtons := make([]map[string]any, 0, len(buttons))
	for _, b := range buttons {
		actionButtons = append(actionButtons, map[string]any{
			"type": "reply",
			"reply": map[string]any{
				"id":    b.ID,
				"title": b.Title,
			},
		})
	}

	interactive := map[string]any{
		"type":   "button",
		"body":   map[string]any{"text": bodyText},
		"action": map[string]any{"buttons": actionButtons},
	}
	applyInteractiveOptions(interactive, opts)

	payload := c.payloadBase(to, "interactive")
	payload["interactive"] = interactive
	return c.send(ctx, payload)
}

func (c *APIClient) SendList(ctx context.Context, to, buttonName, bodyText string, sections []ListSection, opts *InteractiveOptions) (*SendResult, error) {
	actionSections := make([]map[string]any, 0, len(sections))
	for _, s := range sections {
		actionSections = append(actionSections, map[string]any{
			"title": s.Title,
			"rows":  s.Rows,
		})
	}

	interactive := map[string]any{
		"type": "list",
		"body": map[string]any{"text": bodyText},
		"action": map[string]any{
			"button":   buttonName,
			"sections": actionSections,
		},
	}
	applyInteractiveOptions(interactive, opts)

	payload := c.payloadBase(to, "interactive")
	payload["interactive"] = interactive
	return c.send(ctx, payload)
}

// MarkRead flags an inbound message as read, which shows the sender the blue
// double tick.
func (c *APIClient) MarkRead(ctx context.Context, messageID string) (*StatusResult, error) {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	}

	result := new(graphStatusResponse)
	if err := c.post(ctx, payload, result); err != nil {
		return nil, err
	}

	return &StatusResult{Success: result.Success}, nil
}

// graphSendResponse mirrors the raw Graph API send response.
type graphSendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Contacts []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
}

type graphStatusResponse struct {
	Success bool `json:"success"`
}

// graphErrorResponse mirrors a WhatsApp Cloud API error payload.
type graphErrorResponse struct {
	Error struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
		FBTraceID    string `json:"fbtrace_id"`
	} `json:"error"`
}

func (c *APIClient) send(ctx context.Context, payload map[string]any) (*SendResult, error) {
	result := new(graphSendResponse)
	if err := c.post(ctx, payload, result); err != nil {
		return nil, err
	}

	out := new(SendResult)
	if len(result.Messages) > 0 {
		out.MessageID = result.Messages[0].ID
	}
	if len(result.Contacts) > 0 {
		out.PhoneNumber = result.Contacts[0].Input
		out.WhatsAppID = result.Contacts[0].WaID
	}
	return out, nil
}

func (c *APIClient) post(ctx context.Context, payload map[string]any, result any) error {
	apiErr := new(graphErrorResponse)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post(fmt.Sprintf("%s/messages", c.phoneNumberID))
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Code:       apiErr.Error.Code,
			Subcode:    apiErr.Error.ErrorSubcode,
			Type:       apiErr.Error.Type,
			Message:    apiErr.Error.Message,
			FBTraceID:  apiErr.Error.FBTraceID,
		}
	}

	return nil
}

// mediaPayload addresses media either by hosted URL (link) or by a previously
// uploaded object id.
func mediaPayload(urlOrID string, opts *MediaOptions) map[string]any {
	media := map[string]any{}
	if isURL(urlOrID) {
		media["link"] = urlOrID
	} else {
		media["id"] = urlOrID
	}
	if opts != nil {
		if opts.Caption != "" {
			media["caption"] = opts.Caption
		}
		if opts.Filename != "" {
			media["filename"] = opts.Filename
		}
	}
	return media
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func applyInteractiveOptions(interactive map[string]any, opts *InteractiveOptions) {
	if opts == nil {
		return
	}
	if opts.FooterText != "" {
		interactive["footer"] = map[string]any{"text": opts.FooterText}
	}
	if opts.Header != nil {
		interactive["header"] = opts.Header
	}
}
