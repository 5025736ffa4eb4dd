package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbaye/wacloud/internal/bus"
	"github.com/mbaye/wacloud/internal/domain/models"
	"github.com/mbaye/wacloud/internal/webhook"
	"github.com/mbaye/wacloud/pkg/clients/whatsapp"
)

// TextSender is the slice of the WhatsApp client the operator send route needs.
type TextSender interface {
	SendText(ctx context.Context, to, body string, opts *whatsapp.TextOptions) (*whatsapp.SendResult, error)
}

// WebhookHandler handles inbound and outbound WhatsApp HTTP events.
type WebhookHandler struct {
	bus         *bus.Bus
	sender      TextSender
	verifyToken string
	logger      *zap.Logger
}

// NewWebhookHandler constructs the HTTP handler adapter. The verify token may
// be empty; the router then leaves the verification route unregistered.
func NewWebhookHandler(eventBus *bus.Bus, sender TextSender, verifyToken string, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		bus:         eventBus,
		sender:      sender,
		verifyToken: verifyToken,
		logger:      logger,
	}
}

// VerifyEnabled reports whether a verify token was configured for this handler.
func (h *WebhookHandler) VerifyEnabled() bool {
	return h.verifyToken != ""
}

// Verify responds to Meta's webhook verification challenge.
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" || challenge == "" {
		c.String(http.StatusForbidden, "verification failed")
		return
	}

	if mode != "subscribe" || token != h.verifyToken {
		h.logger.Warn("webhook verification failed", zap.String("mode", mode))
		c.String(http.StatusForbidden, "verification failed")
		return
	}

	c.String(http.StatusOK, challenge)
}

// Receive ingests webhook POST callbacks from Meta, classifies them and
// republishes the canonical event on the generic channel plus the specific
// one. Every publish completes before the response is written.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid webhook payload", zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}

	result := webhook.Classify(payload)
	switch result.Outcome {
	case webhook.OutcomeRejected:
		h.logger.Warn("malformed webhook envelope")
		c.Status(http.StatusBadRequest)
	case webhook.OutcomeNone:
		// The provider must see success for payloads we choose to ignore,
		// otherwise it retries and eventually disables the webhook.
		c.Status(http.StatusOK)
	case webhook.OutcomeStatus:
		h.bus.Publish(models.ChannelStatus, result.Status)
		h.bus.Publish(result.Channel, result.Status)
		c.Status(http.StatusOK)
	case webhook.OutcomeMessage:
		h.bus.Publish(models.ChannelMessage, result.Message)
		h.bus.Publish(result.Channel, result.Message)
		c.Status(http.StatusOK)
	}
}

// SendMessage allows sending outbound automation or manual responses.
func (h *WebhookHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid outbound payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if h.sender == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sender not configured"})
		return
	}

	opts := &whatsapp.TextOptions{PreviewURL: req.PreviewURL}
	if _, err := h.sender.SendText(c.Request.Context(), req.To, req.Message, opts); err != nil {
		h.logger.Error("failed sending outbound", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}

	c.Status(http.StatusAccepted)
}
