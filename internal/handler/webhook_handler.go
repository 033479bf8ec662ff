package handler

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nexatel/portal_api/internal/service"
	"github.com/nexatel/portal_api/internal/utils"
)

// WebhookHandler receives provider status callbacks. The provider signs
// the raw body with HMAC-SHA256 in the X-Signature header.
type WebhookHandler struct {
	webhooks *service.WebhookService
	secret   string
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(webhooks *service.WebhookService, secret string) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks, secret: secret}
}

// HandleStatusCallback handles POST /webhook/provitel
func (h *WebhookHandler) HandleStatusCallback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Failed to read request body")
		return
	}

	signature := c.GetHeader("X-Signature")
	if signature == "" || !utils.VerifySignature(body, signature, h.secret) {
		log.Warn().Str("ip", c.ClientIP()).Msg("webhook rejected: bad signature")
		utils.Error(c, 401, "INVALID_SIGNATURE", "Signature verification failed")
		return
	}

	var cb service.StatusCallback
	if err := json.Unmarshal(body, &cb); err != nil || cb.Ref == "" || cb.Status == "" {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid callback payload")
		return
	}

	if err := h.webhooks.HandleStatusCallback(c.Request.Context(), &cb); err != nil {
		handleServiceError(c, err)
		return
	}
	utils.Success(c, 200, "Callback processed", nil)
}
