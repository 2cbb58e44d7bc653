// Package http is the webhook ingress: it decodes inbound Telegram
// updates, feeds them to the bot handler and always acknowledges the
// delivery so the platform never retries.
package http

import (
	"net/http"

	"adrewards-bot-backend/internal/bot"
	"adrewards-bot-backend/internal/common/config"
	"adrewards-bot-backend/internal/common/logger"
	"adrewards-bot-backend/internal/common/middleware"
	"adrewards-bot-backend/internal/dedup"
	"adrewards-bot-backend/internal/platform/telegram"

	"github.com/gin-gonic/gin"
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type server struct {
	cfg     *config.Config
	api     telegram.API
	handler *bot.Handler
	deduper dedup.Deduper
}

// NewRouter wires the three ingress endpoints onto a gin engine.
func NewRouter(cfg *config.Config, api telegram.API, handler *bot.Handler, deduper dedup.Deduper) *gin.Engine {
	s := &server{cfg: cfg, api: api, handler: handler, deduper: deduper}

	r := gin.New()
	r.Use(middleware.WithRequestID(), middleware.Logger(), gin.Recovery())

	r.GET("/", s.live)
	r.GET("/set_webhook", s.setWebhook)
	r.POST("/webhook", s.webhook)

	return r
}

func (s *server) live(c *gin.Context) {
	c.String(http.StatusOK, "🤖 Ad rewards bot is running ✅")
}

func (s *server) setWebhook(c *gin.Context) {
	url := s.cfg.Server.PublicBaseURL + "/webhook"

	ok, err := s.api.SetWebhook(c.Request.Context(), &tgbot.SetWebhookParams{URL: url})
	if err != nil || !ok {
		logger.Error().Err(err).Str("url", url).Msg("Failed to set webhook")
		c.String(http.StatusInternalServerError, "failed to set webhook")
		return
	}

	logger.Info().Str("url", url).Msg("Webhook registered")
	c.String(http.StatusOK, "webhook set to "+url)
}

// webhook always responds 200 with a plain ack body. Telegram
// redelivers any update that is not acknowledged, so handler failures
// are logged but never surfaced as an HTTP error.
func (s *server) webhook(c *gin.Context) {
	var upd models.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		logger.Warn().Err(err).Str("request_id", middleware.RequestID(c)).Msg("Malformed update payload")
		c.String(http.StatusOK, "error")
		return
	}

	seen, err := s.deduper.Seen(c.Request.Context(), upd.ID)
	if err != nil {
		// Best effort: a dedup outage must not drop updates.
		logger.Warn().Err(err).Int64("update_id", upd.ID).Msg("Dedup check failed")
	} else if seen {
		logger.Debug().Int64("update_id", upd.ID).Msg("Duplicate update skipped")
		c.String(http.StatusOK, "ok")
		return
	}

	if err := s.handler.HandleUpdate(c.Request.Context(), &upd); err != nil {
		logger.Error().Err(err).
			Int64("update_id", upd.ID).
			Str("request_id", middleware.RequestID(c)).
			Msg("Update handler failed")
	}

	c.String(http.StatusOK, "ok")
}
