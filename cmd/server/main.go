package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mbaye/wacloud/internal/bus"
	"github.com/mbaye/wacloud/internal/config"
	"github.com/mbaye/wacloud/internal/domain/models"
	"github.com/mbaye/wacloud/internal/scheduler"
	"github.com/mbaye/wacloud/internal/server/handlers"
	"github.com/mbaye/wacloud/internal/server/router"
	whatsappclient "github.com/mbaye/wacloud/pkg/clients/whatsapp"
	"github.com/mbaye/wacloud/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	whatsClient := whatsappclient.NewClient(cfg.WhatsApp)

	eventBus := bus.New(baseLogger.Named("bus"))
	registerSubscribers(eventBus, whatsClient, cfg.Webhook, baseLogger.Named("subscribers"))

	webhookHandler := handlers.NewWebhookHandler(eventBus, whatsClient, cfg.Webhook.VerifyToken, baseLogger.Named("handlers.whatsapp"))
	engine := router.New(webhookHandler, cfg.Webhook.Path, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Broadcast, whatsClient, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// registerSubscribers attaches the default event-bus consumers: structured
// logging of every inbound message and receipt, plus the optional read-receipt
// responder. Subscriptions happen once at startup, before any request is
// served.
func registerSubscribers(eventBus *bus.Bus, client whatsappclient.Client, cfg config.WebhookConfig, log *zap.Logger) {
	eventBus.Subscribe(models.ChannelMessage, func(event any) {
		msg, ok := event.(*models.MessageEvent)
		if !ok {
			return
		}

		log.Info("inbound message",
			zap.String("from", msg.From),
			zap.String("name", msg.Name),
			zap.String("type", string(msg.Type)),
			zap.String("message_id", msg.ID))

		if cfg.AutoMarkRead {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if _, err := client.MarkRead(ctx, msg.ID); err != nil {
				log.Warn("failed to mark message read", zap.Error(err), zap.String("message_id", msg.ID))
			}
		}
	})

	eventBus.Subscribe(models.ChannelStatus, func(event any) {
		status, ok := event.(*models.StatusEvent)
		if !ok {
			return
		}

		log.Info("delivery status",
			zap.String("message_id", status.ID),
			zap.String("status", status.Status),
			zap.String("recipient_id", status.RecipientID))
	})
}
