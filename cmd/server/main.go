package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"fieldsync/internal/app/server/api"
	"fieldsync/internal/app/server/config"
	"fieldsync/internal/app/server/notify"
	"fieldsync/internal/app/server/realtime"
	"fieldsync/internal/domain/emergency"
	"fieldsync/internal/infrastructure/storage/postgres"
	"fieldsync/internal/utils/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	storage, err := postgres.New(cfg)
	if err != nil {
		log.Error("failed to init storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(log)
	hub.Start()
	defer hub.Stop()

	pub := emergency.Publisher(hub)
	if cfg.Push.VAPIDPrivateKey != "" {
		notifier := notify.New(cfg.Push.Workers, postgres.NewPushRepository(storage, log), &webpush.Options{
			Subscriber:      cfg.Push.VAPIDSubscriber,
			VAPIDPublicKey:  cfg.Push.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.Push.VAPIDPrivateKey,
			TTL:             300,
		}, log)
		notifier.Start(ctx)
		pub = emergency.MultiPublisher{hub, notifier}
	} else {
		log.Warn("VAPID keys not configured, web push disabled")
	}

	mux := api.New(storage, hub, pub, log)

	server := &http.Server{
		Addr:    cfg.Server.RunAddress,
		Handler: mux,
	}

	go func() {
		log.Info("server listening", "address", cfg.Server.RunAddress, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
}
