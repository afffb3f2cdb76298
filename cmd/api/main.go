package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nikh123/RealEstateHub/internal/config"
	"github.com/nikh123/RealEstateHub/internal/db"
	"github.com/nikh123/RealEstateHub/internal/logging"
	"github.com/nikh123/RealEstateHub/internal/notify"
	"github.com/nikh123/RealEstateHub/internal/repository"
	"github.com/nikh123/RealEstateHub/internal/seed"
	"github.com/nikh123/RealEstateHub/internal/server"
)

// Set at build time with -ldflags "-X main.gitSHA=... -X main.buildTime=...".
var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: os.Stderr})
	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}

	dispatcher := notify.NewDispatcher(buildSender(cfg.Mail, log), log, notify.DispatcherOptions{
		Async:     cfg.Mail.Async,
		Workers:   cfg.Mail.Workers,
		QueueSize: cfg.Mail.QueueSize,
		Timeout:   cfg.Mail.Timeout,
	})
	dispatcher.Start()

	srv := server.New(server.Deps{
		Store:             store,
		Notifier:          dispatcher,
		FallbackRecipient: cfg.Mail.FallbackRecipient,
		NotifyAsync:       cfg.Mail.Async,
		Policy:            server.PolicyFromConfig(cfg.Policy),
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		Log:               log,
		GitSHA:            gitSHA,
		BuildTime:         buildTime,
	})

	if cfg.SeedDemoData {
		ok, err := seed.ShouldSeed(ctx, store.Buyers, false)
		if err != nil {
			return err
		}
		if ok {
			if _, err := seed.Demo(ctx, seed.Services{
				Sellers:    srv.Services.Sellers,
				Buyers:     srv.Services.Buyers,
				Properties: srv.Services.Properties,
			}, log); err != nil {
				return err
			}
		}
	}

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", addr, "store", cfg.StoreDriver, "mail", cfg.Mail.Driver, "git_sha", gitSHA)
		errCh <- srv.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "err", err)
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Warn("mail dispatcher shutdown", "err", err)
	}
	return nil
}

func openStore(cfg *config.Config, log *slog.Logger) (*repository.Store, error) {
	if cfg.StoreDriver != config.StoreMySQL {
		log.Info("using in-memory store")
		return repository.NewMemoryStore(), nil
	}
	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if err := repository.Migrate(conn); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("connected to mysql", "db", cfg.DB.Name)
	return repository.NewGormStore(conn), nil
}

func buildSender(cfg config.Mail, log *slog.Logger) notify.Sender {
	var sender notify.Sender
	switch strings.ToLower(cfg.Driver) {
	case config.MailBrevo:
		sender = notify.NewBrevoSender(notify.BrevoConfig{
			APIKey:      cfg.BrevoAPIKey,
			URL:         cfg.BrevoAPIURL,
			SenderName:  cfg.SenderName,
			SenderEmail: cfg.SenderEmail,
		}, &http.Client{Timeout: cfg.Timeout})
	case config.MailSMTP:
		sender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUsername,
			Password:    cfg.SMTPPassword,
			SenderName:  cfg.SenderName,
			SenderEmail: cfg.SenderEmail,
		})
	default:
		return notify.NewLogSender(log)
	}
	return notify.WithBreaker(sender, cfg.Driver, cfg.BreakerFailures, cfg.BreakerTimeout, log)
}
