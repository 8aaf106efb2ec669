package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bahayahay/realty/internal/auth"
	"github.com/bahayahay/realty/internal/cache"
	"github.com/bahayahay/realty/internal/config"
	"github.com/bahayahay/realty/internal/inquiry"
	"github.com/bahayahay/realty/internal/listing"
	"github.com/bahayahay/realty/internal/quote"
	"github.com/bahayahay/realty/internal/server"
	"github.com/bahayahay/realty/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var serverConfigPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the estimate, listings, inquiry and admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if err := conf.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			srvCfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}

			loggingConfig := conf.Logging
			if srvCfg.Logging != (config.LoggingConfig{}) {
				loggingConfig = srvCfg.Logging
			}
			logger, err := initializeLogger(loggingConfig, opts.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			for _, warning := range conf.ValidateConfiguration() {
				logger.Warn("Configuration warning: "+warning, zap.String("op", "main.serve"))
			}

			return serve(cmd.Context(), conf, srvCfg, logger)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	return cmd
}

func serve(ctx context.Context, conf *config.Configuration, srvCfg *server.Config, logger *zap.Logger) error {
	const op = "main.serve"
	if ctx == nil {
		ctx = context.Background()
	}

	store, closeStore, err := openStore(ctx, conf, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	handler := server.NewHandler(server.Dependencies{
		Logger:    logger,
		Config:    srvCfg,
		Version:   version,
		Store:     store,
		Quotes:    quote.NewService(store, conf.Rates, logger),
		Inquiries: inquiry.NewService(newMailer(conf.Mail, logger), store, recipients(conf.Mail), logger),
		Auth:      newAuth(conf.Auth, logger),
	})
	defer handler.Close()

	httpServer := &http.Server{
		Addr:         srvCfg.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("op", op), zap.String("address", srvCfg.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", zap.String("op", op), zap.String("signal", sig.String()))
	case <-ctx.Done():
		logger.Info("shutting down", zap.String("op", op), zap.Error(ctx.Err()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srvCfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server exited", zap.String("op", op))
	return nil
}

// openStore builds the listing store the config asks for. Postgres reads go
// through the configured cache.
func openStore(ctx context.Context, conf *config.Configuration, logger *zap.Logger) (listing.Store, func(), error) {
	const op = "main.openStore"

	if conf.Listings.Source != constants.ListingSourcePostgres {
		store := listing.NewMemoryStore()
		if conf.Listings.Seed {
			store.Seed(listing.SampleCatalogue())
		}
		logger.Info("using in-memory listings", zap.String("op", op), zap.Bool("seeded", conf.Listings.Seed))
		return store, func() {}, nil
	}

	pool, err := listing.NewPool(ctx, conf.Database.DSN(), conf.Database.MaxConns)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){pool.Close}
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var c cache.Cache
	switch conf.Cache.Backend {
	case constants.CacheBackendRedis:
		r := cache.NewRedis(conf.Cache.RedisAddr, conf.Cache.RedisDB)
		if err := r.Ping(ctx); err != nil {
			logger.Warn("redis unreachable, reads will fall through to postgres",
				zap.String("op", op), zap.String("addr", conf.Cache.RedisAddr), zap.Error(err))
		}
		closers = append(closers, func() { _ = r.Close() })
		c = r
	default:
		c = cache.NewMemory()
	}

	logger.Info("using postgres listings",
		zap.String("op", op),
		zap.String("cache", conf.Cache.Backend),
		zap.Duration("ttl", conf.Cache.TTL),
	)
	return listing.NewCachedStore(listing.NewPostgresStore(pool), c, conf.Cache.TTL, logger), closeAll, nil
}

func newMailer(mc config.MailConfig, logger *zap.Logger) inquiry.Mailer {
	if mc.Host == "" {
		logger.Warn("no mail host configured, inquiries will be logged only", zap.String("op", "main.newMailer"))
		return inquiry.NewLogMailer(logger)
	}
	return inquiry.NewSMTPMailer(inquiry.SMTPConfig{
		Host:     mc.Host,
		Port:     mc.Port,
		Username: mc.Username,
		Password: mc.Password,
	})
}

func recipients(mc config.MailConfig) inquiry.Recipients {
	return inquiry.Recipients{
		From:    mc.From,
		Contact: mc.ContactRecipient,
		Booking: mc.BookingRecipient,
	}
}

// newAuth returns nil when no signing secret is configured, which leaves the
// admin routes answering 503.
func newAuth(ac config.AuthConfig, logger *zap.Logger) *auth.Service {
	if ac.JWTSecret == "" {
		logger.Warn("no jwt secret configured, admin routes are disabled", zap.String("op", "main.newAuth"))
		return nil
	}
	return auth.NewService(auth.Config{
		AdminUsername: ac.AdminUsername,
		AdminPassword: ac.AdminPassword,
		Secret:        ac.JWTSecret,
		Issuer:        ac.Issuer,
		TTL:           ac.TokenTTL,
	})
}
