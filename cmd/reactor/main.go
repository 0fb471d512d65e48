package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-push-reactor/internal/application/account"
	"github.com/go-push-reactor/internal/application/cleanup"
	"github.com/go-push-reactor/internal/application/dispatch"
	"github.com/go-push-reactor/internal/application/order"
	"github.com/go-push-reactor/internal/application/recipient"
	"github.com/go-push-reactor/internal/application/registry"
	"github.com/go-push-reactor/internal/config"
	"github.com/go-push-reactor/internal/domain"
	"github.com/go-push-reactor/internal/infrastructure/dynamo"
	"github.com/go-push-reactor/internal/infrastructure/fcm"
	jwtinfra "github.com/go-push-reactor/internal/infrastructure/jwt"
	snsinfra "github.com/go-push-reactor/internal/infrastructure/sns"
	"github.com/go-push-reactor/internal/infrastructure/stream"
	"github.com/go-push-reactor/internal/pkg/logger"
	transporthttp "github.com/go-push-reactor/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; production reads the real environment.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bootstrap DynamoDB tables with streams enabled (creates them if they
	// don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables, log)

	// Push delivery backend.
	var sender dispatch.Sender
	switch cfg.PushProvider {
	case "sns":
		s, err := snsinfra.NewSender(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("SNS sender not available")
		}
		sender = s
	default:
		s, err := fcm.NewSender(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("FCM sender not available")
		}
		sender = s
	}

	// Webhook JWT provider (optional — without a secret the webhook is open,
	// acceptable only behind a trusted network).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Warn().Err(err).Msg("webhook JWT provider not available, ingest endpoint is unauthenticated")
	}

	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	companyRepo := dynamo.NewCompanyRepo(dynamoClient, cfg.DynamoTables.Companies)
	productRepo := dynamo.NewProductRepo(dynamoClient, cfg.DynamoTables.Products)

	resolver := recipient.NewResolver(userRepo, log)
	dispatcher := dispatch.NewDispatcher(sender, log)

	accountSvc := account.NewService(dispatcher, log)
	orderSvc := order.NewService(companyRepo, resolver, dispatcher, log)
	cleanupSvc := cleanup.NewService(productRepo, log)

	reg := registry.New(log)
	reg.Bind(domain.SourceUsers, domain.EventUpdate, accountSvc.HandleUserChange)
	reg.Bind(domain.SourceOrders, domain.EventUpdate, orderSvc.HandleStatusChange)
	reg.Bind(domain.SourceOrders, domain.EventCreate, orderSvc.HandleCreated)
	reg.Bind(domain.SourceSuppliers, domain.EventDelete, cleanupSvc.HandleSupplierDeleted)

	if cfg.StreamEnabled {
		consumer := stream.NewConsumer(
			dynamoClient,
			dynamo.NewStreamsClient(cfg),
			reg,
			map[string]string{
				cfg.DynamoTables.Users:     domain.SourceUsers,
				cfg.DynamoTables.Orders:    domain.SourceOrders,
				cfg.DynamoTables.Suppliers: domain.SourceSuppliers,
			},
			cfg.StreamPollInterval,
			log,
		)
		go func() {
			if err := consumer.Run(ctx); err != nil {
				log.Fatal().Err(err).Msg("stream consumer failed")
			}
		}()
	}

	router := transporthttp.NewRouter(cfg, &transporthttp.Deps{
		Registry:    reg,
		JWTProvider: jwtProvider,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.AppPort).Str("env", cfg.AppEnv).Msg("reactor starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		os.Exit(1)
	}
	log.Info().Msg("reactor stopped")
}
