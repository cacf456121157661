package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/activation"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/application/payment/usecases"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/config"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/database"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/email"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/gateway"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/pubsub"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/repository"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/infrastructure/scheduler"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/biztime"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/constants"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/shared/logger"
)

func main() {
	// Parse environment from command line or env variable
	env := constants.EnvDevelopment
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLoggerWithSlog(logger.WithComponent("worker"))
	log.Infow("starting payment worker", "environment", env)

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		log.Fatalw("failed to initialize business timezone", "error", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalw("failed to initialize database", "error", err)
	}
	defer database.Close()

	db := database.Get()
	paymentRepo := repository.NewPaymentRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	entitlementRepo := repository.NewEntitlementRepository(db)
	paymentGateway := gateway.New(cfg.Gateway, log)

	opts := []activation.Option{
		activation.WithClock(biztime.SystemClock()),
		activation.WithGatewayTimeout(cfg.Gateway.Timeout()),
	}

	// Activations run here reach open streams on the API servers through
	// Redis. Without it streams fall back to their periodic recheck.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warnw("redis unavailable, activation events stay local", "error", err)
	} else {
		log.Infow("redis connection established", "address", cfg.Redis.GetAddr())
		opts = append(opts, activation.WithListener(pubsub.NewRedisActivationEventBus(redisClient, log)))
	}
	pingCancel()

	if receipts := email.NewReceiptListenerFromConfig(cfg.Email, log); receipts != nil {
		opts = append(opts, activation.WithListener(receipts))
	}

	coordinator := activation.NewCoordinator(
		paymentRepo,
		subscriptionRepo,
		entitlementRepo,
		paymentGateway,
		log,
		opts...,
	)

	expireUC := usecases.NewExpirePaymentsUseCase(
		paymentRepo,
		paymentGateway,
		coordinator,
		biztime.SystemClock(),
		cfg.Gateway.Timeout(),
		cfg.Scheduler.BatchSize,
		log,
	)
	reconcileUC := usecases.NewReconcileActivationsUseCase(
		paymentRepo,
		coordinator,
		cfg.Scheduler.BatchSize,
		log,
	)

	manager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		log.Fatalw("failed to create scheduler", "error", err)
	}

	interval := time.Duration(cfg.Scheduler.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	if err := manager.RegisterPaymentJobs(
		interval,
		scheduler.ExpirePaymentsJob{UseCase: expireUC},
		scheduler.ReconcileActivationsJob{UseCase: reconcileUC},
	); err != nil {
		log.Fatalw("failed to register payment jobs", "error", err)
	}

	manager.Start()
	log.Infow("payment worker started", "interval", interval.String())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	log.Infow("received signal, shutting down", "signal", sig.String())
	if err := manager.Stop(); err != nil {
		log.Errorw("failed to stop scheduler", "error", err)
	}
	log.Infow("payment worker stopped")
}
