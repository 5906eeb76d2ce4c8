// Package main - точка входа фоновых процессов (Worker) ContestHub.
//
// Worker отвечает за периодические задачи:
// - Пересчёт лидерборда и топа создателей в кеш статистики
// - Сверка зависших pending-участий с платёжным провайдером
//
// Worker делит код с API: те же репозитории, команды и кеш,
// только вместо HTTP сервера крутится планировщик.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/faisal-shohag/contesthub-server/config"

	// Application layer
	"github.com/faisal-shohag/contesthub-server/internal/application/command"

	// Infrastructure layer
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/external/payments"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/messaging"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/persistence/mongodb"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/persistence/redis"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/scheduler"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/scheduler/jobs"

	// Packages
	"github.com/faisal-shohag/contesthub-server/pkg/logger"
)

func main() {
	// Создаём корневой контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запускаем приложение
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	logOpts := logger.DefaultOptions()
	logOpts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		logOpts.Level = logger.LevelDebug
	}
	log := logger.New(logOpts)

	log.Info("starting ContestHub Worker",
		logger.String("env", string(cfg.App.Environment)),
		logger.Bool("scheduler_enabled", cfg.Scheduler.Enabled),
	)

	if !cfg.Scheduler.Enabled {
		log.Warn("scheduler disabled, nothing to do")
		return nil
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К MONGODB
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to MongoDB...")
	conn, err := mongodb.NewConnection(ctx, mongodb.Config{
		URI:              cfg.Mongo.URI,
		Database:         cfg.Mongo.Database,
		ConnectTimeout:   cfg.Mongo.ConnectTimeout,
		OperationTimeout: cfg.Mongo.OperationTimeout,
		MaxPoolSize:      cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() {
		log.Info("closing MongoDB connection...")
		if err := conn.Close(context.Background()); err != nil {
			log.Warn("failed to close MongoDB connection", logger.Err(err))
		}
	}()
	log.Info("MongoDB connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ИНИЦИАЛИЗАЦИЯ REDIS
	// ─────────────────────────────────────────────────────────────────────────
	// Worker без Redis пересчитывать статистику некуда: job пишет в кеш.
	var statsWriter jobs.StatsWriter

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCache, err := redis.NewCache(redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.Warn("failed to connect to Redis, stats rebuild disabled", logger.Err(err))
		} else {
			defer redisCache.Close()
			statsWriter = redis.NewStatsCache(redisCache)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. РЕПОЗИТОРИИ, EVENT BUS, ПЛАТЕЖИ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	contestRepo := mongodb.NewContestRepository(conn)
	userRepo := mongodb.NewUserRepository(conn)
	participationRepo := mongodb.NewParticipationRepository(conn)

	eventBus := messaging.NewInMemoryEventBus(log)

	provider, err := payments.NewProvider(payments.Config{
		Provider:      cfg.Payments.Provider,
		WebhookSecret: cfg.Payments.WebhookSecret,
		BaseURL:       cfg.Payments.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create payment provider: %w", err)
	}
	resilientProvider := payments.NewResilientProvider(provider, log)

	recordPaymentCmd := command.NewRecordPaymentHandler(participationRepo, eventBus)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ПЛАНИРОВЩИК И ЗАДАЧИ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing scheduler...")
	sched := scheduler.New(log)

	if statsWriter != nil {
		rebuildJob := jobs.NewRebuildStatsCacheJob(
			contestRepo,
			userRepo,
			participationRepo,
			statsWriter,
			eventBus,
			log,
		)
		if err := sched.Register(rebuildJob, scheduler.NewIntervalSchedule(cfg.Scheduler.RebuildStatsInterval)); err != nil {
			return fmt.Errorf("failed to register rebuild job: %w", err)
		}
	}

	reconcileJob := jobs.NewReconcilePaymentsJob(
		participationRepo,
		recordPaymentCmd,
		resilientProvider,
		mongodb.CutoffID,
		cfg.Scheduler.ReconcileMaxAge,
		log,
	)
	if err := sched.Register(reconcileJob, scheduler.NewIntervalSchedule(cfg.Scheduler.ReconcilePaymentsInterval)); err != nil {
		return fmt.Errorf("failed to register reconcile job: %w", err)
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("ContestHub Worker is running")

	// Ожидаем сигнал завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("stopping scheduler...")
	if err := sched.Stop(); err != nil {
		log.Warn("failed to stop scheduler cleanly", logger.Err(err))
	}

	log.Info("shutdown completed successfully")
	return nil
}
