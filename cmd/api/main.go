// Package main - точка входа HTTP API ContestHub.
//
// ContestHub - платформа конкурсов: создатели публикуют конкурсы,
// участники платят взнос, сдают работы и борются за призы. Read-side
// собирает витрины из трёх коллекций без внешних ключей.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries/Sagas)
// - Infrastructure: MongoDB, Redis, платёжный провайдер
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/faisal-shohag/contesthub-server/config"

	// Application layer
	"github.com/faisal-shohag/contesthub-server/internal/application/command"
	"github.com/faisal-shohag/contesthub-server/internal/application/eventhandler"
	"github.com/faisal-shohag/contesthub-server/internal/application/query"
	"github.com/faisal-shohag/contesthub-server/internal/application/saga"

	// Infrastructure layer
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/external/payments"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/messaging"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/persistence/mongodb"
	"github.com/faisal-shohag/contesthub-server/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/faisal-shohag/contesthub-server/internal/interface/http"

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
	// .env опционален: в проде переменные приходят из окружения
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

	log.Info("starting ContestHub API",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

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
	log.Info("MongoDB connection established", logger.String("database", cfg.Mongo.Database))

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	var statsCache query.StatsCache
	var invalidator eventhandler.StatsInvalidator
	var redisPinger httpserver.Pinger

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCache, err = redis.NewCache(redis.Config{
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
			// Кеш не источник истины: без Redis запросы считают на лету
			log.Warn("failed to connect to Redis, stats caching disabled", logger.Err(err))
			redisCache = nil
		} else {
			defer redisCache.Close()
			sc := redis.NewStatsCache(redisCache)
			statsCache = sc
			invalidator = sc
			redisPinger = redisCache
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	contestRepo := mongodb.NewContestRepository(conn)
	userRepo := mongodb.NewUserRepository(conn)
	participationRepo := mongodb.NewParticipationRepository(conn)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ EVENT BUS И ПЛАТЕЖЕЙ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBus := messaging.NewInMemoryEventBus(log)

	log.Info("initializing payment provider...", logger.String("provider", cfg.Payments.Provider))
	provider, err := payments.NewProvider(payments.Config{
		Provider:      cfg.Payments.Provider,
		WebhookSecret: cfg.Payments.WebhookSecret,
		BaseURL:       cfg.Payments.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create payment provider: %w", err)
	}

	// Stub умеет подписывать webhook для локальной страницы оплаты
	var signer httpserver.PaymentSigner
	if stub, ok := provider.(*payments.Stub); ok {
		signer = stub
	}

	resilientProvider := payments.NewResilientProvider(provider, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries, Sagas)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	// Commands
	registerUserCmd := command.NewRegisterUserHandler(userRepo, eventBus)
	saveUserCmd := command.NewSaveUserHandler(userRepo, eventBus)
	createContestCmd := command.NewCreateContestHandler(contestRepo, eventBus)
	updateContestCmd := command.NewUpdateContestHandler(contestRepo, eventBus)
	moderateContestCmd := command.NewModerateContestHandler(contestRepo, eventBus)
	enterContestCmd := command.NewEnterContestHandler(contestRepo, participationRepo, eventBus)
	recordPaymentCmd := command.NewRecordPaymentHandler(participationRepo, eventBus)
	submitTaskCmd := command.NewSubmitTaskHandler(participationRepo, eventBus)
	pickWinnerCmd := command.NewPickWinnerHandler(participationRepo, eventBus)

	// Queries
	listContestsQuery := query.NewListContestsHandler(contestRepo, participationRepo)
	getContestQuery := query.NewGetContestHandler(contestRepo, userRepo, participationRepo)
	listMyContestsQuery := query.NewListMyContestsHandler(contestRepo)
	listAllContestsQuery := query.NewListAllContestsHandler(contestRepo)
	searchContestsQuery := query.NewSearchContestsHandler(contestRepo, userRepo, participationRepo)
	leaderboardQuery := query.NewGetLeaderboardHandler(userRepo, participationRepo, statsCache)
	winRateQuery := query.NewGetWinRateHandler(contestRepo, participationRepo, statsCache)
	topCreatorsQuery := query.NewGetTopCreatorsHandler(contestRepo, userRepo, participationRepo, statsCache)
	participationsByUserQuery := query.NewGetParticipationsByUserHandler(contestRepo, participationRepo)
	contestsByCreatorQuery := query.NewGetContestsByCreatorHandler(contestRepo, participationRepo)

	// Saga: участие + намерение оплаты + подтверждение
	enterContestSaga := saga.NewEnterContestSaga(
		enterContestCmd,
		recordPaymentCmd,
		participationRepo,
		resilientProvider,
		log,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. РЕГИСТРАЦИЯ EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	if invalidator != nil {
		log.Info("registering event handlers...")
		statsChanged := eventhandler.NewOnStatsChangedHandler(invalidator, log)
		if err := statsChanged.Register(eventBus); err != nil {
			return fmt.Errorf("failed to register event handlers: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ОЧЕРЕДЬ РЕГИСТРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	// Регистрации обрабатываются последовательно одним воркером: две
	// одновременные регистрации одного email не создадут дубликат.
	registrations := messaging.NewRegistrationQueue(registerUserCmd, 64, log)
	defer registrations.Close()

	// ─────────────────────────────────────────────────────────────────────────
	// 10. СОЗДАНИЕ HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Addr = cfg.HTTP.Addr
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout

	httpDeps := httpserver.Dependencies{
		ListContests:            listContestsQuery,
		GetContest:              getContestQuery,
		ListMyContests:          listMyContestsQuery,
		ListAllContests:         listAllContestsQuery,
		SearchContests:          searchContestsQuery,
		GetLeaderboard:          leaderboardQuery,
		GetWinRate:              winRateQuery,
		GetTopCreators:          topCreatorsQuery,
		GetParticipationsByUser: participationsByUserQuery,
		GetContestsByCreator:    contestsByCreatorQuery,

		SaveUser:        saveUserCmd,
		CreateContest:   createContestCmd,
		UpdateContest:   updateContestCmd,
		ModerateContest: moderateContestCmd,
		SubmitTask:      submitTaskCmd,
		PickWinner:      pickWinnerCmd,

		Registrations: registrations,
		EnterContest:  enterContestSaga,
		PaymentSigner: signer,

		MongoPinger: httpserver.PingerFunc(conn.HealthCheck),
		RedisPinger: redisPinger,

		Logger: log,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 11. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("ContestHub API is running", logger.String("address", httpServer.Address()))

	// Ожидаем сигнал завершения или ошибку
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("starting graceful shutdown...",
		logger.Duration("timeout", cfg.App.ShutdownTimeout),
	)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	// Очередь регистраций и соединения закроются через defer

	log.Info("shutdown completed successfully")
	return nil
}
