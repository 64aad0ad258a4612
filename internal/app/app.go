package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"

	config "github.com/sergey-royt/effective-mobile-test-task/internal/cfg"
	v1Http "github.com/sergey-royt/effective-mobile-test-task/internal/delivery/v1/http"
	"github.com/sergey-royt/effective-mobile-test-task/internal/infrastructure/kafka"
	"github.com/sergey-royt/effective-mobile-test-task/internal/repository/pgdb"
	pgdbConv "github.com/sergey-royt/effective-mobile-test-task/internal/repository/pgdb/converter/generated"
	"github.com/sergey-royt/effective-mobile-test-task/internal/repository/redis"
	redisConv "github.com/sergey-royt/effective-mobile-test-task/internal/repository/redis/converter/generated"
	"github.com/sergey-royt/effective-mobile-test-task/internal/usecase"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/clients"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/closer"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/e"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/logger"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/postgres"
)

const (
	shutdownTimeout = 10 * time.Second
	forcedTimeout   = 3 * time.Second
)

// Run собирает зависимости приложения, поднимает HTTP-сервер и воркер
// outbox и блокируется до сигнала завершения или фатальной ошибки сервера.
func Run() {
	log := logger.NewSlogLogger()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	gracefulCloser := closer.NewCloser(forcedTimeout)

	db, err := initPGDB(log, cfg)
	if err != nil {
		log.Errorf(err, "failed to initialize database")
		os.Exit(1)
	}
	gracefulCloser.Add(func(ctx context.Context) error {
		db.Close()
		log.Infof("database pool closed")
		return nil
	})

	prConv := pgdbConv.NewProductConverterImpl()
	orConv := pgdbConv.NewOrderConverterImpl()
	obConv := pgdbConv.NewOutboxEventConverterImpl()
	infoConv := redisConv.NewProductInfoConverterImpl()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	orderRepo := pgdb.NewOrderRepo(db.Pool, orConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, obConv)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		log.Errorf(err, "failed to connect to redis")
		os.Exit(1)
	}
	gracefulCloser.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})
	cacheRepo := redis.NewCacheRepo(redisClient, infoConv, cfg.Redis, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		log.Errorf(err, "failed to initialize kafka producer")
		os.Exit(1)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		log.Errorf(err, "failed to ensure kafka topic")
		os.Exit(1)
	}
	gracefulCloser.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	productUC := usecase.NewProductUC(productRepo, db.Pool, cacheRepo, log)
	orderUC := usecase.NewOrderUC(orderRepo, productRepo, outboxRepo, db.Pool, cacheRepo, log)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	outboxWorker := kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)
	outboxWorker.Start(workerCtx)
	gracefulCloser.Add(func(ctx context.Context) error {
		workerCancel()
		outboxWorker.Stop()
		log.Infof("outbox worker stopped")
		return nil
	})

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log)
	router.Init(productUC, orderUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	gracefulCloser.Add(func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		log.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		log.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := gracefulCloser.Close(shutdownCtx); err != nil {
		log.Errorf(err, "shutdown finished with errors")
		os.Exit(1)
	}

	log.Infof("Application shutdown complete")
	if appErr != nil {
		os.Exit(1)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
