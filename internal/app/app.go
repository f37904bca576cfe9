package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/shop-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/shop-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/shop-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/shop-backend/internal/infrastructure/kafka"
	s3Repo "github.com/DRSN-tech/shop-backend/internal/repository/minio"
	"github.com/DRSN-tech/shop-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/shop-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/shop-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/shop-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/clients"
	"github.com/DRSN-tech/shop-backend/pkg/closer"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
	"github.com/DRSN-tech/shop-backend/pkg/metrics"
	"github.com/DRSN-tech/shop-backend/pkg/postgres"
	"github.com/DRSN-tech/shop-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

// App собирает зависимости сервиса и управляет его жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	worker  *kafka.OutboxWorker
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	const op = "App.NewApp"

	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(2*time.Second, log),
	}

	if err := a.init(); err != nil {
		// закрываем то, что успели открыть
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := a.closer.Close(ctx); cerr != nil {
			log.Warnf("cleanup after failed start: %v", cerr)
		}

		return nil, e.Wrap(op, err)
	}

	return a, nil
}

func (a *App) init() error {
	cfg, log := a.cfg, a.logger

	db, err := initPGDB(log, cfg)
	if err != nil {
		return err
	}
	a.closer.AddFunc("postgres", db.Close)

	redisClient := clients.NewRedisClient(cfg.Redis)
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })

	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return e.Wrap("failed to connect to redis", err)
	}

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return e.Wrap("failed to initialize minio client", err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), startupTimeout)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.ReportsBucket); err != nil {
		return e.Wrap("failed to initialize MinIO bucket", err)
	}

	producer := kafka.NewProducer(log, cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })
	if err := producer.EnsureTopic(startupTimeout); err != nil {
		return e.Wrap("failed to ensure kafka topic", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	orderMetrics := metrics.NewOrderMetrics(registry)
	serverMetrics := metrics.NewServerMetrics(registry)

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverter{})
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.CategoryConverter{})
	orderRepo := pgdb.NewOrderRepo(db.Pool, pgdbConv.OrderConverter{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverter{})
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.ProductInfoConverter{}, cfg.Redis, log)
	reportRepo := s3Repo.NewReportRepo(minioClient, cfg.Minio)

	uow := newUnitOfWork(cfg.Order, db, orderMetrics, log)

	productUC := usecase.NewProductUC(productRepo, categoryRepo, uow, log, cacheRepo)
	orderUC := usecase.NewOrderUC(
		orderRepo,
		productRepo,
		outboxRepo,
		cacheRepo,
		uow,
		kafka.NewEventCodec(),
		orderMetrics,
		log,
		usecase.PageLimits{Default: cfg.Order.PageDefault, Max: cfg.Order.PageMax},
	)
	reportUC := usecase.NewReportUC(orderUC, reportRepo, log)

	a.worker = kafka.NewOutboxWorker(outboxRepo, log, producer, kafka.WorkerCfg{
		BatchSize:    cfg.Outbox.BatchSize,
		PollInterval: cfg.Outbox.PollInterval,
		StaleAfter:   cfg.Outbox.StaleAfter,
		Channel:      pgdb.OutboxChannel,
	}, cfg.Db.DSN())
	// воркер останавливается раньше продюсера и пула
	a.closer.AddFunc("outbox worker", a.worker.Stop)

	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, log)
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	r := chi.NewRouter()
	v1Http.NewRouter(r, log).Init(v1Http.UseCases{
		Products: productUC,
		Orders:   orderUC,
		Reports:  reportUC,
	}, serverMetrics.Middleware, metrics.Handler(registry))

	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// Run запускает серверы и воркер и блокируется до сигнала или фатальной ошибки.
func (a *App) Run() error {
	log := a.logger

	a.worker.Start(context.Background())

	errCh := make(chan error, 2)
	go func() {
		log.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()

	go func() {
		log.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		log.Errorf(appErr, "server fatal error")
	case <-shutdown:
		log.Infof("Received shutdown signal, stopping gracefully...")
	}

	a.grpcSrv.SetServing("", false)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		log.Errorf(err, "shutdown finished with errors")
	}

	log.Infof("Application shutdown complete")
	return appErr
}

func newUnitOfWork(cfg *config.OrderCfg, db *postgres.PgDatabase, observer tr.RetryObserver, log logger.Logger) usecase.UnitOfWork {
	if cfg.TxMode == config.TxModeDirect {
		log.Warnf("ORDER_TX_MODE=direct: order operations run without a transaction, partial writes are not rolled back")
		return tr.DirectUnit{}
	}

	return tr.NewTxUnit(db.Pool, tr.RetryCfg{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay,
		MaxDelay:   cfg.RetryMaxDelay,
	}, observer)
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger, postgres.DefaultMigrationsURL); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
