package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/storefront/internal/cfg"
	v1Grpc "github.com/DRSN-tech/storefront/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/storefront/internal/delivery/v1/http"
	"github.com/DRSN-tech/storefront/internal/infrastructure/identity"
	"github.com/DRSN-tech/storefront/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/storefront/internal/infrastructure/minio"
	s3Repo "github.com/DRSN-tech/storefront/internal/repository/minio"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/internal/repository/redis"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/closer"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/DRSN-tech/storefront/pkg/postgres"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"golang.org/x/sync/errgroup"
)

const (
	startupTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
	topicTimeout    = 10 * time.Second
)

// App — собранное приложение: серверы, фоновые задачи и порядок их остановки.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	health  *v1Grpc.HealthService
	worker  *kafka.OutboxWorker

	// bgCtx живет до остановки приложения, в нем работают фоновые задачи.
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// NewApp подключается к внешним сервисам и собирает все слои приложения.
// Ресурсы регистрируются в closer в порядке создания и закрываются в обратном.
func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	bgCtx, bgCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:      cfg,
		logger:   logger,
		closer:   closer.NewCloser(0),
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}

	if err := a.init(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := a.closer.Close(ctx); cerr != nil {
			logger.Errorf(cerr, "failed to release resources after init error")
		}
		bgCancel()
		return nil, err
	}

	return a, nil
}

func (a *App) init() error {
	// База данных
	db, err := initPGDB(a.logger, a.cfg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("postgres", func(_ context.Context) error {
		db.Close()
		a.logger.Infof("database pool closed")
		return nil
	})

	txManager := tr.NewManager(db.Pool)

	catConv := pgdbConv.CategoryConverterImpl{}
	prConv := pgdbConv.ProductConverterImpl{}
	settingsConv := pgdbConv.ShopSettingsConverterImpl{}
	outboxConv := pgdbConv.OutboxEventConverterImpl{}

	catalogRepo := pgdb.NewCatalogRepo(db.Pool, prConv)
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, catConv)
	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	settingsRepo := pgdb.NewShopSettingsRepo(db.Pool, settingsConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)

	// MinIO
	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), startupTimeout)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	imageRepo := s3Repo.NewImageRepo(minioClient, a.cfg.Minio)
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, a.cfg.Minio, a.logger, a.bgCtx)

	// Redis
	redisCtx, redisCancel := context.WithTimeout(context.Background(), startupTimeout)
	defer redisCancel()
	redisClient, err := clients.ConnectRedis(redisCtx, a.cfg.Redis, a.logger)
	if err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("redis", func(_ context.Context) error {
		if err := redisClient.Close(); err != nil {
			return err
		}
		a.logger.Infof("redis client closed")
		return nil
	})
	tokenRepo := redis.NewTokenRepo(redisClient, a.logger)

	// Kafka
	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	topicCtx, topicCancel := context.WithTimeout(context.Background(), topicTimeout)
	defer topicCancel()
	if err := producer.EnsureTopic(topicCtx); err != nil {
		a.logger.Warnf("failed to ensure kafka topic %s: %v", a.cfg.Kafka.Topic, err)
	}
	a.closer.Add("kafka producer", func(_ context.Context) error {
		if err := producer.Close(); err != nil {
			return err
		}
		a.logger.Infof("kafka producer closed")
		return nil
	})

	a.closer.Add("minio cleanup", func(ctx context.Context) error {
		defer a.bgCancel()
		if err := imagesInfra.WaitForCleanup(ctx); err != nil {
			a.logger.Warnf("MinIO cleanup did not finish before shutdown, some objects may remain: %v", err)
			return nil
		}
		a.logger.Infof("MinIO cleanup completed")
		return nil
	})

	a.worker = kafka.NewOutboxWorker(outboxRepo, a.logger, producer, db.Dsn, a.cfg.Kafka.OutboxBatchSize)
	a.closer.Add("outbox worker", func(_ context.Context) error {
		a.worker.Stop()
		a.logger.Infof("outbox worker stopped")
		return nil
	})

	// Usecases
	catalogUC := usecase.NewCatalogUC(catalogRepo, categoryRepo, txManager, tr.SnapshotSettings(), a.logger)
	categoryUC := usecase.NewCategoryUC(categoryRepo, outboxRepo, txManager, a.logger)
	productUC := usecase.NewProductUC(
		productRepo,
		categoryRepo,
		outboxRepo,
		txManager,
		imagesInfra,
		a.logger,
		a.cfg.Minio.MaxImageSize,
	)
	settingsUC := usecase.NewShopSettingsUC(settingsRepo, outboxRepo, txManager, a.logger)
	orderUC := usecase.NewOrderUC(productRepo, settingsRepo, a.logger)
	authUC := usecase.NewAuthUC(
		identity.NewProvider(a.cfg.Auth, a.logger),
		identity.NewVerifier(a.cfg.Auth.JWTSecret),
		tokenRepo,
		a.logger,
	)

	// gRPC
	a.health = v1Grpc.NewHealthService(catalogUC, a.logger)
	a.grpcSrv = v1Grpc.NewGRPCServer(a.cfg.Grpc, a.logger)
	a.grpcSrv.RegisterServices(a.health)
	a.closer.Add("grpc server", func(ctx context.Context) error {
		if err := a.grpcSrv.Stop(ctx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				a.logger.Warnf("gRPC server shutdown timeout")
				return nil
			}
			return err
		}
		return nil
	})

	// HTTP
	r := chi.NewRouter()
	router := v1Http.NewRouter(r, a.logger)
	router.Init(&v1Http.Handlers{
		Catalog:      v1Http.NewCatalogHandler(catalogUC, a.logger),
		Category:     v1Http.NewCategoryHandler(categoryUC, a.logger),
		Product:      v1Http.NewProductHandler(productUC, a.logger, a.cfg.Minio.MaxImageSize),
		ShopSettings: v1Http.NewShopSettingsHandler(settingsUC, a.logger),
		Order:        v1Http.NewOrderHandler(orderUC, a.logger),
		Auth:         v1Http.NewAuthHandler(authUC, a.cfg.Auth, a.logger),
		Admin:        v1Http.RequireAdmin(authUC, a.logger),
	}, a.cfg.Admin, a.cfg.Http)

	a.httpSrv = v1Http.NewServer(r, a.cfg.Http, a.logger)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// Run запускает серверы и фоновые задачи и блокируется до сигнала остановки или ошибки сервера.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.worker.Start(a.bgCtx)
	a.health.Start(a.bgCtx)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.httpSrv.Run(); err != nil {
			a.logger.Errorf(err, "HTTP server failed")
			return e.Wrap("HTTP server", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := a.grpcSrv.Start(); err != nil {
			a.logger.Errorf(err, "gRPC server failed")
			return e.Wrap("gRPC server", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Infof("stopping gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.closer.Close(shutdownCtx); err != nil {
			a.logger.Errorf(err, "shutdown finished with errors")
			return err
		}
		a.logger.Infof("Application shutdown complete")
		return nil
	})

	return g.Wait()
}

// Migrate применяет (steps == 0, up) или откатывает миграции без запуска серверов.
func Migrate(cfg *config.PGDBCfg, logger logger.Logger, up bool, steps int) error {
	db, err := postgres.Connect(cfg)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer db.Close()

	if up {
		return db.RunMigrations(logger)
	}

	return db.RollbackMigrations(logger, steps)
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(context.Background()); err != nil {
		logger.Errorf(err, "failed to ping database")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
