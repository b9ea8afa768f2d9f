package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-inventory/internal/config"
	httpAPI "github.com/iyhunko/product-inventory/internal/http"
	"github.com/iyhunko/product-inventory/internal/http/controller"
	"github.com/iyhunko/product-inventory/internal/logger"
	"github.com/iyhunko/product-inventory/internal/metrics"
	"github.com/iyhunko/product-inventory/internal/repository"
	"github.com/iyhunko/product-inventory/internal/repository/orm"
	"github.com/iyhunko/product-inventory/internal/repository/sql"
	"github.com/iyhunko/product-inventory/internal/service"
	sqspkg "github.com/iyhunko/product-inventory/internal/sqs"
)

const shutdownTimeout = 30 * time.Second

type storage struct {
	products repository.ProductRepository
	users    repository.UserRepository
	closer   io.Closer
}

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)
	logger.InitJSONLogger(conf.DebugMode)

	ctx := context.Background()
	store, err := openStorage(ctx, conf.Database)
	handleErr("starting database", err)

	var publisher service.Publisher
	if conf.AWS.NotificationsEnabled() {
		sqsClient, err := sqspkg.NewClient(ctx, conf.AWS)
		handleErr("loading AWS config", err)
		publisher = sqspkg.NewPublisher(sqsClient, conf.AWS.SQSQueueURL)
		slog.Info("Product notifications enabled", slog.String("queue_url", conf.AWS.SQSQueueURL))
	}
	productService := service.NewProductService(store.products, publisher)

	if !conf.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	ctr := controller.New(conf)
	productCtr := controller.NewProductController(productService)
	router := httpAPI.InitRouter(conf, store.users, gin.New(), ctr, productCtr)

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server starting", slog.String("port", conf.HTTPServer.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metricsServer := metrics.StartMetricsServer(conf)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				slog.Info("Shutting down HTTP server")
				return httpServer.Shutdown(ctx)
			},
			"metrics-server": func(ctx context.Context) error {
				return metricsServer.Shutdown(ctx)
			},
			"database": func(context.Context) error {
				return store.closer.Close()
			},
		},
	)

	exitCode := <-wait
	slog.Info("Product service exited", slog.Int("code", exitCode))
	os.Exit(exitCode)
}

func openStorage(ctx context.Context, conf config.DB) (*storage, error) {
	switch conf.Driver {
	case config.DriverSQLite:
		db, err := orm.Open(ctx, conf.Path)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &storage{
			products: orm.NewProductRepository(db),
			users:    orm.NewUserRepository(db),
			closer:   sqlDB,
		}, nil
	default:
		db, err := sql.StartDB(ctx, conf)
		if err != nil {
			return nil, err
		}
		return &storage{
			products: sql.NewProductRepository(db),
			users:    sql.NewUserRepository(db),
			closer:   db,
		}, nil
	}
}

func handleErr(msg string, err error) {
	if err != nil {
		slog.Error("error while "+msg, slog.Any("err", err))
		os.Exit(1)
	}
}
