package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/iyhunko/product-inventory/internal/config"
	"github.com/iyhunko/product-inventory/internal/logger"
	sqspkg "github.com/iyhunko/product-inventory/internal/sqs"
)

const shutdownTimeout = 30 * time.Second

func main() {
	conf, err := config.LoadNotificationFromEnv()
	handleErr("loading config", err)
	logger.InitJSONLogger(false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sqsClient, err := sqspkg.NewClient(ctx, conf)
	handleErr("loading AWS config", err)
	consumer := sqspkg.NewConsumer(sqsClient, conf.SQSQueueURL, nil)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Consumer error", slog.Any("err", err))
		}
	}()

	slog.Info("Notification service started. Listening for messages...", slog.String("queue_url", conf.SQSQueueURL))

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"consumer": func(ctx context.Context) error {
				cancel()
				select {
				case <-stopped:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
		},
	)

	exitCode := <-wait
	slog.Info("Notification service exited", slog.Int("code", exitCode))
	os.Exit(exitCode)
}

func handleErr(msg string, err error) {
	if err != nil {
		slog.Error("error while "+msg, slog.Any("err", err))
		os.Exit(1)
	}
}
