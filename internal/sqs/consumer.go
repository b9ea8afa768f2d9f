package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

const (
	maxMessagesPerPoll = 10
	longPollSeconds    = 20

	// receiveRetryDelay is the pause after a failed receive.
	receiveRetryDelay = time.Second
)

// ConsumerAPI defines the interface for SQS operations used by Consumer.
type ConsumerAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// HandlerFunc processes a decoded product notification.
// A returned error leaves the message on the queue for redelivery.
type HandlerFunc func(ctx context.Context, msg ProductMessage) error

// Consumer handles consuming product notifications from AWS SQS.
type Consumer struct {
	client     ConsumerAPI
	queueURL   string
	handle     HandlerFunc
	retryDelay time.Duration
}

// NewConsumer creates a new SQS Consumer. A nil handler logs every notification.
func NewConsumer(client ConsumerAPI, queueURL string, handle HandlerFunc) *Consumer {
	if handle == nil {
		handle = LogNotification
	}
	return &Consumer{
		client:     client,
		queueURL:   queueURL,
		handle:     handle,
		retryDelay: receiveRetryDelay,
	}
}

// LogNotification writes the notification to the structured log.
func LogNotification(_ context.Context, msg ProductMessage) error {
	slog.Info("Received product notification",
		slog.String("action", msg.Action),
		slog.Int64("product_id", msg.ProductID),
		slog.String("name", msg.Name),
		slog.String("price", msg.Price),
		slog.Int64("quantity", msg.Quantity),
	)
	return nil
}

// Start begins consuming messages from the SQS queue until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	slog.Info("Starting SQS consumer", slog.String("queueURL", c.queueURL))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping SQS consumer")
			return ctx.Err()
		default:
			err := c.receiveMessages(ctx)
			if err == nil || errors.Is(err, context.Canceled) {
				continue
			}
			slog.Error("Error receiving messages", slog.Any("err", err))
			select {
			case <-ctx.Done():
			case <-time.After(c.retryDelay):
			}
		}
	}
}

func (c *Consumer) receiveMessages(ctx context.Context) error {
	result, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.queueURL),
		MaxNumberOfMessages: maxMessagesPerPoll,
		WaitTimeSeconds:     longPollSeconds,
	})
	if err != nil {
		return fmt.Errorf("failed to receive messages: %w", err)
	}

	for _, message := range result.Messages {
		if err := c.processMessage(ctx, message); err != nil {
			slog.Error("Error processing message", slog.Any("err", err))
			continue
		}

		if err := c.deleteMessage(ctx, message); err != nil {
			slog.Error("Error deleting message", slog.Any("err", err))
		}
	}

	return nil
}

func (c *Consumer) processMessage(ctx context.Context, message types.Message) error {
	if message.Body == nil {
		return fmt.Errorf("message body is nil")
	}

	var productMsg ProductMessage
	if err := json.Unmarshal([]byte(*message.Body), &productMsg); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return c.handle(ctx, productMsg)
}

func (c *Consumer) deleteMessage(ctx context.Context, message types.Message) error {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: message.ReceiptHandle,
	})
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}
