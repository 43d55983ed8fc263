// Worker entry point for deployments where the object store publishes
// bucket notifications to RabbitMQ instead of invoking Lambda. One
// consumer process, one conversion per delivery, graceful shutdown.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/config"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/converter"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/journal"
	pollyclient "github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/polly"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/queue"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/storage"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/logger"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/model"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("DEBUG") != "")
	if err != nil {
		panic("Failed to init logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("Starting text-to-audio worker")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.NewS3Store(ctx, storage.S3Options{
		Endpoint:  cfg.S3.Endpoint,
		Region:    cfg.S3.Region,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize S3 storage", zap.Error(err))
	}

	synth, err := pollyclient.NewClient(ctx, pollyclient.ClientOptions{
		Region:    cfg.S3.Region,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize Polly client", zap.Error(err))
	}

	handler := converter.NewHandler(store, synth, converter.Options{
		DestinationBucket: cfg.Buckets.Destination,
		VoiceID:           cfg.Polly.VoiceID,
		OutputFormat:      cfg.Polly.OutputFormat,
		SourceSuffix:      cfg.Converter.SourceSuffix,
		MaxInputChars:     cfg.Converter.MaxInputChars,
		CallTimeout:       cfg.CallTimeout(),
		Retry:             cfg.RetryConfig(),
	}, log)

	var jrnl *journal.PostgresJournal
	if cfg.Postgres.DSN != "" {
		jrnl, err = journal.NewPostgresJournal(ctx, cfg.Postgres.DSN, log)
		if err != nil {
			log.Fatal("Failed to initialize journal", zap.Error(err))
		}
		defer jrnl.Close()
	}

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL, log)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer rabbitMQ.Close()

	handleMessage := func(ctx context.Context, body []byte) error {
		var notification queue.Notification
		if err := json.Unmarshal(body, &notification); err != nil {
			return model.Permanent(model.ErrKindMalformedEvent,
				fmt.Errorf("unmarshal notification: %w", err))
		}

		events := notification.Events()
		if len(events) == 0 {
			log.Warn("Notification carried no object-created records")
			return nil
		}

		// A transient failure on any record requeues the whole message;
		// the deterministic destination keys make re-running the already
		// converted records harmless.
		var requeueErr error
		for _, event := range events {
			job := model.NewJob(uuid.New().String(), event)
			if jrnl != nil {
				if err := jrnl.CreateJob(ctx, job); err != nil {
					log.Error("Failed to journal job", zap.Error(err))
				}
			}

			result := handler.Handle(ctx, event)

			job.IncrementAttempts()
			job.ApplyResult(result)
			if jrnl != nil {
				if err := jrnl.UpdateJob(ctx, job); err != nil {
					log.Error("Failed to journal outcome", zap.Error(err))
				}
			}

			if !result.IsSuccess() && result.Retryable {
				requeueErr = model.Transient(result.ErrorKind, errors.New(result.Message))
			}
		}

		return requeueErr
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	consumeDone := make(chan error, 1)
	go func() {
		consumeDone <- rabbitMQ.Consume(ctx, queue.QueueNameConversions, handleMessage)
	}()

	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		<-consumeDone
	case err := <-consumeDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Consumer stopped", zap.Error(err))
		}
	}

	log.Info("Worker shutdown complete")
}
