// Lambda entry point for S3-triggered text-to-audio conversion.
//
// The function is invoked with an S3 object-created event for each text
// document uploaded to the source bucket and runs the conversion
// pipeline per record. The response carries an HTTP-style status (200
// all converted, 500 otherwise) with the structured results. S3 invokes
// Lambda asynchronously and retries only when the handler returns an
// error, so retryable record failures additionally surface as a non-nil
// error; permanent failures do not, since redelivering a malformed
// object cannot change the outcome.
package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/config"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/converter"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/journal"
	pollyclient "github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/polly"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/storage"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/logger"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/model"
)

// Clients initialized once at cold start and reused across invocations.
var (
	log     *zap.Logger
	handler *converter.Handler
	jrnl    *journal.PostgresJournal
)

func init() {
	var err error
	log, err = logger.New(os.Getenv("DEBUG") != "")
	if err != nil {
		panic("Failed to init logger: " + err.Error())
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	ctx := context.Background()

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

	handler = converter.NewHandler(store, synth, converter.Options{
		DestinationBucket: cfg.Buckets.Destination,
		VoiceID:           cfg.Polly.VoiceID,
		OutputFormat:      cfg.Polly.OutputFormat,
		SourceSuffix:      cfg.Converter.SourceSuffix,
		MaxInputChars:     cfg.Converter.MaxInputChars,
		CallTimeout:       cfg.CallTimeout(),
		Retry:             cfg.RetryConfig(),
	}, log)

	if cfg.Postgres.DSN != "" {
		jrnl, err = journal.NewPostgresJournal(ctx, cfg.Postgres.DSN, log)
		if err != nil {
			log.Fatal("Failed to initialize journal", zap.Error(err))
		}
	}
}

// Response carries the per-record results and an HTTP-style status code
type Response struct {
	StatusCode int                      `json:"statusCode"`
	Results    []model.ConversionResult `json:"results"`
}

func handleRequest(ctx context.Context, s3Event events.S3Event) (Response, error) {
	resp := Response{StatusCode: 200}
	var retryable []string

	for _, record := range s3Event.Records {
		// Object keys arrive URL-encoded in S3 event records
		key := record.S3.Object.Key
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}

		event := model.ConversionEvent{
			SourceBucket: record.S3.Bucket.Name,
			SourceKey:    key,
		}

		result := handler.Handle(ctx, event)
		recordOutcome(ctx, event, result)

		resp.Results = append(resp.Results, result)
		if !result.IsSuccess() {
			resp.StatusCode = 500
			if result.Retryable {
				retryable = append(retryable,
					fmt.Sprintf("%s/%s: %s", event.SourceBucket, event.SourceKey, result.ErrorKind))
			}
		}
	}

	if len(retryable) > 0 {
		return resp, fmt.Errorf("retryable conversion failures: %s", strings.Join(retryable, "; "))
	}

	return resp, nil
}

// recordOutcome journals the result best-effort; journal failures never
// fail a conversion.
func recordOutcome(ctx context.Context, event model.ConversionEvent, result model.ConversionResult) {
	if jrnl == nil {
		return
	}

	job := model.NewJob(uuid.New().String(), event)
	job.IncrementAttempts()
	job.ApplyResult(result)

	if err := jrnl.CreateJob(ctx, job); err != nil {
		log.Error("Failed to journal conversion outcome", zap.Error(err))
	}
}

func main() {
	lambda.Start(handleRequest)
}
