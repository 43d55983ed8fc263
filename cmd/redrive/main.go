// Re-drive entry point for failed conversions. Reads failed jobs from
// the journal (all recent failures, or the job IDs given as arguments)
// and republishes their object-created notifications to the conversion
// queue. Idempotent: the deterministic destination keys make re-running
// an already converted event an overwrite, not a duplicate.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/config"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/journal"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/queue"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/logger"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/model"
)

const redriveBatchLimit = 100

func main() {
	// Load .env file
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("DEBUG") != "")
	if err != nil {
		panic("Failed to init logger: " + err.Error())
	}
	defer log.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", zap.Error(err))
	}

	if cfg.Postgres.DSN == "" {
		log.Fatal("POSTGRES_DSN is required to re-drive from the journal")
	}

	ctx := context.Background()

	jrnl, err := journal.NewPostgresJournal(ctx, cfg.Postgres.DSN, log)
	if err != nil {
		log.Fatal("Failed to initialize journal", zap.Error(err))
	}
	defer jrnl.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.URL, log)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer rabbitMQ.Close()

	var jobs []model.Job
	if ids := os.Args[1:]; len(ids) > 0 {
		for _, id := range ids {
			job, err := jrnl.GetJobByID(ctx, id)
			if err != nil {
				log.Fatal("Failed to load job", zap.String("job_id", id), zap.Error(err))
			}
			jobs = append(jobs, *job)
		}
	} else {
		jobs, err = jrnl.ListFailedJobs(ctx, redriveBatchLimit)
		if err != nil {
			log.Fatal("Failed to list failed jobs", zap.Error(err))
		}
	}

	if len(jobs) == 0 {
		log.Info("No failed jobs to re-drive")
		return
	}

	for _, job := range jobs {
		notification := queue.NotificationFor(job.SourceBucket, job.SourceKey)
		if err := rabbitMQ.PublishNotification(notification); err != nil {
			log.Fatal("Failed to republish job",
				zap.String("job_id", job.ID),
				zap.Error(err))
		}

		log.Info("Job republished",
			zap.String("job_id", job.ID),
			zap.String("source_bucket", job.SourceBucket),
			zap.String("source_key", job.SourceKey))
	}

	log.Info("Re-drive complete", zap.Int("jobs", len(jobs)))
}
