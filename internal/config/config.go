package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/resilience"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	S3 struct {
		Endpoint  string `yaml:"endpoint" env:"S3_ENDPOINT"`
		Region    string `yaml:"region" env:"AWS_REGION" env-default:"us-east-1"`
		AccessKey string `yaml:"access_key" env:"S3_ACCESS_KEY"`
		SecretKey string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	} `yaml:"s3"`

	Buckets struct {
		Source      string `yaml:"source" env:"SOURCE_BUCKET"`
		Destination string `yaml:"destination" env:"DESTINATION_BUCKET"`
	} `yaml:"buckets"`

	Polly struct {
		VoiceID      string `yaml:"voice_id" env:"POLLY_VOICE_ID" env-default:"Joanna"`
		OutputFormat string `yaml:"output_format" env:"POLLY_OUTPUT_FORMAT" env-default:"mp3"`
	} `yaml:"polly"`

	Converter struct {
		SourceSuffix    string `yaml:"source_suffix" env:"SOURCE_SUFFIX" env-default:".txt"`
		MaxInputChars   int    `yaml:"max_input_chars" env:"MAX_INPUT_CHARS" env-default:"3000"`
		CallTimeoutSecs int    `yaml:"call_timeout_seconds" env:"CALL_TIMEOUT_SECONDS" env-default:"30"`
	} `yaml:"converter"`

	Retry struct {
		MaxAttempts int     `yaml:"max_attempts" env:"RETRY_MAX_ATTEMPTS" env-default:"3"`
		BaseDelayMs int     `yaml:"base_delay_ms" env:"RETRY_BASE_DELAY_MS" env-default:"200"`
		Multiplier  float64 `yaml:"multiplier" env:"RETRY_MULTIPLIER" env-default:"2.0"`
		JitterMs    int     `yaml:"jitter_ms" env:"RETRY_JITTER_MS" env-default:"50"`
	} `yaml:"retry"`

	RabbitMQ struct {
		URL string `yaml:"url" env:"RABBITMQ_URL"`
	} `yaml:"rabbitmq"`

	Postgres struct {
		DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
	} `yaml:"postgres"`
}

// LoadConfig reads configs/config.yaml when present, falling back to
// environment variables only (the Lambda runtime ships no config file).
func LoadConfig() (*Config, error) {
	// Load .env file
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadConfig("configs/config.yaml", &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	if err := cleanenv.UpdateEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// CallTimeout returns the per-network-call timeout
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Converter.CallTimeoutSecs) * time.Second
}

// RetryConfig maps the retry settings onto a resilience policy
func (c *Config) RetryConfig() *resilience.RetryConfig {
	rc := resilience.DefaultRetryConfig()
	if c.Retry.MaxAttempts > 0 {
		rc.MaxAttempts = c.Retry.MaxAttempts
	}
	if c.Retry.BaseDelayMs > 0 {
		rc.InitialInterval = time.Duration(c.Retry.BaseDelayMs) * time.Millisecond
	}
	if c.Retry.Multiplier > 0 {
		rc.Multiplier = c.Retry.Multiplier
	}
	rc.Jitter = time.Duration(c.Retry.JitterMs) * time.Millisecond
	return rc
}
