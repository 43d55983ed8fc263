package polly

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/model"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awspolly "github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// Client is the speech-synthesis collaborator backed by Amazon Polly
type Client struct {
	api *awspolly.Client
	log *zap.Logger
}

type ClientOptions struct {
	Region    string
	AccessKey string
	SecretKey string
}

// NewClient creates a Polly synthesis client
func NewClient(ctx context.Context, opts ClientOptions, log *zap.Logger) (*Client, error) {
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}
	if log == nil {
		log = zap.NewNop()
	}

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load Polly config: %w", err)
	}

	log.Info("Polly client initialized", zap.String("region", opts.Region))

	return &Client{
		api: awspolly.NewFromConfig(cfg),
		log: log,
	}, nil
}

// Synthesize converts text into audio bytes. Throttling, timeouts and
// service faults are classified transient; validation rejections are
// permanent SynthesisFailed.
func (c *Client) Synthesize(ctx context.Context, req model.SynthesisRequest) ([]byte, error) {
	out, err := c.api.SynthesizeSpeech(ctx, &awspolly.SynthesizeSpeechInput{
		Text:         aws.String(req.Text),
		VoiceId:      types.VoiceId(req.VoiceID),
		OutputFormat: types.OutputFormat(req.OutputFormat),
	})
	if err != nil {
		return nil, classify(err)
	}
	defer out.AudioStream.Close()

	audio, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, model.Transient(model.ErrKindSynthesisFailed,
			fmt.Errorf("read audio stream: %w", err))
	}

	if len(audio) == 0 {
		return nil, model.Permanent(model.ErrKindSynthesisFailed,
			errors.New("synthesis returned an empty audio stream"))
	}

	c.log.Debug("Speech synthesized",
		zap.String("voice_id", req.VoiceID),
		zap.String("output_format", req.OutputFormat),
		zap.Int("text_chars", utf8.RuneCountInString(req.Text)),
		zap.Int("audio_bytes", len(audio)))

	return audio, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return model.Transient(model.ErrKindSynthesisFailed, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "ServiceUnavailableException",
			"ServiceFailureException", "InternalFailure", "RequestTimeout":
			return model.Transient(model.ErrKindSynthesisFailed, err)
		}
		if apiErr.ErrorFault() == smithy.FaultServer {
			return model.Transient(model.ErrKindSynthesisFailed, err)
		}
		return model.Permanent(model.ErrKindSynthesisFailed, err)
	}

	// Connection-level errors with no API classification
	return model.Transient(model.ErrKindSynthesisFailed, err)
}
