package converter

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/model"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/resilience"
	"go.uber.org/zap"
)

// ObjectStore is the object-storage collaborator, safe for concurrent
// independent access by key. Put replaces any existing object at key.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
}

// Synthesizer is the speech-synthesis collaborator
type Synthesizer interface {
	Synthesize(ctx context.Context, req model.SynthesisRequest) ([]byte, error)
}

type Options struct {
	DestinationBucket string
	VoiceID           string
	OutputFormat      string
	SourceSuffix      string
	MaxInputChars     int
	CallTimeout       time.Duration
	Retry             *resilience.RetryConfig
}

// Handler converts one uploaded text object into an audio object.
// Invocations are stateless and may run concurrently.
type Handler struct {
	store ObjectStore
	synth Synthesizer
	opts  Options
	log   *zap.Logger
}

// NewHandler creates a conversion handler
func NewHandler(store ObjectStore, synth Synthesizer, opts Options, log *zap.Logger) *Handler {
	if opts.VoiceID == "" {
		opts.VoiceID = "Joanna"
	}
	if opts.OutputFormat == "" {
		opts.OutputFormat = "mp3"
	}
	if opts.SourceSuffix == "" {
		opts.SourceSuffix = ".txt"
	}
	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = 3000
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 30 * time.Second
	}
	if opts.Retry == nil {
		opts.Retry = resilience.DefaultRetryConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Handler{
		store: store,
		synth: synth,
		opts:  opts,
		log:   log,
	}
}

// Handle runs the fetch -> synthesize -> store pipeline for one event.
// It always returns a structured result; no fault escapes the boundary.
func (h *Handler) Handle(ctx context.Context, event model.ConversionEvent) (result model.ConversionResult) {
	log := h.log.With(
		zap.String("source_bucket", event.SourceBucket),
		zap.String("source_key", event.SourceKey))

	defer func() {
		if r := recover(); r != nil {
			log.Error("Conversion panicked", zap.Any("panic", r))
			result = model.Failure(model.Permanent(model.ErrKindInternal, fmt.Errorf("panic: %v", r)))
		}
	}()

	if event.SourceBucket == "" || event.SourceKey == "" {
		return h.fail(log, model.Permanent(model.ErrKindMalformedEvent,
			errors.New("source bucket and key are required")))
	}

	// Destination key is derived before any network call so unsupported
	// uploads are rejected without touching storage.
	destKey, err := DeriveKey(event.SourceKey, h.opts.SourceSuffix, "."+h.opts.OutputFormat)
	if err != nil {
		return h.fail(log, err)
	}
	log = log.With(zap.String("destination_key", destKey))

	var data []byte
	err = h.withRetry(ctx, func(callCtx context.Context) error {
		var gerr error
		data, gerr = h.store.Get(callCtx, event.SourceBucket, event.SourceKey)
		return gerr
	})
	if err != nil {
		return h.fail(log, err)
	}

	log.Info("Source object fetched", zap.Int("size", len(data)))

	if !utf8.Valid(data) {
		return h.fail(log, model.Permanent(model.ErrKindInvalidEncoding,
			errors.New("source object is not valid UTF-8 text")))
	}
	text := string(data)

	if n := utf8.RuneCountInString(text); n > h.opts.MaxInputChars {
		return h.fail(log, model.Permanent(model.ErrKindInputTooLarge,
			fmt.Errorf("input is %d characters, limit is %d", n, h.opts.MaxInputChars)))
	}

	req := model.SynthesisRequest{
		Text:         text,
		VoiceID:      h.opts.VoiceID,
		OutputFormat: h.opts.OutputFormat,
	}

	var audio []byte
	err = h.withRetry(ctx, func(callCtx context.Context) error {
		var serr error
		audio, serr = h.synth.Synthesize(callCtx, req)
		return serr
	})
	if err != nil {
		return h.fail(log, err)
	}

	log.Info("Speech synthesized",
		zap.String("voice_id", req.VoiceID),
		zap.Int("audio_bytes", len(audio)))

	contentType := contentTypeFor(h.opts.OutputFormat)
	err = h.withRetry(ctx, func(callCtx context.Context) error {
		return h.store.Put(callCtx, h.opts.DestinationBucket, destKey, audio, contentType)
	})
	if err != nil {
		return h.fail(log, err)
	}

	log.Info("Conversion completed",
		zap.String("destination_bucket", h.opts.DestinationBucket))

	return model.Success(destKey)
}

// withRetry wraps one network call with the per-call timeout and the
// retry policy. A cancelled parent context always surfaces as Cancelled,
// never as the transient kind of the failed call. Cancelled stays
// transient: the event was interrupted, not rejected, so it remains
// eligible for redelivery.
func (h *Handler) withRetry(ctx context.Context, fn func(callCtx context.Context) error) error {
	err := resilience.RetryWithExponentialBackoff(ctx, h.opts.Retry, model.IsTransient, func() error {
		callCtx, cancel := context.WithTimeout(ctx, h.opts.CallTimeout)
		defer cancel()
		return fn(callCtx)
	})
	if err != nil && ctx.Err() != nil {
		return model.Transient(model.ErrKindCancelled, ctx.Err())
	}
	return err
}

func (h *Handler) fail(log *zap.Logger, err error) model.ConversionResult {
	result := model.Failure(err)
	log.Error("Conversion failed",
		zap.String("error_kind", string(result.ErrorKind)),
		zap.Bool("retryable", result.Retryable),
		zap.Error(err))
	return result
}

func contentTypeFor(outputFormat string) string {
	switch outputFormat {
	case "mp3":
		return "audio/mpeg"
	case "ogg_vorbis":
		return "audio/ogg"
	case "pcm":
		return "audio/pcm"
	default:
		return "application/octet-stream"
	}
}
