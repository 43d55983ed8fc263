package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/converter"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/internal/storage"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/model"
	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/resilience"
)

type stubSynthesizer struct {
	audio []byte
	err   error
}

func (s stubSynthesizer) Synthesize(ctx context.Context, req model.SynthesisRequest) ([]byte, error) {
	return s.audio, s.err
}

func setupHandler(t *testing.T, store converter.ObjectStore, synth converter.Synthesizer) {
	t.Helper()
	log = zap.NewNop()
	jrnl = nil
	handler = converter.NewHandler(store, synth, converter.Options{
		DestinationBucket: "destination-polly",
		Retry:             &resilience.RetryConfig{MaxAttempts: 2, InitialInterval: 1, MaxInterval: 1, Multiplier: 1},
	}, log)
}

func s3EventFor(key string) events.S3Event {
	return events.S3Event{
		Records: []events.S3EventRecord{
			{
				EventName: "ObjectCreated:Put",
				S3: events.S3Entity{
					Bucket: events.S3Bucket{Name: "source-polly"},
					Object: events.S3Object{Key: key},
				},
			},
		},
	}
}

func TestHandleRequest_Success(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "source-polly", "report.txt", []byte("Hello world"), "text/plain"))
	setupHandler(t, store, stubSynthesizer{audio: []byte("mp3-bytes")})

	resp, err := handleRequest(context.Background(), s3EventFor("report.txt"))

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "report.mp3", resp.Results[0].DestinationKey)
}

func TestHandleRequest_DecodesObjectKey(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "source-polly", "docs/quarterly report.txt", []byte("Hello"), "text/plain"))
	setupHandler(t, store, stubSynthesizer{audio: []byte("mp3-bytes")})

	resp, err := handleRequest(context.Background(), s3EventFor("docs%2Fquarterly+report.txt"))

	require.NoError(t, err)
	assert.Equal(t, "docs/quarterly report.mp3", resp.Results[0].DestinationKey)
}

func TestHandleRequest_RetryableFailureReturnsError(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "source-polly", "report.txt", []byte("Hello world"), "text/plain"))
	setupHandler(t, store, stubSynthesizer{
		err: model.Transient(model.ErrKindSynthesisFailed, errors.New("throttled")),
	})

	resp, err := handleRequest(context.Background(), s3EventFor("report.txt"))

	// Async S3 invocation retries on handler error only, so exhausted
	// transient failures must surface as one.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "synthesis_failed")
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleRequest_PermanentFailureReturnsNilError(t *testing.T) {
	store := storage.NewMemoryStore()
	setupHandler(t, store, stubSynthesizer{audio: []byte("mp3-bytes")})

	resp, err := handleRequest(context.Background(), s3EventFor("archive.zip"))

	// Redelivering an unsupported object cannot change the outcome;
	// the failure is reported in the payload, not as a retryable error.
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, model.ErrKindUnsupportedFileType, resp.Results[0].ErrorKind)
}
