package polly

import (
	"context"
	"errors"
	"testing"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/model"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestClassify_Throttling(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "ThrottlingException", Message: "rate exceeded"}

	err := classify(apiErr)

	assert.Equal(t, model.ErrKindSynthesisFailed, model.KindOf(err))
	assert.True(t, model.IsTransient(err))
}

func TestClassify_ServerFault(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "SomethingBroke", Fault: smithy.FaultServer}

	err := classify(apiErr)

	assert.True(t, model.IsTransient(err))
}

func TestClassify_ValidationPermanent(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "InvalidSsmlException", Fault: smithy.FaultClient}

	err := classify(apiErr)

	assert.Equal(t, model.ErrKindSynthesisFailed, model.KindOf(err))
	assert.False(t, model.IsTransient(err))
}

func TestClassify_Timeout(t *testing.T) {
	err := classify(context.DeadlineExceeded)

	assert.True(t, model.IsTransient(err))
}

func TestClassify_ConnectionError(t *testing.T) {
	err := classify(errors.New("dial tcp: connection refused"))

	assert.Equal(t, model.ErrKindSynthesisFailed, model.KindOf(err))
	assert.True(t, model.IsTransient(err))
}
