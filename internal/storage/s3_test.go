package storage

import (
	"errors"
	"testing"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/model"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestClassify_NoSuchKey(t *testing.T) {
	err := classify("get object", &types.NoSuchKey{})

	assert.Equal(t, model.ErrKindSourceNotFound, model.KindOf(err))
	assert.False(t, model.IsTransient(err))
}

func TestClassify_APIErrorNotFound(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "bucket does not exist"}

	err := classify("get object", apiErr)

	assert.Equal(t, model.ErrKindSourceNotFound, model.KindOf(err))
}

func TestClassify_OtherErrorsTransient(t *testing.T) {
	err := classify("get object", errors.New("connection reset by peer"))

	assert.Equal(t, model.ErrKindStorageUnavailable, model.KindOf(err))
	assert.True(t, model.IsTransient(err))
}
