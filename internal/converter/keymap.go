package converter

import (
	"fmt"
	"strings"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/model"
)

// DeriveKey maps a source object key to its destination key by replacing
// fromSuffix with toSuffix. The suffix match is case-sensitive and exact;
// keys that do not carry the suffix, or that are nothing but the suffix
// (directory markers, bare extension objects), are rejected so an overly
// broad upstream event filter cannot feed non-text uploads through.
// Pure function: the same source key always yields the same destination key.
func DeriveKey(sourceKey, fromSuffix, toSuffix string) (string, error) {
	if fromSuffix == "" || !strings.HasSuffix(sourceKey, fromSuffix) {
		return "", model.Permanent(model.ErrKindUnsupportedFileType,
			fmt.Errorf("key %q does not end with %q", sourceKey, fromSuffix))
	}

	stem := strings.TrimSuffix(sourceKey, fromSuffix)
	if stem == "" || strings.HasSuffix(stem, "/") {
		return "", model.Permanent(model.ErrKindUnsupportedFileType,
			fmt.Errorf("key %q has no file name before %q", sourceKey, fromSuffix))
	}

	return stem + toSuffix, nil
}
