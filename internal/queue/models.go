package queue

import (
	"net/url"
	"strings"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/model"
)

// Notification is the bucket-notification payload that S3-compatible
// stores (MinIO, Yandex Object Storage) publish on object events.
type Notification struct {
	Records []EventRecord `json:"Records"`
}

type EventRecord struct {
	EventName string   `json:"eventName"`
	S3        RecordS3 `json:"s3"`
}

type RecordS3 struct {
	Bucket RecordBucket `json:"bucket"`
	Object RecordObject `json:"object"`
}

type RecordBucket struct {
	Name string `json:"name"`
}

type RecordObject struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// NotificationFor builds an object-created notification for one object,
// in the same encoded form the object store publishes. Used to re-drive
// failed conversions back through the queue.
func NotificationFor(bucket, key string) *Notification {
	return &Notification{
		Records: []EventRecord{
			{
				EventName: "s3:ObjectCreated:Put",
				S3: RecordS3{
					Bucket: RecordBucket{Name: bucket},
					Object: RecordObject{Key: url.QueryEscape(key)},
				},
			},
		},
	}
}

// Events extracts conversion events from object-created records. Object
// keys arrive URL-encoded in bucket notifications and are decoded here;
// records for other event types (removal, access) are skipped.
func (n *Notification) Events() []model.ConversionEvent {
	events := make([]model.ConversionEvent, 0, len(n.Records))
	for _, record := range n.Records {
		if record.EventName != "" && !strings.Contains(record.EventName, "ObjectCreated") {
			continue
		}

		key := record.S3.Object.Key
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}

		events = append(events, model.ConversionEvent{
			SourceBucket: record.S3.Bucket.Name,
			SourceKey:    key,
		})
	}
	return events
}
