package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const notificationJSON = `{
  "Records": [
    {
      "eventName": "s3:ObjectCreated:Put",
      "s3": {
        "bucket": {"name": "source-polly"},
        "object": {"key": "docs%2Fquarterly+report.txt", "size": 42}
      }
    },
    {
      "eventName": "s3:ObjectRemoved:Delete",
      "s3": {
        "bucket": {"name": "source-polly"},
        "object": {"key": "old.txt", "size": 0}
      }
    }
  ]
}`

func TestNotification_Events(t *testing.T) {
	var n Notification
	require.NoError(t, json.Unmarshal([]byte(notificationJSON), &n))

	events := n.Events()

	require.Len(t, events, 1)
	assert.Equal(t, "source-polly", events[0].SourceBucket)
	assert.Equal(t, "docs/quarterly report.txt", events[0].SourceKey)
}

func TestNotification_EventsEmpty(t *testing.T) {
	var n Notification
	require.NoError(t, json.Unmarshal([]byte(`{"Records": []}`), &n))

	assert.Empty(t, n.Events())
}

func TestNotificationFor_RoundTrips(t *testing.T) {
	n := NotificationFor("source-polly", "docs/quarterly report.txt")

	events := n.Events()

	require.Len(t, events, 1)
	assert.Equal(t, "source-polly", events[0].SourceBucket)
	assert.Equal(t, "docs/quarterly report.txt", events[0].SourceKey)
}

func TestNotification_EventsKeepsUndecodableKeyRaw(t *testing.T) {
	n := Notification{
		Records: []EventRecord{
			{
				EventName: "ObjectCreated:Put",
				S3: RecordS3{
					Bucket: RecordBucket{Name: "source-polly"},
					Object: RecordObject{Key: "bad%zz.txt"},
				},
			},
		},
	}

	events := n.Events()

	require.Len(t, events, 1)
	assert.Equal(t, "bad%zz.txt", events[0].SourceKey)
}
