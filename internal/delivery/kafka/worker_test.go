package kafka

import (
	"testing"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

func TestRetryNextAt(t *testing.T) {
	at := time.Now().Add(RetryBackoff).Truncate(time.Second)
	record := &kgo.Record{Headers: []kgo.RecordHeader{
		{Key: RetryHeaderNextAt, Value: []byte(at.Format(time.RFC3339))},
	}}

	nextAt, ok := retryNextAt(record)
	if !ok {
		t.Fatal("header not found")
	}
	if !nextAt.Equal(at) {
		t.Errorf("nextAt = %v, want %v", nextAt, at)
	}
}

func TestRetryNextAtMissingOrInvalid(t *testing.T) {
	if _, ok := retryNextAt(&kgo.Record{}); ok {
		t.Error("expected no deadline on a record without headers")
	}
	record := &kgo.Record{Headers: []kgo.RecordHeader{
		{Key: RetryHeaderNextAt, Value: []byte("not-a-time")},
	}}
	if _, ok := retryNextAt(record); ok {
		t.Error("expected no deadline for an unparsable header")
	}
}

func TestDeliveryAttempts(t *testing.T) {
	if got := deliveryAttempts(&kgo.Record{}); got != 0 {
		t.Errorf("attempts = %d, want 0 for a fresh record", got)
	}
	record := &kgo.Record{Headers: []kgo.RecordHeader{
		{Key: RetryHeaderAttempts, Value: []byte("3")},
	}}
	if got := deliveryAttempts(record); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
	bad := &kgo.Record{Headers: []kgo.RecordHeader{
		{Key: RetryHeaderAttempts, Value: []byte("many")},
	}}
	if got := deliveryAttempts(bad); got != 0 {
		t.Errorf("attempts = %d, want 0 for a garbled header", got)
	}
}
