package kafka

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/stackdeals/deals-api/internal/notify"
)

// Worker consumes email events and delivers them through the mailer. Failed
// deliveries go to the retry topic with a backoff header; after
// MaxDeliveryAttempts they land in the DLQ.
type Worker struct {
	client *kgo.Client
	mailer notify.Mailer
	ready  chan struct{}
}

func NewWorker(client *kgo.Client, mailer notify.Mailer) *Worker {
	return &Worker{
		client: client,
		mailer: mailer,
		ready:  make(chan struct{}),
	}
}

func (w *Worker) Ready() <-chan struct{} {
	return w.ready
}

func (w *Worker) Start(ctx context.Context) {
	close(w.ready)
	for {
		fetches := w.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			log.Printf("notify worker poll errors: %v", errs)
		}

		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()
			w.deliver(ctx, record)
		}

		if err := w.client.CommitRecords(ctx, fetches.Records()...); err != nil {
			log.Printf("notify worker: failed to commit records: %v", err)
		}
	}
}

// StartRetry requeues records from the retry topic back onto the main topic
// once their backoff deadline passes.
func (w *Worker) StartRetry(ctx context.Context) {
	for {
		fetches := w.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return
		}
		iter := fetches.RecordIter()
		for !iter.Done() {
			record := iter.Next()

			if nextAt, ok := retryNextAt(record); ok && time.Now().Before(nextAt) {
				time.Sleep(time.Until(nextAt))
			}

			requeued := &kgo.Record{
				Topic:   TopicEmailSend,
				Key:     record.Key,
				Value:   record.Value,
				Headers: record.Headers,
			}
			if err := w.client.ProduceSync(ctx, requeued).FirstErr(); err != nil {
				log.Printf("notify worker: failed to requeue retry record: %v", err)
			}
		}
		if err := w.client.CommitRecords(ctx, fetches.Records()...); err != nil {
			log.Printf("notify worker: failed to commit retry records: %v", err)
		}
	}
}

func (w *Worker) deliver(ctx context.Context, record *kgo.Record) {
	var event EmailEvent
	if err := json.Unmarshal(record.Value, &event); err != nil {
		w.deadLetter(ctx, record, "invalid event payload")
		return
	}

	subject, body := notify.Render(event.Kind, event.Fields)
	if err := w.mailer.Send(event.To, subject, body); err != nil {
		log.Printf("notify worker: delivery of %s to %s failed: %v", event.Kind, event.To, err)
		w.scheduleRetry(ctx, record, err.Error())
	}
}

func (w *Worker) scheduleRetry(ctx context.Context, record *kgo.Record, reason string) {
	attempts := deliveryAttempts(record) + 1
	if attempts >= MaxDeliveryAttempts {
		w.deadLetter(ctx, record, reason)
		return
	}

	retry := &kgo.Record{
		Topic: TopicEmailRetry,
		Key:   record.Key,
		Value: record.Value,
		Headers: []kgo.RecordHeader{
			{Key: RetryHeaderNextAt, Value: []byte(time.Now().Add(RetryBackoff).Format(time.RFC3339))},
			{Key: RetryHeaderAttempts, Value: []byte(strconv.Itoa(attempts))},
			{Key: ErrorHeaderKey, Value: []byte(reason)},
		},
	}
	if err := w.client.ProduceSync(ctx, retry).FirstErr(); err != nil {
		log.Printf("notify worker: failed to schedule retry: %v", err)
	}
}

func (w *Worker) deadLetter(ctx context.Context, record *kgo.Record, reason string) {
	dlq := &kgo.Record{
		Topic: TopicEmailDLQ,
		Key:   record.Key,
		Value: record.Value,
		Headers: []kgo.RecordHeader{
			{Key: ErrorHeaderKey, Value: []byte(reason)},
		},
	}
	if err := w.client.ProduceSync(ctx, dlq).FirstErr(); err != nil {
		log.Printf("notify worker: failed to dead-letter record: %v", err)
	}
}

func retryNextAt(record *kgo.Record) (time.Time, bool) {
	for _, header := range record.Headers {
		if header.Key != RetryHeaderNextAt {
			continue
		}
		nextAt, err := time.Parse(time.RFC3339, string(header.Value))
		if err != nil {
			return time.Time{}, false
		}
		return nextAt, true
	}
	return time.Time{}, false
}

func deliveryAttempts(record *kgo.Record) int {
	for _, header := range record.Headers {
		if header.Key != RetryHeaderAttempts {
			continue
		}
		n, err := strconv.Atoi(string(header.Value))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}
