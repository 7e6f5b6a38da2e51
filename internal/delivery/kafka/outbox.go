package kafka

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/stackdeals/deals-api/internal/usecase"
)

// Outbox produces email events to the notification topic. It is the
// event-driven implementation of usecase.Notifier: enqueueing is bounded and
// best-effort, delivery with retries is the worker's job.
type Outbox struct {
	client  *kgo.Client
	baseURL string
}

func NewOutbox(client *kgo.Client, baseURL string) *Outbox {
	return &Outbox{client: client, baseURL: baseURL}
}

func (o *Outbox) ClaimApproved(ctx context.Context, email, dealTitle, claimCode string) error {
	return o.enqueue(ctx, KindClaimApproved, email, map[string]string{
		"dealTitle": dealTitle,
		"claimCode": claimCode,
	})
}

func (o *Outbox) ClaimRejected(ctx context.Context, email, dealTitle, reason string) error {
	return o.enqueue(ctx, KindClaimRejected, email, map[string]string{
		"dealTitle": dealTitle,
		"reason":    reason,
	})
}

func (o *Outbox) KYCApproved(ctx context.Context, email, companyName string) error {
	return o.enqueue(ctx, KindKYCApproved, email, map[string]string{
		"companyName": companyName,
	})
}

func (o *Outbox) KYCRejected(ctx context.Context, email, companyName, reason string) error {
	return o.enqueue(ctx, KindKYCRejected, email, map[string]string{
		"companyName": companyName,
		"reason":      reason,
	})
}

func (o *Outbox) EmailVerification(ctx context.Context, email, token string) error {
	return o.enqueue(ctx, KindEmailVerification, email, map[string]string{
		"token":   token,
		"baseURL": o.baseURL,
	})
}

func (o *Outbox) enqueue(ctx context.Context, kind, to string, fields map[string]string) error {
	event := EmailEvent{
		SchemaVersion: 1,
		EventID:       uuid.NewString(),
		Kind:          kind,
		To:            to,
		Fields:        fields,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, ProduceTimeout)
	defer cancel()

	record := &kgo.Record{
		Topic: TopicEmailSend,
		Key:   []byte(to),
		Value: payload,
	}
	return o.client.ProduceSync(ctx, record).FirstErr()
}

var _ usecase.Notifier = (*Outbox)(nil)
