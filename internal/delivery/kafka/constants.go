package kafka

import "time"

const (
	TopicEmailSend  = "notify.email.req"
	TopicEmailRetry = "notify.email.retry"
	TopicEmailDLQ   = "notify.email.dlq"

	// ProduceTimeout bounds the enqueue so a stalled broker cannot hang the
	// request path; the primary state change has already committed by then.
	ProduceTimeout = 3 * time.Second

	MaxDeliveryAttempts = 5
	RetryBackoff        = 30 * time.Second

	RetryHeaderNextAt   = "x-next-at"
	RetryHeaderAttempts = "x-attempts"
	ErrorHeaderKey      = "x-error"
)
