package kafka

const (
	KindClaimApproved     = "claim-approved"
	KindClaimRejected     = "claim-rejected"
	KindKYCApproved       = "kyc-approved"
	KindKYCRejected       = "kyc-rejected"
	KindEmailVerification = "verify-email"
)

// EmailEvent is the outbox record for one notification. Fields carries the
// template variables for the event kind.
type EmailEvent struct {
	SchemaVersion int               `json:"schema_version"`
	EventID       string            `json:"event_id"`
	Kind          string            `json:"kind"`
	To            string            `json:"to"`
	Fields        map[string]string `json:"fields,omitempty"`
}
