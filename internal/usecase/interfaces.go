package usecase

import "context"

// Notifier dispatches user-facing emails. Implementations are best-effort:
// callers log a returned error and move on, the primary state change is never
// rolled back because a notification failed.
type Notifier interface {
	ClaimApproved(ctx context.Context, email, dealTitle, claimCode string) error
	ClaimRejected(ctx context.Context, email, dealTitle, reason string) error
	KYCApproved(ctx context.Context, email, companyName string) error
	KYCRejected(ctx context.Context, email, companyName, reason string) error
	EmailVerification(ctx context.Context, email, token string) error
}

// Actor identifies the authenticated caller of a privileged operation,
// including request provenance for the audit trail.
type Actor struct {
	UserID    string
	Role      string
	IP        string
	UserAgent string
}

func (a Actor) IsAdmin() bool { return a.Role == "admin" }
