package kafka

import (
	"context"

	"github.com/stackdeals/deals-api/internal/notify"
	"github.com/stackdeals/deals-api/internal/usecase"
)

// DirectNotifier sends through the mailer synchronously, for deployments
// running without the event-driven pipeline.
type DirectNotifier struct {
	mailer  notify.Mailer
	baseURL string
}

func NewDirectNotifier(mailer notify.Mailer, baseURL string) usecase.Notifier {
	return &DirectNotifier{mailer: mailer, baseURL: baseURL}
}

func (d *DirectNotifier) ClaimApproved(ctx context.Context, email, dealTitle, claimCode string) error {
	return d.send(KindClaimApproved, email, map[string]string{"dealTitle": dealTitle, "claimCode": claimCode})
}

func (d *DirectNotifier) ClaimRejected(ctx context.Context, email, dealTitle, reason string) error {
	return d.send(KindClaimRejected, email, map[string]string{"dealTitle": dealTitle, "reason": reason})
}

func (d *DirectNotifier) KYCApproved(ctx context.Context, email, companyName string) error {
	return d.send(KindKYCApproved, email, map[string]string{"companyName": companyName})
}

func (d *DirectNotifier) KYCRejected(ctx context.Context, email, companyName, reason string) error {
	return d.send(KindKYCRejected, email, map[string]string{"companyName": companyName, "reason": reason})
}

func (d *DirectNotifier) EmailVerification(ctx context.Context, email, token string) error {
	return d.send(KindEmailVerification, email, map[string]string{"token": token, "baseURL": d.baseURL})
}

func (d *DirectNotifier) send(kind, to string, fields map[string]string) error {
	subject, body := notify.Render(kind, fields)
	return d.mailer.Send(to, subject, body)
}
