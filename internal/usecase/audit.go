package usecase

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/stackdeals/deals-api/internal/domain"
	"github.com/stackdeals/deals-api/internal/repository"
)

// AuditLog appends AdminAction records for privileged mutations. Writes are
// fire-and-forget: a failed append is logged and never fails the operation
// that triggered it.
type AuditLog struct {
	store repository.Store
}

func NewAuditLog(store repository.Store) *AuditLog {
	return &AuditLog{store: store}
}

func (a *AuditLog) Record(ctx context.Context, actor Actor, kind domain.AdminActionKind, resourceType, resourceID string, before, after any) {
	beforeJSON, err := json.Marshal(before)
	if err != nil {
		log.Printf("audit: failed to encode before snapshot: %v", err)
		beforeJSON = nil
	}
	afterJSON, err := json.Marshal(after)
	if err != nil {
		log.Printf("audit: failed to encode after snapshot: %v", err)
		afterJSON = []byte(`{}`)
	}

	entry := &domain.AdminAction{
		ID:            uuid.NewString(),
		AdminID:       actor.UserID,
		Action:        kind,
		ResourceType:  resourceType,
		ResourceID:    resourceID,
		ChangesBefore: beforeJSON,
		ChangesAfter:  afterJSON,
		IPAddress:     orUnknown(actor.IP),
		UserAgent:     orUnknown(actor.UserAgent),
		CreatedAt:     time.Now().UTC(),
	}
	if err := a.store.InsertAdminAction(ctx, entry); err != nil {
		log.Printf("audit: failed to append %s on %s/%s: %v", kind, resourceType, resourceID, err)
	}
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}
