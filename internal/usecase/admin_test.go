package usecase

import (
	"context"
	"testing"

	"github.com/stackdeals/deals-api/internal/domain"
)

func TestApproveKYC(t *testing.T) {
	company := "Acme Inc"
	notifier := &mockNotifier{}
	var audited []*domain.AdminAction
	store := &mockStore{
		GetUserByIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Email: "founder@example.com", CompanyName: &company, KYCStatus: domain.KYCPending}, nil
		},
		SetKYCDecisionFn: func(ctx context.Context, userID string, status domain.KYCStatus, companyVerified bool, rejectionReason *string) (int64, error) {
			if status != domain.KYCApproved || !companyVerified || rejectionReason != nil {
				t.Errorf("unexpected decision args: status=%q verified=%v reason=%v", status, companyVerified, rejectionReason)
			}
			return 1, nil
		},
		InsertAdminActionFn: func(ctx context.Context, a *domain.AdminAction) error {
			audited = append(audited, a)
			return nil
		},
	}
	svc := NewAdminService(store, notifier, NewAuditLog(store))

	user, err := svc.ApproveKYC(context.Background(), Actor{UserID: "admin-1", Role: "admin"}, "user-1")
	if err != nil {
		t.Fatalf("ApproveKYC: %v", err)
	}
	if user.KYCStatus != domain.KYCApproved || !user.IsCompanyVerified {
		t.Errorf("user = %+v, want approved and company-verified", user)
	}
	if len(notifier.kycApproved) != 1 {
		t.Errorf("kyc approval emails = %d, want 1", len(notifier.kycApproved))
	}
	if len(audited) != 1 || audited[0].Action != domain.ActionApproveKYC {
		t.Errorf("audit entries = %+v, want one approve-kyc record", audited)
	}
}

func TestApproveKYCAlreadyApproved(t *testing.T) {
	store := &mockStore{
		GetUserByIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, KYCStatus: domain.KYCApproved}, nil
		},
		SetKYCDecisionFn: func(ctx context.Context, userID string, status domain.KYCStatus, companyVerified bool, rejectionReason *string) (int64, error) {
			return 0, nil
		},
	}
	svc := NewAdminService(store, &mockNotifier{}, NewAuditLog(store))

	_, err := svc.ApproveKYC(context.Background(), Actor{UserID: "admin-1", Role: "admin"}, "user-1")
	assertKind(t, err, domain.KindConflict, "KYC already approved")
}

func TestRejectKYC(t *testing.T) {
	notifier := &mockNotifier{}
	store := &mockStore{
		GetUserByIDFn: func(ctx context.Context, id string) (*domain.User, error) {
			return &domain.User{ID: id, Email: "founder@example.com", KYCStatus: domain.KYCPending}, nil
		},
		SetKYCDecisionFn: func(ctx context.Context, userID string, status domain.KYCStatus, companyVerified bool, rejectionReason *string) (int64, error) {
			if status != domain.KYCRejected || rejectionReason == nil || *rejectionReason != "Documents unreadable" {
				t.Errorf("unexpected decision args: status=%q reason=%v", status, rejectionReason)
			}
			return 1, nil
		},
	}
	svc := NewAdminService(store, notifier, NewAuditLog(store))

	user, err := svc.RejectKYC(context.Background(), Actor{UserID: "admin-1", Role: "admin"}, "user-1", "Documents unreadable")
	if err != nil {
		t.Fatalf("RejectKYC: %v", err)
	}
	if user.KYCStatus != domain.KYCRejected {
		t.Errorf("kycStatus = %q, want rejected", user.KYCStatus)
	}
	if user.KYCRejectionReason == nil || *user.KYCRejectionReason != "Documents unreadable" {
		t.Error("rejection reason not carried on the returned user")
	}
	if len(notifier.kycRejected) != 1 {
		t.Errorf("kyc rejection emails = %d, want 1", len(notifier.kycRejected))
	}
}

func TestRejectKYCRequiresReason(t *testing.T) {
	store := &mockStore{}
	svc := NewAdminService(store, &mockNotifier{}, NewAuditLog(store))

	_, err := svc.RejectKYC(context.Background(), Actor{UserID: "admin-1", Role: "admin"}, "user-1", "")
	assertKind(t, err, domain.KindValidation, "Rejection reason is required")
}

func TestListKYCRequestsDefaultsToPending(t *testing.T) {
	var gotStatus domain.KYCStatus
	store := &mockStore{
		ListUsersByKYCStatusFn: func(ctx context.Context, status domain.KYCStatus, limit, offset int) ([]domain.User, int, error) {
			gotStatus = status
			return nil, 0, nil
		},
	}
	svc := NewAdminService(store, &mockNotifier{}, NewAuditLog(store))

	if _, _, err := svc.ListKYCRequests(context.Background(), "", 10, 0); err != nil {
		t.Fatalf("ListKYCRequests: %v", err)
	}
	if gotStatus != domain.KYCPending {
		t.Errorf("status = %q, want pending default", gotStatus)
	}
}
