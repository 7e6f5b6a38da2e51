package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"

	"github.com/stackdeals/deals-api/internal/domain"
	"github.com/stackdeals/deals-api/internal/repository"
)

type AdminService struct {
	store    repository.Store
	notifier Notifier
	audit    *AuditLog
}

func NewAdminService(store repository.Store, notifier Notifier, audit *AuditLog) *AdminService {
	return &AdminService{store: store, notifier: notifier, audit: audit}
}

func (s *AdminService) ApproveKYC(ctx context.Context, actor Actor, userID string) (*domain.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("User not found")
		}
		return nil, err
	}
	previous := user.KYCStatus

	affected, err := s.store.SetKYCDecision(ctx, userID, domain.KYCApproved, true, nil)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.Conflict("KYC already approved")
	}

	if err := s.notifier.KYCApproved(ctx, user.Email, companyNameOf(user)); err != nil {
		log.Printf("user %s: KYC approval email dispatch failed: %v", userID, err)
	}
	s.audit.Record(ctx, actor, domain.ActionApproveKYC, "user", userID,
		map[string]any{"kycStatus": previous},
		map[string]any{"kycStatus": domain.KYCApproved, "isCompanyVerified": true},
	)

	user.KYCStatus = domain.KYCApproved
	user.IsCompanyVerified = true
	user.KYCRejectionReason = nil
	return user, nil
}

func (s *AdminService) RejectKYC(ctx context.Context, actor Actor, userID, rejectionReason string) (*domain.User, error) {
	if rejectionReason == "" {
		return nil, domain.Validation("Rejection reason is required")
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("User not found")
		}
		return nil, err
	}
	previous := user.KYCStatus

	affected, err := s.store.SetKYCDecision(ctx, userID, domain.KYCRejected, false, &rejectionReason)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.Conflict("KYC already rejected")
	}

	if err := s.notifier.KYCRejected(ctx, user.Email, companyNameOf(user), rejectionReason); err != nil {
		log.Printf("user %s: KYC rejection email dispatch failed: %v", userID, err)
	}
	s.audit.Record(ctx, actor, domain.ActionRejectKYC, "user", userID,
		map[string]any{"kycStatus": previous},
		map[string]any{"kycStatus": domain.KYCRejected, "rejectionReason": rejectionReason},
	)

	user.KYCStatus = domain.KYCRejected
	user.IsCompanyVerified = false
	user.KYCRejectionReason = &rejectionReason
	return user, nil
}

func (s *AdminService) ListKYCRequests(ctx context.Context, status domain.KYCStatus, limit, offset int) ([]domain.User, int, error) {
	if status == "" {
		status = domain.KYCPending
	}
	return s.store.ListUsersByKYCStatus(ctx, status, limit, offset)
}

func (s *AdminService) ListClaims(ctx context.Context, status domain.ClaimStatus, limit, offset int) ([]domain.Claim, int, error) {
	return s.store.ListClaims(ctx, status, limit, offset)
}

func (s *AdminService) ListAuditLog(ctx context.Context, limit, offset int) ([]domain.AdminAction, int, error) {
	return s.store.ListAdminActions(ctx, limit, offset)
}

func (s *AdminService) Dashboard(ctx context.Context) (*repository.DashboardStats, error) {
	return s.store.DashboardStats(ctx)
}

func companyNameOf(u *domain.User) string {
	if u.CompanyName != nil && *u.CompanyName != "" {
		return *u.CompanyName
	}
	return "Your Company"
}
