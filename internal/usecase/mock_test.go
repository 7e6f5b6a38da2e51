package usecase

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stackdeals/deals-api/internal/domain"
	"github.com/stackdeals/deals-api/internal/repository"
)

// mockStore implements repository.Store with overridable function fields.
// ExecTx runs the callback against the store itself, so InsertClaimFn and
// IncrementDealClaimsFn also back the transactional path.
type mockStore struct {
	ExecTxFn func(ctx context.Context, fn func(repository.Querier) error) error

	CreateUserFn             func(ctx context.Context, u *domain.User) error
	GetUserByIDFn            func(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmailFn         func(ctx context.Context, email string) (*domain.User, error)
	UpdateUserProfileFn      func(ctx context.Context, u *domain.User) error
	UpdateKYCSubmissionFn    func(ctx context.Context, u *domain.User) error
	SetKYCDecisionFn         func(ctx context.Context, userID string, status domain.KYCStatus, companyVerified bool, rejectionReason *string) (int64, error)
	VerifyEmailByTokenHashFn func(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	TouchLastLoginFn         func(ctx context.Context, userID string, at time.Time) error
	ListUsersByKYCStatusFn   func(ctx context.Context, status domain.KYCStatus, limit, offset int) ([]domain.User, int, error)

	CreateDealFn  func(ctx context.Context, d *domain.Deal) error
	GetDealByIDFn func(ctx context.Context, id string) (*domain.Deal, error)
	UpdateDealFn  func(ctx context.Context, d *domain.Deal) error
	DeleteDealFn  func(ctx context.Context, id string) (int64, error)
	ListDealsFn   func(ctx context.Context, category string, limit, offset int) ([]domain.Deal, int, error)

	InsertClaimFn           func(ctx context.Context, c *domain.Claim) (int64, error)
	IncrementDealClaimsFn   func(ctx context.Context, dealID string) (int, error)
	GetClaimByIDFn          func(ctx context.Context, id string) (*domain.Claim, error)
	GetClaimByUserAndDealFn func(ctx context.Context, userID, dealID string) (*domain.Claim, error)
	ListClaimsByUserFn      func(ctx context.Context, userID string, limit, offset int) ([]domain.Claim, int, error)
	ListClaimsByDealFn      func(ctx context.Context, dealID string) ([]domain.Claim, error)
	ListClaimsFn            func(ctx context.Context, status domain.ClaimStatus, limit, offset int) ([]domain.Claim, int, error)
	ApproveClaimIfPendingFn func(ctx context.Context, id string, approvedAt, expiresAt time.Time) (*domain.Claim, error)
	RejectClaimIfPendingFn  func(ctx context.Context, id string, rejectedAt time.Time, reason string) (*domain.Claim, error)

	CreateSessionFn  func(ctx context.Context, s *domain.Session) error
	GetSessionUserFn func(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)

	InsertAdminActionFn func(ctx context.Context, a *domain.AdminAction) error
	ListAdminActionsFn  func(ctx context.Context, limit, offset int) ([]domain.AdminAction, int, error)

	DashboardStatsFn func(ctx context.Context) (*repository.DashboardStats, error)
}

var _ repository.Store = (*mockStore)(nil)
var _ repository.Querier = (*mockStore)(nil)

func (m *mockStore) ExecTx(ctx context.Context, fn func(repository.Querier) error) error {
	if m.ExecTxFn != nil {
		return m.ExecTxFn(ctx, fn)
	}
	return fn(m)
}

func (m *mockStore) CreateUser(ctx context.Context, u *domain.User) error {
	return m.CreateUserFn(ctx, u)
}

func (m *mockStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return m.GetUserByIDFn(ctx, id)
}

func (m *mockStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.GetUserByEmailFn(ctx, email)
}

func (m *mockStore) UpdateUserProfile(ctx context.Context, u *domain.User) error {
	return m.UpdateUserProfileFn(ctx, u)
}

func (m *mockStore) UpdateKYCSubmission(ctx context.Context, u *domain.User) error {
	return m.UpdateKYCSubmissionFn(ctx, u)
}

func (m *mockStore) SetKYCDecision(ctx context.Context, userID string, status domain.KYCStatus, companyVerified bool, rejectionReason *string) (int64, error) {
	return m.SetKYCDecisionFn(ctx, userID, status, companyVerified, rejectionReason)
}

func (m *mockStore) VerifyEmailByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	return m.VerifyEmailByTokenHashFn(ctx, tokenHash, now)
}

func (m *mockStore) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	if m.TouchLastLoginFn != nil {
		return m.TouchLastLoginFn(ctx, userID, at)
	}
	return nil
}

func (m *mockStore) ListUsersByKYCStatus(ctx context.Context, status domain.KYCStatus, limit, offset int) ([]domain.User, int, error) {
	return m.ListUsersByKYCStatusFn(ctx, status, limit, offset)
}

func (m *mockStore) CreateDeal(ctx context.Context, d *domain.Deal) error {
	return m.CreateDealFn(ctx, d)
}

func (m *mockStore) GetDealByID(ctx context.Context, id string) (*domain.Deal, error) {
	return m.GetDealByIDFn(ctx, id)
}

func (m *mockStore) UpdateDeal(ctx context.Context, d *domain.Deal) error {
	return m.UpdateDealFn(ctx, d)
}

func (m *mockStore) DeleteDeal(ctx context.Context, id string) (int64, error) {
	return m.DeleteDealFn(ctx, id)
}

func (m *mockStore) ListDeals(ctx context.Context, category string, limit, offset int) ([]domain.Deal, int, error) {
	return m.ListDealsFn(ctx, category, limit, offset)
}

func (m *mockStore) InsertClaim(ctx context.Context, c *domain.Claim) (int64, error) {
	return m.InsertClaimFn(ctx, c)
}

func (m *mockStore) IncrementDealClaims(ctx context.Context, dealID string) (int, error) {
	return m.IncrementDealClaimsFn(ctx, dealID)
}

func (m *mockStore) GetClaimByID(ctx context.Context, id string) (*domain.Claim, error) {
	return m.GetClaimByIDFn(ctx, id)
}

func (m *mockStore) GetClaimByUserAndDeal(ctx context.Context, userID, dealID string) (*domain.Claim, error) {
	if m.GetClaimByUserAndDealFn != nil {
		return m.GetClaimByUserAndDealFn(ctx, userID, dealID)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockStore) ListClaimsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Claim, int, error) {
	return m.ListClaimsByUserFn(ctx, userID, limit, offset)
}

func (m *mockStore) ListClaimsByDeal(ctx context.Context, dealID string) ([]domain.Claim, error) {
	return m.ListClaimsByDealFn(ctx, dealID)
}

func (m *mockStore) ListClaims(ctx context.Context, status domain.ClaimStatus, limit, offset int) ([]domain.Claim, int, error) {
	return m.ListClaimsFn(ctx, status, limit, offset)
}

func (m *mockStore) ApproveClaimIfPending(ctx context.Context, id string, approvedAt, expiresAt time.Time) (*domain.Claim, error) {
	return m.ApproveClaimIfPendingFn(ctx, id, approvedAt, expiresAt)
}

func (m *mockStore) RejectClaimIfPending(ctx context.Context, id string, rejectedAt time.Time, reason string) (*domain.Claim, error) {
	return m.RejectClaimIfPendingFn(ctx, id, rejectedAt, reason)
}

func (m *mockStore) CreateSession(ctx context.Context, s *domain.Session) error {
	return m.CreateSessionFn(ctx, s)
}

func (m *mockStore) GetSessionUser(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	return m.GetSessionUserFn(ctx, tokenHash, now)
}

func (m *mockStore) InsertAdminAction(ctx context.Context, a *domain.AdminAction) error {
	if m.InsertAdminActionFn != nil {
		return m.InsertAdminActionFn(ctx, a)
	}
	return nil
}

func (m *mockStore) ListAdminActions(ctx context.Context, limit, offset int) ([]domain.AdminAction, int, error) {
	return m.ListAdminActionsFn(ctx, limit, offset)
}

func (m *mockStore) DashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	return m.DashboardStatsFn(ctx)
}

// mockNotifier records every dispatched notification.
type mockNotifier struct {
	claimApproved     []string
	claimRejected     []string
	kycApproved       []string
	kycRejected       []string
	emailVerification []string
	err               error
}

func (n *mockNotifier) ClaimApproved(ctx context.Context, email, dealTitle, claimCode string) error {
	n.claimApproved = append(n.claimApproved, email)
	return n.err
}

func (n *mockNotifier) ClaimRejected(ctx context.Context, email, dealTitle, reason string) error {
	n.claimRejected = append(n.claimRejected, email)
	return n.err
}

func (n *mockNotifier) KYCApproved(ctx context.Context, email, companyName string) error {
	n.kycApproved = append(n.kycApproved, email)
	return n.err
}

func (n *mockNotifier) KYCRejected(ctx context.Context, email, companyName, reason string) error {
	n.kycRejected = append(n.kycRejected, email)
	return n.err
}

func (n *mockNotifier) EmailVerification(ctx context.Context, email, token string) error {
	n.emailVerification = append(n.emailVerification, email)
	return n.err
}

var _ Notifier = (*mockNotifier)(nil)
