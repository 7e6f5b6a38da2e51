package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stackdeals/deals-api/internal/domain"
)

// Store is the persistence surface consumed by the usecase layer.
type Store interface {
	ExecTx(ctx context.Context, fn func(Querier) error) error

	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUserProfile(ctx context.Context, u *domain.User) error
	UpdateKYCSubmission(ctx context.Context, u *domain.User) error
	SetKYCDecision(ctx context.Context, userID string, status domain.KYCStatus, companyVerified bool, rejectionReason *string) (int64, error)
	VerifyEmailByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	TouchLastLogin(ctx context.Context, userID string, at time.Time) error
	ListUsersByKYCStatus(ctx context.Context, status domain.KYCStatus, limit, offset int) ([]domain.User, int, error)

	CreateDeal(ctx context.Context, d *domain.Deal) error
	GetDealByID(ctx context.Context, id string) (*domain.Deal, error)
	UpdateDeal(ctx context.Context, d *domain.Deal) error
	DeleteDeal(ctx context.Context, id string) (int64, error)
	ListDeals(ctx context.Context, category string, limit, offset int) ([]domain.Deal, int, error)

	InsertClaim(ctx context.Context, c *domain.Claim) (int64, error)
	GetClaimByID(ctx context.Context, id string) (*domain.Claim, error)
	GetClaimByUserAndDeal(ctx context.Context, userID, dealID string) (*domain.Claim, error)
	ListClaimsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Claim, int, error)
	ListClaimsByDeal(ctx context.Context, dealID string) ([]domain.Claim, error)
	ListClaims(ctx context.Context, status domain.ClaimStatus, limit, offset int) ([]domain.Claim, int, error)
	ApproveClaimIfPending(ctx context.Context, id string, approvedAt, expiresAt time.Time) (*domain.Claim, error)
	RejectClaimIfPending(ctx context.Context, id string, rejectedAt time.Time, reason string) (*domain.Claim, error)

	CreateSession(ctx context.Context, s *domain.Session) error
	GetSessionUser(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)

	InsertAdminAction(ctx context.Context, a *domain.AdminAction) error
	ListAdminActions(ctx context.Context, limit, offset int) ([]domain.AdminAction, int, error)

	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

// Querier is the subset of operations available inside a claim transaction.
type Querier interface {
	InsertClaim(ctx context.Context, c *domain.Claim) (int64, error)
	IncrementDealClaims(ctx context.Context, dealID string) (int, error)
}

type DashboardStats struct {
	TotalUsers       int
	VerifiedUsers    int
	KYCApprovedUsers int
	PendingKYC       int
	TotalDeals       int
	LockedDeals      int
	TotalClaims      int
	PendingClaims    int
	ApprovedClaims   int
	RejectedClaims   int
}

type store struct {
	pool *pgxpool.Pool
}

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx so the claim writes can
// run standalone or inside ExecTx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func New(pool *pgxpool.Pool) Store {
	return &store{pool: pool}
}

func (s *store) ExecTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	q := &txQuerier{tx: tx}
	if err := fn(q); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return txError(err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// txError keeps the callback's error in the chain so the delivery layer can
// still unwrap a domain error; the rollback failure rides along as text.
func txError(err, rbErr error) error {
	return fmt.Errorf("tx err: %w (rollback err: %v)", err, rbErr)
}

type txQuerier struct {
	tx pgx.Tx
}

func (q *txQuerier) InsertClaim(ctx context.Context, c *domain.Claim) (int64, error) {
	return insertClaim(ctx, q.tx, c)
}

func (q *txQuerier) IncrementDealClaims(ctx context.Context, dealID string) (int, error) {
	return incrementDealClaims(ctx, q.tx, dealID)
}
