package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stackdeals/deals-api/internal/domain"
)

const claimColumns = `id, user_id, deal_id, status, claim_code, claim_token,
	claimed_at, approved_at, rejected_at, expires_at, rejection_reason,
	is_redeemed, redeemed_at`

// insertClaim relies on the (user_id, deal_id) unique index: a duplicate pair
// hits ON CONFLICT DO NOTHING and reports zero rows, which the usecase turns
// into a conflict error. The check and the write are a single statement, so
// racing claimants cannot both succeed.
func insertClaim(ctx context.Context, db dbtx, c *domain.Claim) (int64, error) {
	tag, err := db.Exec(ctx, `
		INSERT INTO claims (id, user_id, deal_id, status, claim_code, claim_token, claimed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, deal_id) DO NOTHING`,
		c.ID, c.UserID, c.DealID, c.Status, c.ClaimCode, c.ClaimToken, c.ClaimedAt,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *store) InsertClaim(ctx context.Context, c *domain.Claim) (int64, error) {
	return insertClaim(ctx, s.pool, c)
}

func (s *store) GetClaimByID(ctx context.Context, id string) (*domain.Claim, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+claimColumns+` FROM claims WHERE id = $1`, id)
	return scanClaim(row)
}

func (s *store) GetClaimByUserAndDeal(ctx context.Context, userID, dealID string) (*domain.Claim, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+claimColumns+` FROM claims WHERE user_id = $1 AND deal_id = $2`,
		userID, dealID,
	)
	return scanClaim(row)
}

func (s *store) ListClaimsByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Claim, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+claimColumns+` FROM claims
		WHERE user_id = $1 ORDER BY claimed_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	claims, err := collectClaims(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM claims WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}

func (s *store) ListClaimsByDeal(ctx context.Context, dealID string) ([]domain.Claim, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+claimColumns+` FROM claims
		WHERE deal_id = $1 ORDER BY claimed_at ASC`,
		dealID,
	)
	if err != nil {
		return nil, err
	}
	return collectClaims(rows)
}

func (s *store) ListClaims(ctx context.Context, status domain.ClaimStatus, limit, offset int) ([]domain.Claim, int, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status != "" {
		rows, err = s.pool.Query(ctx, `
			SELECT `+claimColumns+` FROM claims
			WHERE status = $1 ORDER BY claimed_at DESC LIMIT $2 OFFSET $3`,
			status, limit, offset)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT `+claimColumns+` FROM claims
			ORDER BY claimed_at DESC LIMIT $1 OFFSET $2`,
			limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	claims, err := collectClaims(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if status != "" {
		err = s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM claims WHERE status = $1`, status).Scan(&total)
	} else {
		err = s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM claims`).Scan(&total)
	}
	if err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}

// ApproveClaimIfPending is a compare-and-swap on status: it only fires while
// the claim is still pending, so two concurrent approvals cannot both win.
// pgx.ErrNoRows means the claim is missing or already decided.
func (s *store) ApproveClaimIfPending(ctx context.Context, id string, approvedAt, expiresAt time.Time) (*domain.Claim, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE claims SET status = $2, approved_at = $3, expires_at = $4
		WHERE id = $1 AND status = $5
		RETURNING `+claimColumns,
		id, domain.ClaimApproved, approvedAt, expiresAt, domain.ClaimPending,
	)
	return scanClaim(row)
}

func (s *store) RejectClaimIfPending(ctx context.Context, id string, rejectedAt time.Time, reason string) (*domain.Claim, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE claims SET status = $2, rejected_at = $3, rejection_reason = $4
		WHERE id = $1 AND status = $5
		RETURNING `+claimColumns,
		id, domain.ClaimRejected, rejectedAt, reason, domain.ClaimPending,
	)
	return scanClaim(row)
}

func collectClaims(rows pgx.Rows) ([]domain.Claim, error) {
	defer rows.Close()
	var out []domain.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanClaim(row pgx.Row) (*domain.Claim, error) {
	var c domain.Claim
	var status string
	err := row.Scan(
		&c.ID, &c.UserID, &c.DealID, &status, &c.ClaimCode, &c.ClaimToken,
		&c.ClaimedAt, &c.ApprovedAt, &c.RejectedAt, &c.ExpiresAt, &c.RejectionReason,
		&c.IsRedeemed, &c.RedeemedAt,
	)
	if err != nil {
		return nil, err
	}
	c.Status = domain.ClaimStatus(status)
	return &c, nil
}
