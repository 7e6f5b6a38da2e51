package repository

import (
	"context"
	"time"

	"github.com/stackdeals/deals-api/internal/domain"
)

func (s *store) InsertAdminAction(ctx context.Context, a *domain.AdminAction) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO admin_actions (id, admin_id, action, resource_type, resource_id,
			changes_before, changes_after, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.AdminID, a.Action, a.ResourceType, a.ResourceID,
		a.ChangesBefore, a.ChangesAfter, a.IPAddress, a.UserAgent, a.CreatedAt,
	)
	return err
}

func (s *store) ListAdminActions(ctx context.Context, limit, offset int) ([]domain.AdminAction, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, admin_id, action, resource_type, resource_id,
			changes_before, changes_after, ip_address, user_agent, created_at
		FROM admin_actions ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.AdminAction
	for rows.Next() {
		var a domain.AdminAction
		var action string
		if err := rows.Scan(&a.ID, &a.AdminID, &action, &a.ResourceType, &a.ResourceID,
			&a.ChangesBefore, &a.ChangesAfter, &a.IPAddress, &a.UserAgent, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		a.Action = domain.AdminActionKind(action)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM admin_actions`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *store) CreateSession(ctx context.Context, sess *domain.Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		sess.ID, sess.UserID, sess.TokenHash, sess.ExpiresAt, sess.CreatedAt,
	)
	return err
}

func (s *store) GetSessionUser(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id = (SELECT user_id FROM sessions WHERE token_hash = $1 AND expires_at > $2)`,
		tokenHash, now,
	)
	return scanUser(row)
}

func (s *store) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var st DashboardStats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(1) FROM users),
			(SELECT COUNT(1) FROM users WHERE is_email_verified),
			(SELECT COUNT(1) FROM users WHERE kyc_status = 'approved'),
			(SELECT COUNT(1) FROM users WHERE kyc_status = 'pending'),
			(SELECT COUNT(1) FROM deals),
			(SELECT COUNT(1) FROM deals WHERE is_locked),
			(SELECT COUNT(1) FROM claims),
			(SELECT COUNT(1) FROM claims WHERE status = 'pending'),
			(SELECT COUNT(1) FROM claims WHERE status = 'approved'),
			(SELECT COUNT(1) FROM claims WHERE status = 'rejected')`,
	).Scan(
		&st.TotalUsers, &st.VerifiedUsers, &st.KYCApprovedUsers, &st.PendingKYC,
		&st.TotalDeals, &st.LockedDeals,
		&st.TotalClaims, &st.PendingClaims, &st.ApprovedClaims, &st.RejectedClaims,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
