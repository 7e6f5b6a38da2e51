package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stackdeals/deals-api/internal/domain"
)

const userColumns = `id, email, password_hash, first_name, last_name, role,
	is_email_verified, email_verify_token_hash, email_verify_token_expiry,
	company_name, company_website, company_email, funding_stage, employees,
	country, kyc_document_path, kyc_status, kyc_rejection_reason,
	is_company_verified, email_notifications, last_login, created_at, updated_at`

func (s *store) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role,
			is_email_verified, email_verify_token_hash, email_verify_token_expiry,
			kyc_status, email_notifications, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role,
		u.IsEmailVerified, u.EmailVerifyTokenHash, u.EmailVerifyTokenExpiry,
		u.KYCStatus, u.EmailNotifications, u.CreatedAt,
	)
	return err
}

func (s *store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *store) UpdateUserProfile(ctx context.Context, u *domain.User) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE users SET first_name = $2, last_name = $3, email_notifications = $4,
			updated_at = now()
		WHERE id = $1`,
		u.ID, u.FirstName, u.LastName, u.EmailNotifications,
	)
	return err
}

func (s *store) UpdateKYCSubmission(ctx context.Context, u *domain.User) error {
	var stage *string
	if u.FundingStage != nil {
		v := string(*u.FundingStage)
		stage = &v
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE users SET company_name = $2, company_website = $3, company_email = $4,
			funding_stage = $5, employees = $6, country = $7, kyc_document_path = $8,
			kyc_status = $9, kyc_rejection_reason = NULL, updated_at = now()
		WHERE id = $1`,
		u.ID, u.CompanyName, u.CompanyWebsite, u.CompanyEmail,
		stage, u.Employees, u.Country, u.KYCDocumentPath, domain.KYCPending,
	)
	return err
}

// SetKYCDecision flips kyc_status only when it is not already the target
// state, so concurrent double-decisions resolve to one winner.
func (s *store) SetKYCDecision(ctx context.Context, userID string, status domain.KYCStatus, companyVerified bool, rejectionReason *string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET kyc_status = $2, is_company_verified = $3,
			kyc_rejection_reason = $4, updated_at = now()
		WHERE id = $1 AND kyc_status <> $2`,
		userID, status, companyVerified, rejectionReason,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *store) VerifyEmailByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users SET is_email_verified = TRUE, email_verify_token_hash = NULL,
			email_verify_token_expiry = NULL, updated_at = now()
		WHERE email_verify_token_hash = $1 AND email_verify_token_expiry > $2
		RETURNING `+userColumns,
		tokenHash, now,
	)
	return scanUser(row)
}

func (s *store) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := s.pool.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, userID, at)
	return err
}

func (s *store) ListUsersByKYCStatus(ctx context.Context, status domain.KYCStatus, limit, offset int) ([]domain.User, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE kyc_status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		status, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM users WHERE kyc_status = $1`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role, kycStatus string
	var stage *string
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &role,
		&u.IsEmailVerified, &u.EmailVerifyTokenHash, &u.EmailVerifyTokenExpiry,
		&u.CompanyName, &u.CompanyWebsite, &u.CompanyEmail, &stage, &u.Employees,
		&u.Country, &u.KYCDocumentPath, &kycStatus, &u.KYCRejectionReason,
		&u.IsCompanyVerified, &u.EmailNotifications, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.KYCStatus = domain.KYCStatus(kycStatus)
	if stage != nil {
		v := domain.FundingStage(*stage)
		u.FundingStage = &v
	}
	return &u, nil
}
