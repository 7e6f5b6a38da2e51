package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/stackdeals/deals-api/internal/domain"
)

const dealColumns = `id, title, slug, description, short_description,
	original_price, discounted_price, discount_percentage, currency,
	category, saas_tool, deal_duration, valid_till,
	partner_name, partner_logo, partner_website, partner_description,
	is_locked, lock_reason,
	requires_email_verification, requires_kyc_approval, min_employees,
	max_employees, allowed_funding_stages, allowed_countries, conditions_description,
	deal_image, total_claims_allowed, current_claims,
	created_by, created_at, updated_at`

func (s *store) CreateDeal(ctx context.Context, d *domain.Deal) error {
	cond := d.EligibilityConditions
	_, err := s.pool.Exec(ctx, `
		INSERT INTO deals (id, title, slug, description, short_description,
			original_price, discounted_price, discount_percentage, currency,
			category, saas_tool, deal_duration, valid_till,
			partner_name, partner_logo, partner_website, partner_description,
			is_locked, lock_reason,
			requires_email_verification, requires_kyc_approval, min_employees,
			max_employees, allowed_funding_stages, allowed_countries, conditions_description,
			deal_image, total_claims_allowed, current_claims,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29,
			$30, $31, $31)`,
		d.ID, d.Title, d.Slug, d.Description, d.ShortDescription,
		d.OriginalPrice, d.DiscountedPrice, d.DiscountPercentage, d.Currency,
		d.Category, d.SaaSTool, d.DealDuration, d.ValidTill,
		d.PartnerName, d.PartnerLogo, d.PartnerWebsite, d.PartnerDescription,
		d.IsLocked, d.LockReason,
		cond.RequiresEmailVerification, cond.RequiresKYCApproval, cond.MinEmployees,
		cond.MaxEmployees, stagesToStrings(cond.AllowedFundingStages), cond.AllowedCountries, cond.Description,
		d.DealImage, d.TotalClaimsAllowed, d.CurrentClaims,
		d.CreatedBy, d.CreatedAt,
	)
	return err
}

func (s *store) GetDealByID(ctx context.Context, id string) (*domain.Deal, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id)
	return scanDeal(row)
}

// UpdateDeal rewrites the admin-editable fields. The claim counter is owned by
// the claim path and is deliberately not touched here.
func (s *store) UpdateDeal(ctx context.Context, d *domain.Deal) error {
	cond := d.EligibilityConditions
	_, err := s.pool.Exec(ctx, `
		UPDATE deals SET title = $2, slug = $3, description = $4, short_description = $5,
			original_price = $6, discounted_price = $7, discount_percentage = $8,
			currency = $9, category = $10, saas_tool = $11, deal_duration = $12,
			valid_till = $13, partner_name = $14, partner_logo = $15,
			partner_website = $16, partner_description = $17, is_locked = $18,
			lock_reason = $19, requires_email_verification = $20,
			requires_kyc_approval = $21, min_employees = $22, max_employees = $23,
			allowed_funding_stages = $24, allowed_countries = $25,
			conditions_description = $26, deal_image = $27, total_claims_allowed = $28,
			updated_at = now()
		WHERE id = $1`,
		d.ID, d.Title, d.Slug, d.Description, d.ShortDescription,
		d.OriginalPrice, d.DiscountedPrice, d.DiscountPercentage,
		d.Currency, d.Category, d.SaaSTool, d.DealDuration,
		d.ValidTill, d.PartnerName, d.PartnerLogo,
		d.PartnerWebsite, d.PartnerDescription, d.IsLocked,
		d.LockReason, cond.RequiresEmailVerification,
		cond.RequiresKYCApproval, cond.MinEmployees, cond.MaxEmployees,
		stagesToStrings(cond.AllowedFundingStages), cond.AllowedCountries,
		cond.Description, d.DealImage, d.TotalClaimsAllowed,
	)
	return err
}

func (s *store) DeleteDeal(ctx context.Context, id string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM deals WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *store) ListDeals(ctx context.Context, category string, limit, offset int) ([]domain.Deal, int, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if category != "" {
		rows, err = s.pool.Query(ctx, `
			SELECT `+dealColumns+` FROM deals
			WHERE category = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			category, limit, offset)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT `+dealColumns+` FROM deals
			ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
			limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []domain.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if category != "" {
		err = s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM deals WHERE category = $1`, category).Scan(&total)
	} else {
		err = s.pool.QueryRow(ctx, `SELECT COUNT(1) FROM deals`).Scan(&total)
	}
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// incrementDealClaims bumps current_claims only while the deal has capacity
// left. pgx.ErrNoRows from the RETURNING clause means the cap is exhausted or
// the deal vanished; the caller disambiguates.
func incrementDealClaims(ctx context.Context, db dbtx, dealID string) (int, error) {
	var current int
	err := db.QueryRow(ctx, `
		UPDATE deals SET current_claims = current_claims + 1, updated_at = now()
		WHERE id = $1
		  AND (total_claims_allowed IS NULL OR current_claims < total_claims_allowed)
		RETURNING current_claims`,
		dealID,
	).Scan(&current)
	if err != nil {
		return 0, err
	}
	return current, nil
}

func scanDeal(row pgx.Row) (*domain.Deal, error) {
	var d domain.Deal
	var stages []string
	err := row.Scan(
		&d.ID, &d.Title, &d.Slug, &d.Description, &d.ShortDescription,
		&d.OriginalPrice, &d.DiscountedPrice, &d.DiscountPercentage, &d.Currency,
		&d.Category, &d.SaaSTool, &d.DealDuration, &d.ValidTill,
		&d.PartnerName, &d.PartnerLogo, &d.PartnerWebsite, &d.PartnerDescription,
		&d.IsLocked, &d.LockReason,
		&d.EligibilityConditions.RequiresEmailVerification,
		&d.EligibilityConditions.RequiresKYCApproval,
		&d.EligibilityConditions.MinEmployees,
		&d.EligibilityConditions.MaxEmployees,
		&stages,
		&d.EligibilityConditions.AllowedCountries,
		&d.EligibilityConditions.Description,
		&d.DealImage, &d.TotalClaimsAllowed, &d.CurrentClaims,
		&d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.EligibilityConditions.AllowedFundingStages = stringsToStages(stages)
	return &d, nil
}

func stagesToStrings(stages []domain.FundingStage) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = string(s)
	}
	return out
}

func stringsToStages(values []string) []domain.FundingStage {
	if len(values) == 0 {
		return nil
	}
	out := make([]domain.FundingStage, len(values))
	for i, v := range values {
		out[i] = domain.FundingStage(v)
	}
	return out
}
