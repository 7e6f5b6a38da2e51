package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stackdeals/deals-api/internal/domain"
	"github.com/stackdeals/deals-api/internal/repository"
)

type DealService struct {
	store repository.Store
	audit *AuditLog
}

func NewDealService(store repository.Store, audit *AuditLog) *DealService {
	return &DealService{store: store, audit: audit}
}

func (s *DealService) GetDeal(ctx context.Context, dealID string) (*domain.Deal, error) {
	deal, err := s.store.GetDealByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Deal not found")
		}
		return nil, err
	}
	return deal, nil
}

func (s *DealService) ListDeals(ctx context.Context, category string, limit, offset int) ([]domain.Deal, int, error) {
	return s.store.ListDeals(ctx, category, limit, offset)
}

// CheckEligibility runs the pure evaluator against a loaded user and deal.
func (s *DealService) CheckEligibility(ctx context.Context, userID, dealID string) (domain.EligibilityResult, error) {
	deal, err := s.store.GetDealByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.EligibilityResult{}, domain.NotFound("Deal not found")
		}
		return domain.EligibilityResult{}, err
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.EligibilityResult{}, domain.NotFound("User not found")
		}
		return domain.EligibilityResult{}, err
	}
	return domain.Evaluate(user, deal), nil
}

// CreateDeal fills the server-owned fields (id, slug, discount, counters) and
// audit-logs the creation. deal carries the admin-supplied fields only.
func (s *DealService) CreateDeal(ctx context.Context, actor Actor, deal *domain.Deal) (*domain.Deal, error) {
	if deal.Title == "" {
		return nil, domain.Validation("Deal title is required")
	}
	if deal.OriginalPrice < 0 || deal.DiscountedPrice < 0 {
		return nil, domain.Validation("Prices must not be negative")
	}

	deal.ID = uuid.NewString()
	deal.Slug = Slugify(deal.Title)
	deal.DiscountPercentage = domain.DiscountPercentage(deal.OriginalPrice, deal.DiscountedPrice)
	deal.CurrentClaims = 0
	deal.CreatedBy = actor.UserID
	deal.CreatedAt = time.Now().UTC()
	if deal.Currency == "" {
		deal.Currency = "USD"
	}

	if err := s.store.CreateDeal(ctx, deal); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict("A deal with this title already exists")
		}
		return nil, err
	}

	s.audit.Record(ctx, actor, domain.ActionCreateDeal, "deal", deal.ID,
		nil, dealSnapshot(deal))
	return deal, nil
}

func (s *DealService) UpdateDeal(ctx context.Context, actor Actor, dealID string, apply func(*domain.Deal)) (*domain.Deal, error) {
	deal, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	before := dealSnapshot(deal)

	apply(deal)
	deal.Slug = Slugify(deal.Title)
	deal.DiscountPercentage = domain.DiscountPercentage(deal.OriginalPrice, deal.DiscountedPrice)

	if err := s.store.UpdateDeal(ctx, deal); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict("A deal with this title already exists")
		}
		return nil, err
	}

	s.audit.Record(ctx, actor, domain.ActionUpdateDeal, "deal", deal.ID,
		before, dealSnapshot(deal))
	return deal, nil
}

func (s *DealService) DeleteDeal(ctx context.Context, actor Actor, dealID string) error {
	deal, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return err
	}

	affected, err := s.store.DeleteDeal(ctx, dealID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NotFound("Deal not found")
	}

	s.audit.Record(ctx, actor, domain.ActionDeleteDeal, "deal", dealID,
		dealSnapshot(deal), nil)
	return nil
}

func dealSnapshot(d *domain.Deal) map[string]any {
	return map[string]any{
		"title":              d.Title,
		"originalPrice":      d.OriginalPrice,
		"discountedPrice":    d.DiscountedPrice,
		"isLocked":           d.IsLocked,
		"totalClaimsAllowed": d.TotalClaimsAllowed,
	}
}

var slugCleanRx = regexp.MustCompile(`[^a-z0-9\s-]`)
var slugSpaceRx = regexp.MustCompile(`[\s_]+`)

func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugCleanRx.ReplaceAllString(s, "")
	s = slugSpaceRx.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "unique constraint")
}
