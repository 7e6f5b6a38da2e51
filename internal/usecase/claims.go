package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stackdeals/deals-api/internal/auth"
	"github.com/stackdeals/deals-api/internal/domain"
	"github.com/stackdeals/deals-api/internal/repository"
)

// ClaimService owns the claim state machine: pending at creation, approved or
// rejected by an admin, never back. User/Deal/Claim stay consistent because
// the claim insert and the deal counter bump share one transaction.
type ClaimService struct {
	store    repository.Store
	notifier Notifier
	audit    *AuditLog
}

func NewClaimService(store repository.Store, notifier Notifier, audit *AuditLog) *ClaimService {
	return &ClaimService{store: store, notifier: notifier, audit: audit}
}

func (s *ClaimService) CreateClaim(ctx context.Context, userID, dealID string) (*domain.Claim, error) {
	deal, err := s.store.GetDealByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Deal not found")
		}
		return nil, err
	}

	// A repeat claim is a conflict no matter what state the pair is in, so it
	// is decided before eligibility: a user who already holds a claim must not
	// see a 403 because the deal's conditions tightened since.
	if _, err := s.store.GetClaimByUserAndDeal(ctx, userID, dealID); err == nil {
		return nil, domain.Conflict("You have already claimed this deal")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("User not found")
		}
		return nil, err
	}

	if deal.IsLocked {
		if result := domain.Evaluate(user, deal); !result.Eligible {
			return nil, domain.Forbidden("%s", result.Reason)
		}
	}

	code, err := auth.NewClaimCode()
	if err != nil {
		return nil, err
	}
	token, err := auth.NewClaimToken()
	if err != nil {
		return nil, err
	}

	claim := &domain.Claim{
		ID:         uuid.NewString(),
		UserID:     userID,
		DealID:     dealID,
		Status:     domain.ClaimPending,
		ClaimCode:  code,
		ClaimToken: token,
		ClaimedAt:  time.Now().UTC(),
	}

	// The insert and the counter increment are one atomic unit. Uniqueness of
	// (user, deal) and the capacity cap are both decided inside the
	// transaction, so racing claimants resolve at the storage layer.
	err = s.store.ExecTx(ctx, func(q repository.Querier) error {
		inserted, err := q.InsertClaim(ctx, claim)
		if err != nil {
			return err
		}
		if inserted == 0 {
			return domain.Conflict("You have already claimed this deal")
		}

		if _, err := q.IncrementDealClaims(ctx, dealID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.Conflict("This deal has reached maximum claims limit")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return claim, nil
}

func (s *ClaimService) ApproveClaim(ctx context.Context, actor Actor, claimID string) (*domain.Claim, error) {
	approvedAt := time.Now().UTC()
	expiresAt := approvedAt.Add(domain.ClaimExpiryWindow)

	claim, err := s.store.ApproveClaimIfPending(ctx, claimID, approvedAt, expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.decisionConflict(ctx, claimID, "approve")
		}
		return nil, err
	}

	s.notifyDecision(ctx, claim, "")
	s.audit.Record(ctx, actor, domain.ActionApproveClaim, "claim", claimID,
		map[string]any{"status": domain.ClaimPending},
		map[string]any{"status": domain.ClaimApproved, "approvedAt": approvedAt, "expiresAt": expiresAt},
	)
	return claim, nil
}

func (s *ClaimService) RejectClaim(ctx context.Context, actor Actor, claimID, rejectionReason string) (*domain.Claim, error) {
	if rejectionReason == "" {
		return nil, domain.Validation("Rejection reason is required")
	}

	claim, err := s.store.RejectClaimIfPending(ctx, claimID, time.Now().UTC(), rejectionReason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.decisionConflict(ctx, claimID, "reject")
		}
		return nil, err
	}

	s.notifyDecision(ctx, claim, rejectionReason)
	s.audit.Record(ctx, actor, domain.ActionRejectClaim, "claim", claimID,
		map[string]any{"status": domain.ClaimPending},
		map[string]any{"status": domain.ClaimRejected, "rejectionReason": rejectionReason},
	)
	return claim, nil
}

// decisionConflict distinguishes a missing claim from one already decided
// after the compare-and-swap matched no row.
func (s *ClaimService) decisionConflict(ctx context.Context, claimID, verb string) error {
	existing, err := s.store.GetClaimByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NotFound("Claim not found")
		}
		return err
	}
	return domain.Conflict("Cannot %s a %s claim", verb, existing.Status)
}

func (s *ClaimService) notifyDecision(ctx context.Context, claim *domain.Claim, rejectionReason string) {
	user, err := s.store.GetUserByID(ctx, claim.UserID)
	if err != nil {
		log.Printf("claim %s: skipping notification, user lookup failed: %v", claim.ID, err)
		return
	}
	deal, err := s.store.GetDealByID(ctx, claim.DealID)
	if err != nil {
		log.Printf("claim %s: skipping notification, deal lookup failed: %v", claim.ID, err)
		return
	}

	if claim.Status == domain.ClaimApproved {
		err = s.notifier.ClaimApproved(ctx, user.Email, deal.Title, claim.ClaimCode)
	} else {
		err = s.notifier.ClaimRejected(ctx, user.Email, deal.Title, rejectionReason)
	}
	if err != nil {
		log.Printf("claim %s: notification dispatch failed: %v", claim.ID, err)
	}
}

func (s *ClaimService) GetUserClaims(ctx context.Context, userID string, limit, offset int) ([]domain.Claim, int, error) {
	return s.store.ListClaimsByUser(ctx, userID, limit, offset)
}

func (s *ClaimService) GetClaimDetails(ctx context.Context, actor Actor, claimID string) (*domain.Claim, error) {
	claim, err := s.store.GetClaimByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Claim not found")
		}
		return nil, err
	}
	if claim.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, domain.Forbidden("Unauthorized access to this claim")
	}
	return claim, nil
}

type ClaimAnalytics struct {
	DealTitle       string
	TotalClaims     int
	StatusBreakdown map[domain.ClaimStatus]int
	ClaimRate       *float64
}

func (s *ClaimService) GetClaimAnalytics(ctx context.Context, dealID string) (*ClaimAnalytics, error) {
	deal, err := s.store.GetDealByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("Deal not found")
		}
		return nil, err
	}

	claims, err := s.store.ListClaimsByDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}

	breakdown := map[domain.ClaimStatus]int{
		domain.ClaimPending:  0,
		domain.ClaimApproved: 0,
		domain.ClaimRejected: 0,
		domain.ClaimExpired:  0,
	}
	for _, c := range claims {
		breakdown[c.Status]++
	}

	analytics := &ClaimAnalytics{
		DealTitle:       deal.Title,
		TotalClaims:     len(claims),
		StatusBreakdown: breakdown,
	}
	if deal.TotalClaimsAllowed != nil && *deal.TotalClaimsAllowed > 0 {
		rate := float64(len(claims)) / float64(*deal.TotalClaimsAllowed) * 100
		analytics.ClaimRate = &rate
	}
	return analytics, nil
}
