package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stackdeals/deals-api/internal/auth"
	"github.com/stackdeals/deals-api/internal/domain"
	"github.com/stackdeals/deals-api/internal/repository"
)

const emailVerifyTokenTTL = 48 * time.Hour

type UserService struct {
	store      repository.Store
	notifier   Notifier
	sessionTTL time.Duration
}

func NewUserService(store repository.Store, notifier Notifier, sessionTTL time.Duration) *UserService {
	return &UserService{store: store, notifier: notifier, sessionTTL: sessionTTL}
}

func (s *UserService) Register(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Validation("Please provide a valid email")
	}
	if len(password) < 6 {
		return nil, domain.Validation("Password must be at least 6 characters")
	}
	if firstName == "" || lastName == "" {
		return nil, domain.Validation("First name and last name are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	rawToken, tokenHash, err := auth.NewOpaqueToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	expiry := now.Add(emailVerifyTokenTTL)
	user := &domain.User{
		ID:                     uuid.NewString(),
		Email:                  email,
		PasswordHash:           hash,
		FirstName:              firstName,
		LastName:               lastName,
		Role:                   domain.RoleUser,
		EmailVerifyTokenHash:   &tokenHash,
		EmailVerifyTokenExpiry: &expiry,
		KYCStatus:              domain.KYCPending,
		EmailNotifications:     true,
		CreatedAt:              now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict("An account with this email already exists")
		}
		return nil, err
	}

	if err := s.notifier.EmailVerification(ctx, email, rawToken); err != nil {
		log.Printf("user %s: verification email dispatch failed: %v", user.ID, err)
	}
	return user, nil
}

func (s *UserService) VerifyEmail(ctx context.Context, rawToken string) (*domain.User, error) {
	if rawToken == "" {
		return nil, domain.Validation("Verification token is required")
	}
	user, err := s.store.VerifyEmailByTokenHash(ctx, auth.HashToken(rawToken), time.Now().UTC())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.Validation("Invalid or expired verification token")
		}
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and mints an opaque bearer token whose hash is
// stored as a session row.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", domain.Unauthorized("Invalid email or password")
		}
		return nil, "", err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, "", domain.Unauthorized("Invalid email or password")
	}

	rawToken, tokenHash, err := auth.NewOpaqueToken()
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, "", err
	}
	if err := s.store.TouchLastLogin(ctx, user.ID, now); err != nil {
		log.Printf("user %s: failed to record last login: %v", user.ID, err)
	}
	return user, rawToken, nil
}

// Authenticate resolves a bearer token to its user, for the authn middleware.
func (s *UserService) Authenticate(ctx context.Context, rawToken string) (*domain.User, error) {
	user, err := s.store.GetSessionUser(ctx, auth.HashToken(rawToken), time.Now().UTC())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.Unauthorized("Invalid or expired session")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID, firstName, lastName string, emailNotifications bool) (*domain.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if firstName != "" {
		user.FirstName = firstName
	}
	if lastName != "" {
		user.LastName = lastName
	}
	user.EmailNotifications = emailNotifications

	if err := s.store.UpdateUserProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

type KYCSubmission struct {
	CompanyName     string
	CompanyWebsite  string
	CompanyEmail    string
	FundingStage    string
	Employees       *int
	Country         string
	KYCDocumentPath string
}

// SubmitKYC records company details and resets the review state to pending.
func (s *UserService) SubmitKYC(ctx context.Context, userID string, sub KYCSubmission) (*domain.User, error) {
	if sub.CompanyName == "" {
		return nil, domain.Validation("Company name is required")
	}
	stage := domain.FundingStage(sub.FundingStage)
	if sub.FundingStage != "" && !domain.ValidFundingStage(stage) {
		return nil, domain.Validation("fundingStage must be one of: pre-seed, seed, series-a, series-b+")
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.CompanyName = &sub.CompanyName
	user.CompanyWebsite = optional(sub.CompanyWebsite)
	user.CompanyEmail = optional(sub.CompanyEmail)
	user.Country = optional(sub.Country)
	user.KYCDocumentPath = optional(sub.KYCDocumentPath)
	user.Employees = sub.Employees
	if sub.FundingStage != "" {
		user.FundingStage = &stage
	}
	user.KYCStatus = domain.KYCPending
	user.KYCRejectionReason = nil

	if err := s.store.UpdateKYCSubmission(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
