package domain

import (
	"math"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCApproved KYCStatus = "approved"
	KYCRejected KYCStatus = "rejected"
)

type FundingStage string

const (
	StagePreSeed     FundingStage = "pre-seed"
	StageSeed        FundingStage = "seed"
	StageSeriesA     FundingStage = "series-a"
	StageSeriesBPlus FundingStage = "series-b+"
)

func ValidFundingStage(s FundingStage) bool {
	switch s {
	case StagePreSeed, StageSeed, StageSeriesA, StageSeriesBPlus:
		return true
	}
	return false
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role

	IsEmailVerified        bool
	EmailVerifyTokenHash   *string
	EmailVerifyTokenExpiry *time.Time

	CompanyName     *string
	CompanyWebsite  *string
	CompanyEmail    *string
	FundingStage    *FundingStage
	Employees       *int
	Country         *string
	KYCDocumentPath *string

	KYCStatus          KYCStatus
	KYCRejectionReason *string
	IsCompanyVerified  bool

	EmailNotifications bool
	LastLogin          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// EligibilityConditions gates who may claim a locked deal. A nil pointer or
// empty slice means that condition does not apply.
type EligibilityConditions struct {
	RequiresEmailVerification bool
	RequiresKYCApproval       bool
	MinEmployees              *int
	MaxEmployees              *int
	AllowedFundingStages      []FundingStage
	AllowedCountries          []string
	Description               *string
}

type Deal struct {
	ID               string
	Title            string
	Slug             string
	Description      string
	ShortDescription string

	OriginalPrice      float64
	DiscountedPrice    float64
	DiscountPercentage int
	Currency           string

	Category     string
	SaaSTool     string
	DealDuration string
	ValidTill    *time.Time

	PartnerName        string
	PartnerLogo        string
	PartnerWebsite     string
	PartnerDescription *string

	IsLocked              bool
	LockReason            *string
	EligibilityConditions EligibilityConditions

	DealImage string

	TotalClaimsAllowed *int
	CurrentClaims      int

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DiscountPercentage computes the rounded discount for a price pair.
// A zero original price yields 0 rather than a division by zero.
func DiscountPercentage(originalPrice, discountedPrice float64) int {
	if originalPrice == 0 {
		return 0
	}
	return int(math.Round((originalPrice - discountedPrice) / originalPrice * 100))
}

type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
	ClaimExpired  ClaimStatus = "expired"
)

// ClaimExpiryWindow is how long an approved claim stays redeemable.
const ClaimExpiryWindow = 30 * 24 * time.Hour

type Claim struct {
	ID     string
	UserID string
	DealID string
	Status ClaimStatus

	ClaimCode  string
	ClaimToken string

	ClaimedAt       time.Time
	ApprovedAt      *time.Time
	RejectedAt      *time.Time
	ExpiresAt       *time.Time
	RejectionReason *string

	IsRedeemed bool
	RedeemedAt *time.Time
}

type AdminActionKind string

const (
	ActionApproveKYC   AdminActionKind = "approve-kyc"
	ActionRejectKYC    AdminActionKind = "reject-kyc"
	ActionApproveClaim AdminActionKind = "approve-claim"
	ActionRejectClaim  AdminActionKind = "reject-claim"
	ActionCreateDeal   AdminActionKind = "create-deal"
	ActionUpdateDeal   AdminActionKind = "update-deal"
	ActionDeleteDeal   AdminActionKind = "delete-deal"
)

// AdminAction is an append-only audit record of a privileged mutation.
// ChangesBefore/ChangesAfter hold JSON snapshots of the touched fields.
type AdminAction struct {
	ID            string
	AdminID       string
	Action        AdminActionKind
	ResourceType  string
	ResourceID    string
	ChangesBefore []byte
	ChangesAfter  []byte
	IPAddress     string
	UserAgent     string
	CreatedAt     time.Time
}

type Session struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
