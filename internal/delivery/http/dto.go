package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/stackdeals/deals-api/internal/domain"
)

type userJSON struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	FirstName          string     `json:"firstName"`
	LastName           string     `json:"lastName"`
	Role               string     `json:"role"`
	IsEmailVerified    bool       `json:"isEmailVerified"`
	IsCompanyVerified  bool       `json:"isCompanyVerified"`
	CompanyName        *string    `json:"companyName,omitempty"`
	FundingStage       *string    `json:"fundingStage,omitempty"`
	Employees          *int       `json:"employees,omitempty"`
	Country            *string    `json:"country,omitempty"`
	KYCStatus          string     `json:"kycStatus"`
	KYCRejectionReason *string    `json:"kycRejectionReason,omitempty"`
	EmailNotifications bool       `json:"emailNotifications"`
	LastLogin          *time.Time `json:"lastLogin,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

func toUserJSON(u *domain.User) userJSON {
	var stage *string
	if u.FundingStage != nil {
		v := string(*u.FundingStage)
		stage = &v
	}
	return userJSON{
		ID:                 u.ID,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Role:               string(u.Role),
		IsEmailVerified:    u.IsEmailVerified,
		IsCompanyVerified:  u.IsCompanyVerified,
		CompanyName:        u.CompanyName,
		FundingStage:       stage,
		Employees:          u.Employees,
		Country:            u.Country,
		KYCStatus:          string(u.KYCStatus),
		KYCRejectionReason: u.KYCRejectionReason,
		EmailNotifications: u.EmailNotifications,
		LastLogin:          u.LastLogin,
		CreatedAt:          u.CreatedAt,
	}
}

type conditionsJSON struct {
	RequiresEmailVerification bool     `json:"requiresEmailVerification"`
	RequiresKYCApproval       bool     `json:"requiresKYCApproval"`
	MinEmployees              *int     `json:"minEmployees,omitempty"`
	MaxEmployees              *int     `json:"maxEmployees,omitempty"`
	AllowedFundingStages      []string `json:"allowedFundingStages,omitempty"`
	AllowedCountries          []string `json:"allowedCountries,omitempty"`
	Description               *string  `json:"description,omitempty"`
}

type dealJSON struct {
	ID                    string         `json:"id"`
	Title                 string         `json:"title"`
	Slug                  string         `json:"slug"`
	Description           string         `json:"description"`
	ShortDescription      string         `json:"shortDescription"`
	OriginalPrice         float64        `json:"originalPrice"`
	DiscountedPrice       float64        `json:"discountedPrice"`
	DiscountPercentage    int            `json:"discountPercentage"`
	Currency              string         `json:"currency"`
	Category              string         `json:"category"`
	SaaSTool              string         `json:"saasTool"`
	DealDuration          string         `json:"dealDuration"`
	ValidTill             *time.Time     `json:"validTill,omitempty"`
	PartnerName           string         `json:"partnerName"`
	PartnerLogo           string         `json:"partnerLogo"`
	PartnerWebsite        string         `json:"partnerWebsite"`
	IsLocked              bool           `json:"isLocked"`
	LockReason            *string        `json:"lockReason,omitempty"`
	EligibilityConditions conditionsJSON `json:"eligibilityConditions"`
	DealImage             string         `json:"dealImage"`
	TotalClaimsAllowed    *int           `json:"totalClaimsAllowed,omitempty"`
	CurrentClaims         int            `json:"currentClaims"`
	CreatedAt             time.Time      `json:"createdAt"`
}

func toDealJSON(d *domain.Deal) dealJSON {
	cond := d.EligibilityConditions
	stages := make([]string, len(cond.AllowedFundingStages))
	for i, s := range cond.AllowedFundingStages {
		stages[i] = string(s)
	}
	return dealJSON{
		ID:                 d.ID,
		Title:              d.Title,
		Slug:               d.Slug,
		Description:        d.Description,
		ShortDescription:   d.ShortDescription,
		OriginalPrice:      d.OriginalPrice,
		DiscountedPrice:    d.DiscountedPrice,
		DiscountPercentage: d.DiscountPercentage,
		Currency:           d.Currency,
		Category:           d.Category,
		SaaSTool:           d.SaaSTool,
		DealDuration:       d.DealDuration,
		ValidTill:          d.ValidTill,
		PartnerName:        d.PartnerName,
		PartnerLogo:        d.PartnerLogo,
		PartnerWebsite:     d.PartnerWebsite,
		IsLocked:           d.IsLocked,
		LockReason:         d.LockReason,
		EligibilityConditions: conditionsJSON{
			RequiresEmailVerification: cond.RequiresEmailVerification,
			RequiresKYCApproval:       cond.RequiresKYCApproval,
			MinEmployees:              cond.MinEmployees,
			MaxEmployees:              cond.MaxEmployees,
			AllowedFundingStages:      stages,
			AllowedCountries:          cond.AllowedCountries,
			Description:               cond.Description,
		},
		DealImage:          d.DealImage,
		TotalClaimsAllowed: d.TotalClaimsAllowed,
		CurrentClaims:      d.CurrentClaims,
		CreatedAt:          d.CreatedAt,
	}
}

type claimJSON struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	DealID          string     `json:"dealId"`
	Status          string     `json:"status"`
	ClaimCode       string     `json:"claimCode"`
	ClaimedAt       time.Time  `json:"claimedAt"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	IsRedeemed      bool       `json:"isRedeemed"`
}

func toClaimJSON(c *domain.Claim) claimJSON {
	return claimJSON{
		ID:              c.ID,
		UserID:          c.UserID,
		DealID:          c.DealID,
		Status:          string(c.Status),
		ClaimCode:       c.ClaimCode,
		ClaimedAt:       c.ClaimedAt,
		ApprovedAt:      c.ApprovedAt,
		RejectedAt:      c.RejectedAt,
		ExpiresAt:       c.ExpiresAt,
		RejectionReason: c.RejectionReason,
		IsRedeemed:      c.IsRedeemed,
	}
}

type actionJSON struct {
	ID            string          `json:"id"`
	AdminID       string          `json:"adminId"`
	Action        string          `json:"action"`
	ResourceType  string          `json:"resourceType"`
	ResourceID    string          `json:"resourceId"`
	ChangesBefore json.RawMessage `json:"changesBefore,omitempty"`
	ChangesAfter  json.RawMessage `json:"changesAfter"`
	IPAddress     string          `json:"ipAddress"`
	UserAgent     string          `json:"userAgent"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func toActionJSON(a *domain.AdminAction) actionJSON {
	return actionJSON{
		ID:            a.ID,
		AdminID:       a.AdminID,
		Action:        string(a.Action),
		ResourceType:  a.ResourceType,
		ResourceID:    a.ResourceID,
		ChangesBefore: a.ChangesBefore,
		ChangesAfter:  a.ChangesAfter,
		IPAddress:     a.IPAddress,
		UserAgent:     a.UserAgent,
		CreatedAt:     a.CreatedAt,
	}
}

type paginationJSON struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func pagination(r *http.Request) (page, limit, offset int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit, (page - 1) * limit
}

func paginationOf(page, limit, total int) paginationJSON {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return paginationJSON{Page: page, Limit: limit, Total: total, Pages: pages}
}
