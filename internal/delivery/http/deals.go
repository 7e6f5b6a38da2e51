package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stackdeals/deals-api/internal/domain"
)

func (h *Handler) ListDeals(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := pagination(r)
	deals, total, err := h.deals.ListDeals(r.Context(), r.URL.Query().Get("category"), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]dealJSON, 0, len(deals))
	for i := range deals {
		out = append(out, toDealJSON(&deals[i]))
	}
	writeJSON(w, http.StatusOK, struct {
		Success    bool           `json:"success"`
		Message    string         `json:"message"`
		Deals      []dealJSON     `json:"deals"`
		Pagination paginationJSON `json:"pagination"`
	}{true, "Deals retrieved", out, paginationOf(page, limit, total)})
}

func (h *Handler) GetDeal(w http.ResponseWriter, r *http.Request) {
	deal, err := h.deals.GetDeal(r.Context(), chi.URLParam(r, "dealID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Deal    dealJSON `json:"deal"`
	}{true, "Deal retrieved", toDealJSON(deal)})
}

func (h *Handler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())
	result, err := h.deals.CheckEligibility(r.Context(), u.ID, chi.URLParam(r, "dealID"))
	if err != nil {
		writeError(w, err)
		return
	}

	message := "User is eligible"
	if !result.Eligible {
		message = "User is not eligible"
	}
	writeJSON(w, http.StatusOK, struct {
		Success  bool   `json:"success"`
		Message  string `json:"message"`
		Eligible bool   `json:"eligible"`
		Reason   string `json:"reason"`
	}{true, message, result.Eligible, result.Reason})
}

type dealRequest struct {
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	ShortDescription   *string    `json:"shortDescription"`
	OriginalPrice      *float64   `json:"originalPrice"`
	DiscountedPrice    *float64   `json:"discountedPrice"`
	Currency           *string    `json:"currency"`
	Category           *string    `json:"category"`
	SaaSTool           *string    `json:"saasTool"`
	DealDuration       *string    `json:"dealDuration"`
	ValidTill          *time.Time `json:"validTill"`
	PartnerName        *string    `json:"partnerName"`
	PartnerLogo        *string    `json:"partnerLogo"`
	PartnerWebsite     *string    `json:"partnerWebsite"`
	PartnerDescription *string    `json:"partnerDescription"`
	IsLocked           *bool      `json:"isLocked"`
	LockReason         *string    `json:"lockReason"`
	DealImage          *string    `json:"dealImage"`
	TotalClaimsAllowed *int       `json:"totalClaimsAllowed"`

	EligibilityConditions *conditionsRequest `json:"eligibilityConditions"`
}

type conditionsRequest struct {
	RequiresEmailVerification bool     `json:"requiresEmailVerification"`
	RequiresKYCApproval       bool     `json:"requiresKYCApproval"`
	MinEmployees              *int     `json:"minEmployees"`
	MaxEmployees              *int     `json:"maxEmployees"`
	AllowedFundingStages      []string `json:"allowedFundingStages"`
	AllowedCountries          []string `json:"allowedCountries"`
	Description               *string  `json:"description"`
}

// apply merges only the fields present in the request body onto d, so a
// partial PATCH leaves everything it does not mention untouched. A present
// eligibilityConditions object replaces the conditions wholesale.
func (req *dealRequest) apply(d *domain.Deal) {
	if req.Title != nil {
		d.Title = *req.Title
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.ShortDescription != nil {
		d.ShortDescription = *req.ShortDescription
	}
	if req.OriginalPrice != nil {
		d.OriginalPrice = *req.OriginalPrice
	}
	if req.DiscountedPrice != nil {
		d.DiscountedPrice = *req.DiscountedPrice
	}
	if req.Currency != nil {
		d.Currency = *req.Currency
	}
	if req.Category != nil {
		d.Category = *req.Category
	}
	if req.SaaSTool != nil {
		d.SaaSTool = *req.SaaSTool
	}
	if req.DealDuration != nil {
		d.DealDuration = *req.DealDuration
	}
	if req.ValidTill != nil {
		d.ValidTill = req.ValidTill
	}
	if req.PartnerName != nil {
		d.PartnerName = *req.PartnerName
	}
	if req.PartnerLogo != nil {
		d.PartnerLogo = *req.PartnerLogo
	}
	if req.PartnerWebsite != nil {
		d.PartnerWebsite = *req.PartnerWebsite
	}
	if req.PartnerDescription != nil {
		d.PartnerDescription = req.PartnerDescription
	}
	if req.IsLocked != nil {
		d.IsLocked = *req.IsLocked
	}
	if req.LockReason != nil {
		d.LockReason = req.LockReason
	}
	if req.DealImage != nil {
		d.DealImage = *req.DealImage
	}
	if req.TotalClaimsAllowed != nil {
		d.TotalClaimsAllowed = req.TotalClaimsAllowed
	}

	if c := req.EligibilityConditions; c != nil {
		stages := make([]domain.FundingStage, len(c.AllowedFundingStages))
		for i, s := range c.AllowedFundingStages {
			stages[i] = domain.FundingStage(s)
		}
		d.EligibilityConditions = domain.EligibilityConditions{
			RequiresEmailVerification: c.RequiresEmailVerification,
			RequiresKYCApproval:       c.RequiresKYCApproval,
			MinEmployees:              c.MinEmployees,
			MaxEmployees:              c.MaxEmployees,
			AllowedFundingStages:      stages,
			AllowedCountries:          c.AllowedCountries,
			Description:               c.Description,
		}
	}
}

func (h *Handler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	var req dealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	var deal domain.Deal
	req.apply(&deal)

	created, err := h.deals.CreateDeal(r.Context(), actorFrom(r), &deal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Deal    dealJSON `json:"deal"`
	}{true, "Deal created", toDealJSON(created)})
}

func (h *Handler) UpdateDeal(w http.ResponseWriter, r *http.Request) {
	var req dealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	updated, err := h.deals.UpdateDeal(r.Context(), actorFrom(r), chi.URLParam(r, "dealID"), req.apply)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Deal    dealJSON `json:"deal"`
	}{true, "Deal updated", toDealJSON(updated)})
}

func (h *Handler) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	if err := h.deals.DeleteDeal(r.Context(), actorFrom(r), chi.URLParam(r, "dealID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{true, "Deal deleted"})
}
