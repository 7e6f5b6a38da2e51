package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stackdeals/deals-api/internal/domain"
)

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Stats   any    `json:"stats"`
	}{true, "Dashboard stats retrieved", map[string]any{
		"users": map[string]int{
			"total":       stats.TotalUsers,
			"verified":    stats.VerifiedUsers,
			"kycApproved": stats.KYCApprovedUsers,
			"pendingKYC":  stats.PendingKYC,
		},
		"deals": map[string]int{
			"total":  stats.TotalDeals,
			"locked": stats.LockedDeals,
			"public": stats.TotalDeals - stats.LockedDeals,
		},
		"claims": map[string]int{
			"total":    stats.TotalClaims,
			"pending":  stats.PendingClaims,
			"approved": stats.ApprovedClaims,
			"rejected": stats.RejectedClaims,
		},
	}})
}

func (h *Handler) ListKYCRequests(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := pagination(r)
	status := domain.KYCStatus(r.URL.Query().Get("status"))

	users, total, err := h.admin.ListKYCRequests(r.Context(), status, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]userJSON, 0, len(users))
	for i := range users {
		out = append(out, toUserJSON(&users[i]))
	}
	writeJSON(w, http.StatusOK, struct {
		Success    bool           `json:"success"`
		Message    string         `json:"message"`
		Requests   []userJSON     `json:"requests"`
		Pagination paginationJSON `json:"pagination"`
	}{true, "KYC requests retrieved", out, paginationOf(page, limit, total)})
}

func (h *Handler) ApproveKYC(w http.ResponseWriter, r *http.Request) {
	user, err := h.admin.ApproveKYC(r.Context(), actorFrom(r), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		User    userJSON `json:"user"`
	}{true, "KYC approved successfully", toUserJSON(user)})
}

type rejectKYCRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

func (h *Handler) RejectKYC(w http.ResponseWriter, r *http.Request) {
	var req rejectKYCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	user, err := h.admin.RejectKYC(r.Context(), actorFrom(r), chi.URLParam(r, "userID"), req.RejectionReason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		User    userJSON `json:"user"`
	}{true, "KYC rejected", toUserJSON(user)})
}

func (h *Handler) ListAllClaims(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := pagination(r)
	status := domain.ClaimStatus(r.URL.Query().Get("status"))

	claims, total, err := h.admin.ListClaims(r.Context(), status, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]claimJSON, 0, len(claims))
	for i := range claims {
		out = append(out, toClaimJSON(&claims[i]))
	}
	writeJSON(w, http.StatusOK, struct {
		Success    bool           `json:"success"`
		Message    string         `json:"message"`
		Claims     []claimJSON    `json:"claims"`
		Pagination paginationJSON `json:"pagination"`
	}{true, "Claims retrieved", out, paginationOf(page, limit, total)})
}

func (h *Handler) ClaimAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.claims.GetClaimAnalytics(r.Context(), chi.URLParam(r, "dealID"))
	if err != nil {
		writeError(w, err)
		return
	}

	breakdown := map[string]int{}
	for status, count := range analytics.StatusBreakdown {
		breakdown[string(status)] = count
	}
	writeJSON(w, http.StatusOK, struct {
		Success   bool   `json:"success"`
		Message   string `json:"message"`
		Analytics any    `json:"analytics"`
	}{true, "Claim analytics retrieved", map[string]any{
		"dealTitle":       analytics.DealTitle,
		"totalClaims":     analytics.TotalClaims,
		"statusBreakdown": breakdown,
		"claimRate":       analytics.ClaimRate,
	}})
}

func (h *Handler) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := pagination(r)

	actions, total, err := h.admin.ListAuditLog(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]actionJSON, 0, len(actions))
	for i := range actions {
		out = append(out, toActionJSON(&actions[i]))
	}
	writeJSON(w, http.StatusOK, struct {
		Success    bool           `json:"success"`
		Message    string         `json:"message"`
		Actions    []actionJSON   `json:"actions"`
		Pagination paginationJSON `json:"pagination"`
	}{true, "Audit log retrieved", out, paginationOf(page, limit, total)})
}
