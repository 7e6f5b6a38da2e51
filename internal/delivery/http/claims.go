package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type createClaimRequest struct {
	DealID string `json:"dealId"`
}

func (h *Handler) CreateClaim(w http.ResponseWriter, r *http.Request) {
	var req createClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}
	if req.DealID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Deal ID is required"})
		return
	}

	u, _ := userFrom(r.Context())
	claim, err := h.claims.CreateClaim(r.Context(), u.ID, req.DealID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Success bool      `json:"success"`
		Message string    `json:"message"`
		Claim   claimJSON `json:"claim"`
	}{true, "Deal claimed successfully. Awaiting admin approval.", toClaimJSON(claim)})
}

func (h *Handler) GetUserClaims(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())
	page, limit, offset := pagination(r)

	claims, total, err := h.claims.GetUserClaims(r.Context(), u.ID, limit, offset)
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
	}{true, "User claims retrieved", out, paginationOf(page, limit, total)})
}

func (h *Handler) GetClaimDetails(w http.ResponseWriter, r *http.Request) {
	claim, err := h.claims.GetClaimDetails(r.Context(), actorFrom(r), chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool      `json:"success"`
		Message string    `json:"message"`
		Claim   claimJSON `json:"claim"`
	}{true, "Claim details retrieved", toClaimJSON(claim)})
}

func (h *Handler) ApproveClaim(w http.ResponseWriter, r *http.Request) {
	claim, err := h.claims.ApproveClaim(r.Context(), actorFrom(r), chi.URLParam(r, "claimID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool      `json:"success"`
		Message string    `json:"message"`
		Claim   claimJSON `json:"claim"`
	}{true, "Claim approved successfully", toClaimJSON(claim)})
}

type rejectClaimRequest struct {
	RejectionReason string `json:"rejectionReason"`
}

func (h *Handler) RejectClaim(w http.ResponseWriter, r *http.Request) {
	var req rejectClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	claim, err := h.claims.RejectClaim(r.Context(), actorFrom(r), chi.URLParam(r, "claimID"), req.RejectionReason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool      `json:"success"`
		Message string    `json:"message"`
		Claim   claimJSON `json:"claim"`
	}{true, "Claim rejected", toClaimJSON(claim)})
}
