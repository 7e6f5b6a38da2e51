package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stackdeals/deals-api/internal/usecase"
)

type Handler struct {
	users  *usecase.UserService
	deals  *usecase.DealService
	claims *usecase.ClaimService
	admin  *usecase.AdminService
}

func NewHandler(users *usecase.UserService, deals *usecase.DealService, claims *usecase.ClaimService, admin *usecase.AdminService) *Handler {
	return &Handler{users: users, deals: deals, claims: claims, admin: admin}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Get("/auth/verify-email", h.VerifyEmail)

		r.Get("/deals", h.ListDeals)
		r.Get("/deals/{dealID}", h.GetDeal)

		r.Group(func(r chi.Router) {
			r.Use(h.Authn)

			r.Get("/users/me", h.GetProfile)
			r.Patch("/users/me", h.UpdateProfile)
			r.Post("/users/me/kyc", h.SubmitKYC)

			r.Get("/deals/{dealID}/eligibility", h.CheckEligibility)

			r.Post("/claims", h.CreateClaim)
			r.Get("/claims", h.GetUserClaims)
			r.Get("/claims/{claimID}", h.GetClaimDetails)

			r.Group(func(r chi.Router) {
				r.Use(h.AdminOnly)

				r.Post("/deals", h.CreateDeal)
				r.Patch("/deals/{dealID}", h.UpdateDeal)
				r.Delete("/deals/{dealID}", h.DeleteDeal)

				r.Patch("/claims/{claimID}/approve", h.ApproveClaim)
				r.Patch("/claims/{claimID}/reject", h.RejectClaim)

				r.Get("/admin/dashboard", h.Dashboard)
				r.Get("/admin/kyc", h.ListKYCRequests)
				r.Patch("/admin/kyc/{userID}/approve", h.ApproveKYC)
				r.Patch("/admin/kyc/{userID}/reject", h.RejectKYC)
				r.Get("/admin/claims", h.ListAllClaims)
				r.Get("/admin/deals/{dealID}/analytics", h.ClaimAnalytics)
				r.Get("/admin/actions", h.ListAuditLog)
			})
		})
	})
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		User    userJSON `json:"user"`
	}{true, "Registration successful. Please verify your email.", toUserJSON(user)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Token   string   `json:"token"`
		User    userJSON `json:"user"`
	}{true, "Login successful", token, toUserJSON(user)})
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		User    userJSON `json:"user"`
	}{true, "Email verified successfully", toUserJSON(user)})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())
	writeJSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		User    userJSON `json:"user"`
	}{true, "Profile retrieved", toUserJSON(u)})
}

type updateProfileRequest struct {
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	EmailNotifications *bool  `json:"emailNotifications"`
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	u, _ := userFrom(r.Context())
	notifications := u.EmailNotifications
	if req.EmailNotifications != nil {
		notifications = *req.EmailNotifications
	}

	updated, err := h.users.UpdateProfile(r.Context(), u.ID, req.FirstName, req.LastName, notifications)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		User    userJSON `json:"user"`
	}{true, "Profile updated", toUserJSON(updated)})
}

type kycSubmitRequest struct {
	CompanyName     string `json:"companyName"`
	CompanyWebsite  string `json:"companyWebsite"`
	CompanyEmail    string `json:"companyEmail"`
	FundingStage    string `json:"fundingStage"`
	Employees       *int   `json:"employees"`
	Country         string `json:"country"`
	KYCDocumentPath string `json:"kycDocumentPath"`
}

func (h *Handler) SubmitKYC(w http.ResponseWriter, r *http.Request) {
	var req kycSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body"})
		return
	}

	u, _ := userFrom(r.Context())
	updated, err := h.users.SubmitKYC(r.Context(), u.ID, usecase.KYCSubmission{
		CompanyName:     req.CompanyName,
		CompanyWebsite:  req.CompanyWebsite,
		CompanyEmail:    req.CompanyEmail,
		FundingStage:    req.FundingStage,
		Employees:       req.Employees,
		Country:         req.Country,
		KYCDocumentPath: req.KYCDocumentPath,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		User    userJSON `json:"user"`
	}{true, "KYC submitted for review", toUserJSON(updated)})
}
