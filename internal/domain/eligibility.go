package domain

import "fmt"

const (
	ReasonPublicDeal       = "This deal is available to all users"
	ReasonMeetsAll         = "User meets all requirements"
	ReasonEmailUnverified  = "Email verification required"
	ReasonKYCNotApproved   = "Company verification (KYC) required and not yet approved"
	ReasonFundingStage     = "Your funding stage is not eligible for this deal"
	ReasonCountryExcluded  = "This deal is not available in your country"
)

type EligibilityResult struct {
	Eligible bool
	Reason   string
}

// Evaluate decides whether user may claim deal. Conditions are checked in a
// fixed order and the first failure wins. A missing user attribute (nil
// Employees, FundingStage or Country) skips the condition rather than failing
// it.
func Evaluate(user *User, deal *Deal) EligibilityResult {
	if !deal.IsLocked {
		return EligibilityResult{Eligible: true, Reason: ReasonPublicDeal}
	}

	cond := deal.EligibilityConditions

	if cond.RequiresEmailVerification && !user.IsEmailVerified {
		return EligibilityResult{Reason: ReasonEmailUnverified}
	}
	if cond.RequiresKYCApproval && user.KYCStatus != KYCApproved {
		return EligibilityResult{Reason: ReasonKYCNotApproved}
	}
	if cond.MinEmployees != nil && user.Employees != nil && *user.Employees < *cond.MinEmployees {
		return EligibilityResult{Reason: fmt.Sprintf("Minimum %d employees required", *cond.MinEmployees)}
	}
	if cond.MaxEmployees != nil && user.Employees != nil && *user.Employees > *cond.MaxEmployees {
		return EligibilityResult{Reason: fmt.Sprintf("Maximum %d employees allowed", *cond.MaxEmployees)}
	}
	if len(cond.AllowedFundingStages) > 0 && user.FundingStage != nil && !containsStage(cond.AllowedFundingStages, *user.FundingStage) {
		return EligibilityResult{Reason: ReasonFundingStage}
	}
	if len(cond.AllowedCountries) > 0 && user.Country != nil && !containsString(cond.AllowedCountries, *user.Country) {
		return EligibilityResult{Reason: ReasonCountryExcluded}
	}

	return EligibilityResult{Eligible: true, Reason: ReasonMeetsAll}
}

func containsStage(stages []FundingStage, s FundingStage) bool {
	for _, v := range stages {
		if v == s {
			return true
		}
	}
	return false
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
