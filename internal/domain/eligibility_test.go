package domain

import "testing"

func intPtr(v int) *int                     { return &v }
func strPtr(v string) *string               { return &v }
func stagePtr(v FundingStage) *FundingStage { return &v }

func lockedDeal(cond EligibilityConditions) *Deal {
	return &Deal{ID: "deal-1", IsLocked: true, EligibilityConditions: cond}
}

func TestEvaluatePublicDeal(t *testing.T) {
	// An unlocked deal is open to everyone, even an unverified user.
	user := &User{ID: "u1"}
	deal := &Deal{ID: "deal-1", IsLocked: false, EligibilityConditions: EligibilityConditions{
		RequiresEmailVerification: true,
		RequiresKYCApproval:       true,
	}}

	result := Evaluate(user, deal)
	if !result.Eligible {
		t.Fatalf("expected eligible, got reason %q", result.Reason)
	}
	if result.Reason != ReasonPublicDeal {
		t.Errorf("reason = %q, want %q", result.Reason, ReasonPublicDeal)
	}
}

func TestEvaluateConditions(t *testing.T) {
	tests := []struct {
		name         string
		user         User
		cond         EligibilityConditions
		wantEligible bool
		wantReason   string
	}{
		{
			name:         "email not verified",
			user:         User{IsEmailVerified: false},
			cond:         EligibilityConditions{RequiresEmailVerification: true},
			wantEligible: false,
			wantReason:   ReasonEmailUnverified,
		},
		{
			name:         "kyc pending",
			user:         User{IsEmailVerified: true, KYCStatus: KYCPending},
			cond:         EligibilityConditions{RequiresKYCApproval: true},
			wantEligible: false,
			wantReason:   ReasonKYCNotApproved,
		},
		{
			name:         "kyc rejected",
			user:         User{IsEmailVerified: true, KYCStatus: KYCRejected},
			cond:         EligibilityConditions{RequiresKYCApproval: true},
			wantEligible: false,
			wantReason:   ReasonKYCNotApproved,
		},
		{
			name:         "below minimum employees",
			user:         User{Employees: intPtr(4)},
			cond:         EligibilityConditions{MinEmployees: intPtr(10)},
			wantEligible: false,
			wantReason:   "Minimum 10 employees required",
		},
		{
			name:         "above maximum employees",
			user:         User{Employees: intPtr(600)},
			cond:         EligibilityConditions{MaxEmployees: intPtr(500)},
			wantEligible: false,
			wantReason:   "Maximum 500 employees allowed",
		},
		{
			name:         "funding stage not allowed",
			user:         User{FundingStage: stagePtr(StagePreSeed)},
			cond:         EligibilityConditions{AllowedFundingStages: []FundingStage{StageSeriesA, StageSeriesBPlus}},
			wantEligible: false,
			wantReason:   ReasonFundingStage,
		},
		{
			name:         "country not allowed",
			user:         User{Country: strPtr("DE")},
			cond:         EligibilityConditions{AllowedCountries: []string{"US", "GB"}},
			wantEligible: false,
			wantReason:   ReasonCountryExcluded,
		},
		{
			name: "missing attributes skip their conditions",
			user: User{IsEmailVerified: true, KYCStatus: KYCApproved},
			cond: EligibilityConditions{
				RequiresEmailVerification: true,
				RequiresKYCApproval:       true,
				MinEmployees:              intPtr(10),
				MaxEmployees:              intPtr(500),
				AllowedFundingStages:      []FundingStage{StageSeed},
				AllowedCountries:          []string{"US"},
			},
			wantEligible: true,
			wantReason:   ReasonMeetsAll,
		},
		{
			name: "all conditions satisfied",
			user: User{
				IsEmailVerified: true,
				KYCStatus:       KYCApproved,
				Employees:       intPtr(50),
				FundingStage:    stagePtr(StageSeed),
				Country:         strPtr("US"),
			},
			cond: EligibilityConditions{
				RequiresEmailVerification: true,
				RequiresKYCApproval:       true,
				MinEmployees:              intPtr(10),
				MaxEmployees:              intPtr(500),
				AllowedFundingStages:      []FundingStage{StageSeed, StageSeriesA},
				AllowedCountries:          []string{"US", "GB"},
			},
			wantEligible: true,
			wantReason:   ReasonMeetsAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(&tt.user, lockedDeal(tt.cond))
			if result.Eligible != tt.wantEligible {
				t.Errorf("Eligible = %v, want %v", result.Eligible, tt.wantEligible)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestEvaluateFirstFailureWins(t *testing.T) {
	// Email verification is checked before every other condition, so an
	// unverified user with a disallowed country still gets the email reason.
	user := &User{IsEmailVerified: false, Country: strPtr("DE")}
	deal := lockedDeal(EligibilityConditions{
		RequiresEmailVerification: true,
		AllowedCountries:          []string{"US"},
	})

	result := Evaluate(user, deal)
	if result.Eligible {
		t.Fatal("expected ineligible")
	}
	if result.Reason != ReasonEmailUnverified {
		t.Errorf("Reason = %q, want %q", result.Reason, ReasonEmailUnverified)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	user := &User{IsEmailVerified: true, KYCStatus: KYCPending}
	deal := lockedDeal(EligibilityConditions{RequiresKYCApproval: true})

	first := Evaluate(user, deal)
	for i := 0; i < 5; i++ {
		if got := Evaluate(user, deal); got != first {
			t.Fatalf("result changed between evaluations: %+v vs %+v", got, first)
		}
	}
}
