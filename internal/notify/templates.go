package notify

import "fmt"

// Render turns a notification kind plus its fields into subject and body.
// Kinds match the payloads produced by the outbox.
func Render(kind string, fields map[string]string) (subject, body string) {
	switch kind {
	case "claim-approved":
		subject = fmt.Sprintf("Your claim for %s was approved", fields["dealTitle"])
		body = fmt.Sprintf("Good news! Your claim for %s has been approved.\nRedemption code: %s\nThe code is valid for 30 days.",
			fields["dealTitle"], fields["claimCode"])
	case "claim-rejected":
		subject = fmt.Sprintf("Your claim for %s was rejected", fields["dealTitle"])
		body = fmt.Sprintf("Unfortunately your claim for %s was rejected.\nReason: %s",
			fields["dealTitle"], fields["reason"])
	case "kyc-approved":
		subject = "Company verification approved"
		body = fmt.Sprintf("The verification of %s is complete. You now have access to restricted deals.",
			fields["companyName"])
	case "kyc-rejected":
		subject = "Company verification rejected"
		body = fmt.Sprintf("The verification of %s was rejected.\nReason: %s",
			fields["companyName"], fields["reason"])
	case "verify-email":
		subject = "Verify your email address"
		body = fmt.Sprintf("Welcome! Confirm your address by opening:\n%s/api/auth/verify-email?token=%s",
			fields["baseURL"], fields["token"])
	default:
		subject = "Notification"
		body = fmt.Sprintf("%v", fields)
	}
	return subject, body
}
