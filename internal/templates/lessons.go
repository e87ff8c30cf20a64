package templates

import "github.com/Adeela565/ClickSafe/internal/domain"

type lesson struct {
	Headline string
	Tips     []string
}

// lessons is keyed by domain.TemplateInfo.FeedbackPage.
var lessons = map[string]lesson{
	domain.GenericFeedbackPage: {
		Headline: "You opened a simulated phishing link",
		Tips: []string{
			"Urgent deadlines and threats are designed to rush you.",
			"Hover over links to check where they really go before clicking.",
			"When in doubt, use the report link or contact IT directly.",
		},
	},
	"password_reset": {
		Headline: "Password expiry emails are a classic lure",
		Tips: []string{
			"IT never asks you to confirm your current password by email.",
			"The sender address and link domain did not match our company domain.",
			"Change passwords only through the sign-in page you normally use.",
		},
	},
	"invoice_overdue": {
		Headline: "Unexpected invoices deserve a second look",
		Tips: []string{
			"You were not expecting an invoice from this sender.",
			"Threats of suspension within 24 hours are a pressure tactic.",
			"Verify payment requests with Finance using a known phone number.",
		},
	},
	"package_delivery": {
		Headline: "Fake delivery notices are everywhere",
		Tips: []string{
			"Small redelivery fees are a common way to harvest card details.",
			"Real carriers reference a tracking number you can check on their site.",
			"The link pointed to a domain unrelated to any carrier.",
		},
	},
	"security_alert": {
		Headline: "Security alerts can be the attack",
		Tips: []string{
			"Sign-in details like IP and country are easy to fabricate.",
			"Open your account settings directly instead of following the email.",
			"Report suspicious alerts so the security team can check them.",
		},
	},
	"payroll_update": {
		Headline: "Payroll changes never arrive by surprise",
		Tips: []string{
			"Requests to re-enter bank details are a top fraud pattern.",
			"HR announces provider changes through official channels first.",
			"Confirm with HR in person or by phone before entering data.",
		},
	},
}
