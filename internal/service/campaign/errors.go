package campaign

import "github.com/Adeela565/ClickSafe/internal/domain"

// Validation failures raised before any write.
var (
	errEmptyDeletion = &domain.ValidationError{Field: "campaign_ids", Message: "select at least one campaign"}
	errNoBaseURL     = &domain.ValidationError{Field: "base_url", Message: "a public base URL is required to build tracking links"}
	errNoRecipient   = &domain.ValidationError{Field: "to", Message: "a recipient address is required"}
)
