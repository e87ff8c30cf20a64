package domain

import (
	"fmt"
	"sort"
)

// TemplateKey identifies one of the built-in phishing email templates. The
// set is closed: unknown keys are rejected when a request is parsed rather
// than when the template is rendered.
type TemplateKey string

const (
	TemplatePasswordReset   TemplateKey = "password_reset"
	TemplateInvoiceOverdue  TemplateKey = "invoice_overdue"
	TemplatePackageDelivery TemplateKey = "package_delivery"
	TemplateSecurityAlert   TemplateKey = "security_alert"
	TemplatePayrollUpdate   TemplateKey = "payroll_update"
)

// GenericSubject is used for campaigns whose template carries no subject.
const GenericSubject = "Important: action required"

// GenericFeedbackPage is shown when a clicked campaign's subject does not
// map back to a known template.
const GenericFeedbackPage = "generic"

// TemplateInfo describes how a template presents itself.
type TemplateInfo struct {
	Key          TemplateKey `json:"key"`
	Subject      string      `json:"subject"`
	DisplayName  string      `json:"display_name"`
	FeedbackPage string      `json:"feedback_page"`
}

var templateCatalog = map[TemplateKey]TemplateInfo{
	TemplatePasswordReset: {
		Key:          TemplatePasswordReset,
		Subject:      "Your password expires today",
		DisplayName:  "Password Reset",
		FeedbackPage: "password_reset",
	},
	TemplateInvoiceOverdue: {
		Key:          TemplateInvoiceOverdue,
		Subject:      "Overdue invoice: payment required within 24 hours",
		DisplayName:  "Overdue Invoice",
		FeedbackPage: "invoice_overdue",
	},
	TemplatePackageDelivery: {
		Key:          TemplatePackageDelivery,
		Subject:      "We could not deliver your package",
		DisplayName:  "Package Delivery",
		FeedbackPage: "package_delivery",
	},
	TemplateSecurityAlert: {
		Key:          TemplateSecurityAlert,
		Subject:      "Unusual sign-in activity detected",
		DisplayName:  "Security Alert",
		FeedbackPage: "security_alert",
	},
	TemplatePayrollUpdate: {
		Key:          TemplatePayrollUpdate,
		Subject:      "Action needed: confirm your payroll details",
		DisplayName:  "Payroll Update",
		FeedbackPage: "payroll_update",
	},
}

var subjectIndex = func() map[string]TemplateKey {
	m := make(map[string]TemplateKey, len(templateCatalog))
	for k, info := range templateCatalog {
		m[info.Subject] = k
	}
	return m
}()

// ParseTemplateKey validates a raw template key.
func ParseTemplateKey(s string) (TemplateKey, error) {
	k := TemplateKey(s)
	if _, ok := templateCatalog[k]; !ok {
		return "", &ValidationError{Field: "template", Message: fmt.Sprintf("unknown template %q", s)}
	}
	return k, nil
}

// Info returns the catalog entry for the key. Keys outside the catalog get
// the generic subject and feedback page.
func (k TemplateKey) Info() TemplateInfo {
	if info, ok := templateCatalog[k]; ok {
		return info
	}
	return TemplateInfo{Key: k, Subject: GenericSubject, DisplayName: string(k), FeedbackPage: GenericFeedbackPage}
}

// Valid reports whether the key is part of the catalog.
func (k TemplateKey) Valid() bool {
	_, ok := templateCatalog[k]
	return ok
}

// TemplateForSubject is the reverse lookup used when a recipient clicks: it
// maps a campaign subject back to the template that produced it.
func TemplateForSubject(subject string) (TemplateKey, bool) {
	k, ok := subjectIndex[subject]
	return k, ok
}

// FeedbackPageForSubject returns the education page for a campaign subject.
func FeedbackPageForSubject(subject string) string {
	if k, ok := TemplateForSubject(subject); ok {
		return templateCatalog[k].FeedbackPage
	}
	return GenericFeedbackPage
}

// Templates returns the catalog ordered by key.
func Templates() []TemplateInfo {
	out := make([]TemplateInfo, 0, len(templateCatalog))
	for _, info := range templateCatalog {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
