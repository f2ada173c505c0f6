// Package contact turns contact form bodies into validated submissions and
// composes the enquiry email sent to the agency.
package contact

import (
	"fmt"
	"math"
	"strings"
)

// Intents with special handling. Other values are accepted and passed through.
const (
	IntentQuote = "quote"
	IntentAudit = "audit"
)

// DefaultIntent is used when the form does not say what the visitor wants.
const DefaultIntent = IntentQuote

// Submission is a contact form submission decoded from an untyped JSON body.
type Submission struct {
	Intent      string
	Name        string
	Email       string
	Message     string
	Phone       string
	WebsiteURL  string
	Trade       string
	ServiceArea string

	// Honeypot is set when the hidden company field carried a value.
	Honeypot bool
}

// Parse reads a decoded JSON object into a Submission. Required fields that are
// missing or not strings come back empty so that validation rejects them.
func Parse(fields map[string]any) Submission {
	if fields == nil {
		fields = map[string]any{}
	}

	intent := DefaultIntent
	if v := fields["intent"]; truthy(v) {
		intent = stringify(v)
	}

	return Submission{
		Intent:      intent,
		Name:        stringOnly(fields["name"]),
		Email:       stringOnly(fields["email"]),
		Message:     stringOnly(fields["message"]),
		Phone:       optional(fields["phone"]),
		WebsiteURL:  optional(fields["websiteUrl"]),
		Trade:       optional(fields["trade"]),
		ServiceArea: optional(fields["serviceArea"]),
		Honeypot:    truthy(fields["company"]),
	}
}

// IsSpam reports whether the honeypot field was filled in.
func (s Submission) IsSpam() bool {
	return s.Honeypot
}

// IsAudit reports whether the visitor asked for a website audit.
func (s Submission) IsAudit() bool {
	return strings.ToUpper(s.Intent) == strings.ToUpper(IntentAudit)
}

func stringOnly(v any) string {
	s, _ := v.(string)
	return s
}

func optional(v any) string {
	if !truthy(v) {
		return ""
	}
	return stringify(v)
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return fmt.Sprintf("%.0f", t)
		}
		return fmt.Sprint(t)
	default:
		return fmt.Sprint(t)
	}
}

// truthy mirrors how a browser-side form library treats loosely typed values:
// empty strings, false, zero and null are unset; everything else counts.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	default:
		return true
	}
}
