package validate

import (
	"regexp"
	"strings"
)

var (
	angleBrackets = regexp.MustCompile(`[<>]`)
	jsScheme      = regexp.MustCompile(`(?i)javascript:`)
	eventHandler  = regexp.MustCompile(`(?i)on\w+=`)

	// First letter excludes D, F, I, O, Q, U, W, Z; later letters exclude D, F, I, O, Q, U
	postalRe = regexp.MustCompile(`^[ABCEGHJ-NPRSTVXY]\d[ABCEGHJ-NPRSTV-Z]\d[ABCEGHJ-NPRSTV-Z]\d$`)

	emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

	// 10 digits, area code and exchange code both start 2-9
	phoneRe = regexp.MustCompile(`^[2-9]\d{2}[2-9]\d{2}\d{4}$`)

	nonDigits = regexp.MustCompile(`\D`)
)

// Sanitize strips angle brackets, javascript: schemes and inline event-handler
// patterns, then trims whitespace. Each pattern is stripped until stable so
// removing one occurrence cannot uncover another.
func Sanitize(input string) string {
	out := input
	for {
		next := angleBrackets.ReplaceAllString(out, "")
		next = jsScheme.ReplaceAllString(next, "")
		next = eventHandler.ReplaceAllString(next, "")
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}

// PostalCode reports whether code is a valid Canadian postal code.
// Whitespace and case are normalized before matching.
func PostalCode(code string) bool {
	clean := strings.ToUpper(strings.Join(strings.Fields(code), ""))
	return postalRe.MatchString(clean)
}

// Email reports whether text is a plausible email address (max length 254).
func Email(text string) bool {
	return len(text) <= 254 && emailRe.MatchString(text)
}

// CanadianPhone reports whether text contains a valid 10-digit Canadian
// phone number. Formatting characters are ignored.
func CanadianPhone(text string) bool {
	clean := nonDigits.ReplaceAllString(text, "")
	return phoneRe.MatchString(clean)
}

// Rule identifies which validation applies to a question's answer.
type Rule string

const (
	RuleNone       Rule = "none"      // always passes
	RuleNonEmpty   Rule = "non_empty" // trimmed value must be non-empty
	RulePostalCode Rule = "postal_code"
	RuleEmail      Rule = "email"
	RulePhone      Rule = "phone"
)

// Check dispatches raw through the rule table. Unknown rules behave like
// RuleNonEmpty, the default gate for questions without a validator.
func Check(rule Rule, raw string) bool {
	switch rule {
	case RuleNone:
		return true
	case RulePostalCode:
		return PostalCode(raw)
	case RuleEmail:
		return Email(raw)
	case RulePhone:
		return CanadianPhone(raw)
	default:
		return strings.TrimSpace(raw) != ""
	}
}
