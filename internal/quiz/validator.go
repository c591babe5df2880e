package quiz

import (
	"fmt"
	"regexp"
	"strings"

	"quiz-intake-service/internal/domain"
)

// EmailValidator checks submitted emails against a single allowed domain.
type EmailValidator struct {
	domain  string
	pattern *regexp.Regexp
}

// NewEmailValidator builds a validator for addresses of the form
// local@domain, matched case-insensitively.
func NewEmailValidator(emailDomain string) *EmailValidator {
	emailDomain = strings.TrimPrefix(strings.TrimSpace(emailDomain), "@")
	pattern := regexp.MustCompile(`(?i)^[a-z0-9._%+-]+@` + regexp.QuoteMeta(emailDomain) + `$`)
	return &EmailValidator{domain: emailDomain, pattern: pattern}
}

// Validate trims and lowercases the raw email and checks it against the
// allowed domain. It returns the normalized email, ready for the
// duplicate check.
func (v *EmailValidator) Validate(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.E(domain.KindValidation, "Email is required.", nil)
	}
	if !v.pattern.MatchString(email) {
		return "", domain.E(domain.KindValidation, fmt.Sprintf("Only @%s emails are allowed.", v.domain), nil)
	}
	return email, nil
}

// MissingAnswers returns the 1-based indices of answers that are empty
// after trimming. A submission with any missing answer is rejected whole.
func MissingAnswers(answers []domain.Answer) []int {
	var missing []int
	for i, a := range answers {
		if strings.TrimSpace(a.Answer) == "" {
			missing = append(missing, i+1)
		}
	}
	return missing
}
