package registration

import "strings"

// NormalizeEmail trims whitespace and lowercases. All lookups and stored
// rows use the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateDomain checks a normalized email against the single allowed
// domain. Pure and deterministic; no side effects.
func ValidateDomain(email, allowedDomain string) error {
	_, domain, found := strings.Cut(email, "@")
	if !found || domain == "" || domain != allowedDomain {
		return ErrInvalidDomain
	}
	return nil
}

// NormalizePhone strips every non-digit character and requires at least ten
// digits to remain.
func NormalizePhone(phone string) (string, error) {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() < 10 {
		return "", ErrInvalidPhone
	}
	return digits.String(), nil
}
