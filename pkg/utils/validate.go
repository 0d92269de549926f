package utils

import (
	"regexp"
	"strings"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex   = regexp.MustCompile(`^[\d\s()+\-.]{7,20}$`)
	missionRegex = regexp.MustCompile(`^DBM\d+$`)
	markupRegex  = regexp.MustCompile(`<[^>]*>`)
)

// IsValidEmail reports whether the string looks like an email address.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPhone reports whether the string looks like a phone number.
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// IsValidMissionID reports whether the string matches the DBM<digits> pattern.
func IsValidMissionID(id string) bool {
	return missionRegex.MatchString(id)
}

// SanitizeText strips embedded markup and trims surrounding whitespace.
// Applied to every free-text field before persistence.
func SanitizeText(s string) string {
	return strings.TrimSpace(markupRegex.ReplaceAllString(s, ""))
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailDomain returns the part after the last "@", lowercased, or "" when the
// string is not an address.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// ContainsString reports whether list contains s.
func ContainsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
