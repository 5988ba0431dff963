// Package emailaddr normalizes and screens visitor email addresses.
// Verification is meant to establish an organization identity, so consumer
// mail providers are rejected outright.
package emailaddr

import (
	"regexp"
	"strings"
)

// syntax requires local@domain with a dotted alphabetic top-level label.
var syntax = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// personalDomains are consumer mail providers blocked from
// organization-identity verification.
var personalDomains = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
	"yahoo.com":      {},
	"ymail.com":      {},
	"rocketmail.com": {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"live.com":       {},
	"msn.com":        {},
	"aol.com":        {},
	"icloud.com":     {},
	"me.com":         {},
	"mac.com":        {},
	"protonmail.com": {},
	"proton.me":      {},
	"zoho.com":       {},
	"mail.com":       {},
	"email.com":      {},
	"yandex.com":     {},
	"ya.ru":          {},
	"gmx.com":        {},
	"gmx.net":        {},
	"fastmail.com":   {},
	"tutanota.com":   {},
	"tuta.io":        {},
	"hey.com":        {},
	"rediffmail.com": {},
	"indiatimes.com": {},
	"inbox.com":      {},
	"hushmail.com":   {},
	"lavabit.com":    {},
}

// Normalize lower-cases and trims an address. All storage and comparison
// goes through the normalized form.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValid reports whether the (normalized) address is syntactically acceptable.
func IsValid(email string) bool {
	return syntax.MatchString(email)
}

// IsPersonal reports whether the (normalized) address belongs to a blocked
// consumer mail provider.
func IsPersonal(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	_, blocked := personalDomains[email[at+1:]]
	return blocked
}
