package model

import "strings"

// Phone numbers are kept in the canonical +998XXXXXXXXX form everywhere past
// the API boundary. Raw input is normalized exactly once, then validated.

// stripPhone removes spacing noise and at most one leading plus.
func stripPhone(phone string) string {
	r := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	phone = r.Replace(phone)
	if strings.HasPrefix(phone, "+") {
		phone = phone[1:]
	}
	return phone
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ValidatePhone reports whether phone is an Uzbek number: after stripping
// formatting characters it must be exactly 12 digits starting with 998.
func ValidatePhone(phone string) bool {
	p := stripPhone(phone)
	return len(p) == 12 && strings.HasPrefix(p, "998") && isDigits(p)
}

// NormalizePhone converts loosely formatted input to +998XXXXXXXXX.
// It never fails; callers must run ValidatePhone on the result.
func NormalizePhone(phone string) string {
	p := stripPhone(phone)
	if strings.HasPrefix(p, "998") {
		return "+" + p
	}
	// bare 9-digit subscriber number
	if isDigits(p) && len(p) == 9 {
		return "+998" + p
	}
	return "+" + p
}
