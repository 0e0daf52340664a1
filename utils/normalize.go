package utils

import (
	"regexp"
	"strings"
)

var (
	nonDigits   = regexp.MustCompile(`\D+`)
	nonSlugRune = regexp.MustCompile(`[^a-z0-9]+`)
)

// turkishFold maps letters that have no ASCII decomposition
var turkishFold = strings.NewReplacer(
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "I", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
)

// NormalizeEmail trims and lower-cases an email
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUserID trims and case-folds a user identifier for use inside storage keys
func NormalizeUserID(userID string) string {
	return strings.ToLower(strings.TrimSpace(userID))
}

// OnlyDigits strips everything that is not 0-9
func OnlyDigits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// Slugify turns a title into a lowercase dash-separated id: "Yönetim Paneli • Silver" -> "yonetim-paneli-silver"
func Slugify(title string) string {
	s := turkishFold.Replace(strings.TrimSpace(title))
	s = strings.ToLower(s)
	s = nonSlugRune.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CleanStrings trims every element and drops the empty ones. The result is never nil.
func CleanStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// SplitFullName splits "Ada King Lovelace" into ("Ada King", "Lovelace")
func SplitFullName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

// FullName joins first and last name, falling back to name
func FullName(first, last, name string) string {
	if first != "" || last != "" {
		return strings.TrimSpace(first + " " + last)
	}
	return strings.TrimSpace(name)
}
