package utils

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	scriptRegex = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	tagRegex    = regexp.MustCompile(`<[^>]*>`)
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex  = regexp.MustCompile(`[^\d+]`)
)

// SanitizeInput cleans a single-line value such as a name or subject.
// Line breaks are dropped so the value is safe in a mail header.
func SanitizeInput(input string) string {
	input = stripMarkup(input)
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
	return strings.TrimSpace(input)
}

// SanitizeText cleans a free-text body, keeping line breaks
func SanitizeText(input string) string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = stripMarkup(input)
	input = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
	return strings.TrimSpace(input)
}

// SanitizeEmail sanitizes and validates an email address
func SanitizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return "", errors.New("invalid email format")
	}
	return email, nil
}

// SanitizePhone sanitizes and validates a phone number
func SanitizePhone(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", errors.New("phone number is required")
	}

	// Remove all non-numeric characters except +
	phone = phoneRegex.ReplaceAllString(phone, "")
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}

	if len(phone) < 8 || len(phone) > 16 {
		return "", errors.New("invalid phone number length")
	}
	return phone, nil
}

func stripMarkup(input string) string {
	input = scriptRegex.ReplaceAllString(input, "")
	return tagRegex.ReplaceAllString(input, "")
}
