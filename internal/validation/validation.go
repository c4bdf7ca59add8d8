package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxAnswerLength bounds typed spelling answers
const MaxAnswerLength = 64

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateAnswer checks a typed spelling answer. Empty is allowed and
// means the word is skipped.
func ValidateAnswer(answer string) error {
	if !utf8.ValidString(answer) {
		return ValidationError{Field: "answer", Message: "answer is not valid text"}
	}
	if utf8.RuneCountInString(answer) > MaxAnswerLength {
		return ValidationError{Field: "answer", Message: fmt.Sprintf("answer must be at most %d characters", MaxAnswerLength)}
	}
	for _, r := range answer {
		if unicode.IsControl(r) {
			return ValidationError{Field: "answer", Message: "answer contains control characters"}
		}
	}
	return nil
}
