package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/P72i1ip/llm-chat-history-api/internal/models"
)

var (
	// letters and spaces only
	nameRe  = regexp.MustCompile(`^[A-Za-z ]+$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) string {
	switch {
	case len(name) < models.NameMinLength:
		return fmt.Sprintf("must have at least %d characters", models.NameMinLength)
	case len(name) > models.NameMaxLength:
		return fmt.Sprintf("must have at most %d characters", models.NameMaxLength)
	case !nameRe.MatchString(name):
		return "must only contain letters and spaces"
	}
	return ""
}

func validateEmail(email string) string {
	if !emailRe.MatchString(email) {
		return "must be a valid email address"
	}
	return ""
}

func validatePassword(password string, confirm string) map[string]string {
	fields := map[string]string{}
	if len(password) < models.PasswordMinLength {
		fields["password"] = fmt.Sprintf("must have at least %d characters", models.PasswordMinLength)
	}
	if password != confirm {
		fields["passwordConfirm"] = "passwords do not match"
	}
	return fields
}
