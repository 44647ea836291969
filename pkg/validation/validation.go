package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// EmailRegex validates email format
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// ResourceIDRegex validates resource ID format
	ResourceIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// AccessCodeRegex validates access code format
	AccessCodeRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

	// SlugRegex validates group slug format
	SlugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// ValidateEmail validates email address
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email is too long (max 254 characters)")
	}
	if !EmailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateUsername validates username
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters")
	}
	if len(username) > 50 {
		return fmt.Errorf("username is too long (max 50 characters)")
	}
	if !regexp.MustCompile(`^[a-zA-Z0-9_-]+$`).MatchString(username) {
		return fmt.Errorf("username contains invalid characters (only letters, numbers, _, - allowed)")
	}
	return nil
}

// ValidatePassword validates password
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if len(password) > 128 {
		return fmt.Errorf("password is too long (max 128 characters)")
	}
	return nil
}

// ValidateResourceID validates resource ID
func ValidateResourceID(resourceID string) error {
	if resourceID == "" {
		return fmt.Errorf("resource ID is required")
	}
	if len(resourceID) > 100 {
		return fmt.Errorf("resource ID is too long (max 100 characters)")
	}
	if !ResourceIDRegex.MatchString(resourceID) {
		return fmt.Errorf("invalid resource ID format")
	}
	return nil
}

// ValidateAccessCode validates access code format
func ValidateAccessCode(code string) error {
	if code == "" {
		return fmt.Errorf("access code is required")
	}
	if len(code) > 64 {
		return fmt.Errorf("access code is too long (max 64 characters)")
	}
	if !AccessCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid access code format")
	}
	return nil
}

// ValidateResourceTitle validates resource title
func ValidateResourceTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("resource title is required")
	}
	if len(title) > 200 {
		return fmt.Errorf("resource title is too long (max 200 characters)")
	}
	// Check for valid UTF-8
	if !utf8.ValidString(title) {
		return fmt.Errorf("resource title contains invalid characters")
	}
	return nil
}

// ValidateGroupName validates group name
func ValidateGroupName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("group name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("group name is too long (max 100 characters)")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("group name contains invalid characters")
	}
	return nil
}

// ValidateSlug validates group slug format
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug is required")
	}
	if len(slug) > 100 {
		return fmt.Errorf("slug is too long (max 100 characters)")
	}
	if !SlugRegex.MatchString(slug) {
		return fmt.Errorf("invalid slug format (lowercase letters, numbers and hyphens)")
	}
	return nil
}

// ValidateRole validates a membership role name
func ValidateRole(role string) error {
	validRoles := map[string]bool{
		"viewer":      true,
		"contributor": true,
		"editor":      true,
		"admin":       true,
	}
	if !validRoles[role] {
		return fmt.Errorf("invalid role (must be viewer, contributor, editor, or admin)")
	}
	return nil
}

// ValidateNonEmptyString validates that string is not empty after trimming
func ValidateNonEmptyString(s, fieldName string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateStringLength validates string length
func ValidateStringLength(s string, min, max int, fieldName string) error {
	length := utf8.RuneCountInString(s)
	if length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if length > max {
		return fmt.Errorf("%s is too long (max %d characters)", fieldName, max)
	}
	return nil
}
