package model

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxUsernameLength = 150
	MinPasswordLength = 8
)

var (
	ErrInvalidUsername  = fmt.Errorf("%w: username must be 1-%d characters of letters, digits and @.+-_", ErrValidation, MaxUsernameLength)
	ErrWeakPassword     = fmt.Errorf("%w: password must be at least %d characters long, contain an uppercase letter and a digit, and use only letters, digits and @$!%%*?&", ErrValidation, MinPasswordLength)
	ErrPasswordMismatch = fmt.Errorf("%w: password fields didn't match", ErrValidation)
)

// User is an account known to the authentication service.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

func NewUser(username, passwordHash string, isAdmin bool) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	return &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func ValidateUsername(username string) error {
	if username == "" || utf8.RuneCountInString(username) > MaxUsernameLength {
		return ErrInvalidUsername
	}
	for _, r := range username {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("@.+-_", r) {
			continue
		}
		return ErrInvalidUsername
	}
	return nil
}

// ValidatePassword enforces the registration password policy.
func ValidatePassword(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}

	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
		case strings.ContainsRune("@$!%*?&", r):
		default:
			return ErrWeakPassword
		}
	}
	if !hasUpper || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}
