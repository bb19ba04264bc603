package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyName     = errors.New("name is required")
	ErrEmptyPhone    = errors.New("phone is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrWeakPassword  = errors.New("password must be at least 4 characters")
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 4

// Account is a storefront customer or administrator.
type Account struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Verified     bool
	Admin        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Registration carries the sign-up form.
type Registration struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// NewAccount validates a registration and hashes its password. New accounts
// start unverified and without admin rights.
func NewAccount(reg Registration) (*Account, error) {
	account := &Account{
		Name:  strings.TrimSpace(reg.Name),
		Email: strings.ToLower(strings.TrimSpace(reg.Email)),
		Phone: strings.TrimSpace(reg.Phone),
	}
	if account.Name == "" {
		return nil, ErrEmptyName
	}
	if !strings.Contains(account.Email, "@") {
		return nil, ErrInvalidEmail
	}
	if account.Phone == "" {
		return nil, ErrEmptyPhone
	}
	if err := account.SetPassword(reg.Password); err != nil {
		return nil, err
	}
	return account, nil
}

// SetPassword validates the password and stores its bcrypt hash.
func (a *Account) SetPassword(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the supplied password against the stored hash.
func (a *Account) CheckPassword(password string) bool {
	password = strings.TrimSpace(password)
	if password == "" || a.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// Verify marks the account as approved by an administrator. Verification is
// one-way.
func (a *Account) Verify() {
	a.Verified = true
}

// NormalizeIdentifier prepares a login identifier (email or phone) for lookup.
func NormalizeIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return strings.ToLower(identifier)
	}
	return identifier
}
