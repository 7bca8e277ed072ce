// Package auth gates the two station roles behind shared secrets.
// Operators scan and finalize; admins additionally manage materials and
// settings.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Station roles.
const (
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

// ErrBadCredentials is returned when a supplied secret matches no role.
var ErrBadCredentials = errors.New("bad credentials")

// Credentials holds the per-role secrets, either bcrypt hashes or plain
// values for small deployments.
type Credentials struct {
	OperatorSecret string `yaml:"operator_secret" json:"operator_secret"`
	AdminSecret    string `yaml:"admin_secret" json:"admin_secret"`
}

// CheckSecret compares a supplied secret against the stored one. Stored
// values with a bcrypt prefix are verified as hashes; anything else is
// compared in constant time.
func CheckSecret(stored, supplied string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// Login resolves a secret to a role. Admin is checked first so a shared
// secret configured for both roles grants the wider one.
func (c Credentials) Login(secret string) (string, error) {
	if CheckSecret(c.AdminSecret, secret) {
		return RoleAdmin, nil
	}
	if CheckSecret(c.OperatorSecret, secret) {
		return RoleOperator, nil
	}
	return "", ErrBadCredentials
}

// HashSecret produces a bcrypt hash suitable for storing in config.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
