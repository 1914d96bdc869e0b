package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// productKeyInput is the string a product key is a verifier of.  It binds
// the key to one email and one role.  The digest keeps the input under
// bcrypt's 72 byte limit regardless of email or secret length.
func productKeyInput(email, role, secret string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%s-%s", email, role, secret)))
	return hex.EncodeToString(sum[:])
}

// NewProductKey mints a key that lets email sign up with role.
func NewProductKey(email, role, secret string, cost int) (string, error) {
	return HashPassword(productKeyInput(email, role, secret), cost)
}

// VerifyProductKey reports whether key was minted for email and role.
func VerifyProductKey(key, email, role, secret string) bool {
	return VerifyPassword(key, productKeyInput(email, role, secret))
}
