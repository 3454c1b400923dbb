package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 120000
	pbkdf2KeyLen     = 32
	pbkdf2SaltLen    = 16
)

// HashPassword derives a PBKDF2-HMAC-SHA256 credential and serializes it as
// pbkdf2$<iterations>$<salt-hex>$<hash-hex>.
func HashPassword(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)

	return fmt.Sprintf("pbkdf2$%d$%s$%s",
		pbkdf2Iterations, hex.EncodeToString(salt), hex.EncodeToString(hash)), nil
}

// VerifyPassword recomputes the stored credential and compares in constant
// time. Anything that is not a well-formed pbkdf2 record fails closed; there
// is deliberately no plaintext fallback for legacy rows.
func VerifyPassword(password string, stored string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 4 || parts[0] != "pbkdf2" {
		return false
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}

	salt, err := hex.DecodeString(parts[2])
	if err != nil || len(salt) == 0 {
		return false
	}

	expected, err := hex.DecodeString(parts[3])
	if err != nil || len(expected) == 0 {
		return false
	}

	computed := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)

	return subtle.ConstantTimeCompare(expected, computed) == 1
}
