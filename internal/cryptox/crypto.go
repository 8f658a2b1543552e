// Package cryptox hashes and verifies user secrets (passwords and
// security answers) with salted argon2id.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/carpool/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	scheme = "argon2id"

	saltLen = 16
	keyLen  = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

var ErrMalformedHash = errors.New("malformed secret hash")

func deriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, argonTime, argonMemory, argonThreads, keyLen)
}

// HashSecret returns "argon2id$<salt-hex>$<hash-hex>" for secret with a fresh
// random salt.
func HashSecret(secret string) string {
	salt := common.GenerateRandByteArray(saltLen)
	key := deriveKey([]byte(secret), salt)
	return scheme + "$" + hex.EncodeToString(salt) + "$" + hex.EncodeToString(key)
}

// VerifySecret reports whether secret matches encoded, comparing in constant
// time. A malformed encoding is an error, a mismatch is not.
func VerifySecret(secret, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != scheme {
		return false, ErrMalformedHash
	}
	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) != keyLen {
		return false, fmt.Errorf("%w: key", ErrMalformedHash)
	}

	got := deriveKey([]byte(secret), salt)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// NormalizeAnswer canonicalizes a security answer before hashing or
// verification: surrounding spaces are dropped and case is ignored.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
