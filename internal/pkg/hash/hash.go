// Package hash provides the two one-way hash profiles used by the API:
// an adaptive salted hash for passwords and a fast digest for short-lived
// one-time codes. OTP codes are rate-limited by TTL and single use, not by
// hash cost, so they skip the adaptive profile.
package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Password hashes a plaintext password with bcrypt at the default cost.
func Password(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the bcrypt digest.
func VerifyPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// OTP returns the hex-encoded SHA-256 digest of a one-time code.
func OTP(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// VerifyOTP compares a candidate code against a stored OTP digest in
// constant time.
func VerifyOTP(code, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(OTP(code)), []byte(digest)) == 1
}
