// Package password hashes and verifies account passwords with PBKDF2-HMAC-SHA256.
//
// Hashes are stored as
//
//	$pbkdf2-sha256$<iterations>$<salt>$<checksum>
//
// with salt and checksum in the adapted base64 alphabet ('.' instead of '+',
// no padding). The iteration count travels with the hash, so raising the
// configured cost never invalidates existing passwords.
package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 29000

	scheme  = "pbkdf2-sha256"
	saltLen = 16
	keyLen  = 32
)

var ErrEmptyPassword = errors.New("password: empty password")

var encoding = base64.NewEncoding("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789./").WithPadding(base64.NoPadding)

type Hasher struct {
	Iterations int
}

func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{Iterations: iterations}
}

// Hash returns a freshly salted hash of raw.
func (h *Hasher) Hash(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: read salt: %w", err)
	}
	sum := pbkdf2.Key([]byte(raw), salt, h.Iterations, keyLen, sha256.New)
	return fmt.Sprintf("$%s$%d$%s$%s", scheme, h.Iterations, encoding.EncodeToString(salt), encoding.EncodeToString(sum)), nil
}

// Verify reports whether raw matches stored. Malformed hashes never match.
func (h *Hasher) Verify(raw, stored string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != scheme {
		return false
	}
	iterations, err := strconv.Atoi(parts[2])
	if err != nil || iterations <= 0 {
		return false
	}
	salt, err := encoding.DecodeString(parts[3])
	if err != nil {
		return false
	}
	want, err := encoding.DecodeString(parts[4])
	if err != nil || len(want) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(raw), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
