package links

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const (
	// MaxKeyLength bounds the full key, prefix included.
	MaxKeyLength = 190

	// GeneratedKeyLength is the length of keys assigned when none is given.
	GeneratedKeyLength = 7

	keyAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

var (
	// ErrKeyFormat is returned when a key contains characters outside the
	// allowed set or has empty path segments.
	ErrKeyFormat = errors.New("key may only contain letters, numbers, '-', '_', '.', and '/' separated path segments")

	// ErrKeyTooLong is returned when a key exceeds MaxKeyLength.
	ErrKeyTooLong = fmt.Errorf("key must be at most %d characters", MaxKeyLength)

	// ErrKeyReserved is returned when a key collides with a route on the
	// default domain.
	ErrKeyReserved = errors.New("key is reserved")

	// keyPattern matches one or more segments separated by single slashes.
	keyPattern = regexp.MustCompile(`^[A-Za-z0-9_\-.]+(/[A-Za-z0-9_\-.]+)*$`)

	// reservedKeys are first path segments served by the application itself
	// on the default domain.
	reservedKeys = map[string]bool{
		"api":     true,
		"docs":    true,
		"metrics": true,
		"healthz": true,
		"static":  true,
		"admin":   true,
		"app":     true,
		"login":   true,
		"logout":  true,
	}
)

// ValidateKey checks key's format and length. Reserved keys are only
// rejected when the link lives on the default domain. Keys are case-sensitive;
// the reserved check is not.
func ValidateKey(key string, onDefaultDomain bool) error {
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if !keyPattern.MatchString(key) {
		return ErrKeyFormat
	}
	for _, seg := range strings.Split(key, "/") {
		if strings.Trim(seg, ".") == "" {
			return ErrKeyFormat
		}
	}
	if onDefaultDomain {
		first, _, _ := strings.Cut(key, "/")
		if reservedKeys[strings.ToLower(first)] {
			return fmt.Errorf("%w: %q", ErrKeyReserved, first)
		}
	}
	return nil
}

// JoinPrefix returns key placed under prefix. Surrounding slashes on the
// prefix are ignored; an empty prefix leaves key unchanged.
func JoinPrefix(prefix, key string) string {
	p := strings.Trim(prefix, "/")
	if p == "" {
		return key
	}
	return p + "/" + key
}

// GenerateKey returns a random base62 key of length n.
func GenerateKey(n int) (string, error) {
	base := big.NewInt(int64(len(keyAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", err
		}
		b[i] = keyAlphabet[idx.Int64()]
	}
	return string(b), nil
}
