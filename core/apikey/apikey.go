// Package apikey generates and checks the key carried in the first path
// segment of authenticated requests.
package apikey

import (
	"crypto/subtle"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// MinLength is the shortest accepted key.
const MinLength = 16

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Generate returns a fresh random key.
func Generate() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Valid reports whether key has an acceptable length and alphabet.
func Valid(key string) bool {
	return len(key) >= MinLength && keyPattern.MatchString(key)
}

// Equal compares two keys in constant time.
func Equal(got, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
