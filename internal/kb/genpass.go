package kb

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	letters     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits      = "0123456789"
	punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

	// DefaultPasswordLength is the length of generated passwords when none is given.
	DefaultPasswordLength = 16
	maxPasswordLength     = 4096
)

// GeneratePassword returns a uniformly random password of the given length drawn
// from letters and digits, plus ASCII punctuation when symbols is set.
func GeneratePassword(symbols bool, length int) (string, error) {
	if length <= 0 || length > maxPasswordLength {
		return "", fmt.Errorf("password length must be between 1 and %d, got %d", maxPasswordLength, length)
	}

	charset := letters + digits
	if symbols {
		charset += punctuation
	}

	n := big.NewInt(int64(len(charset)))
	out := make([]byte, length)
	for i := range out {
		idx, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", fmt.Errorf("reading random source: %w", err)
		}
		out[i] = charset[idx.Int64()]
	}
	return string(out), nil
}
