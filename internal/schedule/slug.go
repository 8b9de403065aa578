package schedule

import (
	"crypto/rand"
	"math/big"
)

const (
	slugAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	slugLength   = 12
	slugAttempts = 3
)

// NewSlug samples a 12 character base-36 string.
func NewSlug() (string, error) {
	max := big.NewInt(int64(len(slugAlphabet)))
	b := make([]byte, slugLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = slugAlphabet[n.Int64()]
	}
	return string(b), nil
}
