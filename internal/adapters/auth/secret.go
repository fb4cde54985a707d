package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"guestrsvp/internal/domain"
)

const secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

type randomSecrets struct {
	length int
}

// NewSecretGenerator returns a SecretGenerator of random alphanumeric tokens of the given length.
func NewSecretGenerator(length int) domain.SecretGenerator {
	return &randomSecrets{length: length}
}

func (g *randomSecrets) NewSecret() (string, error) {
	max := big.NewInt(int64(len(secretAlphabet)))
	b := make([]byte, g.length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate secret: %w", err)
		}
		b[i] = secretAlphabet[n.Int64()]
	}
	return string(b), nil
}
