package usecase

import (
	"crypto/rand"
	"fmt"
)

const (
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength   = 8
)

// newCustomerID samples an 8-char uppercase alphanumeric token. The space
// (36^8 ≈ 2.8e12) makes accidental collisions negligible at our volumes;
// the store's primary key still catches one, and Create retries.
func newCustomerID() (string, error) {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate customer id: %w", err)
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf), nil
}
