// Package txid generates human-readable transaction identifiers.
package txid

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// New returns prefix followed by 16 upper-case hex characters.
func New(prefix string) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return prefix + strings.ToUpper(hex.EncodeToString(b)), nil
}
