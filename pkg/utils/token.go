package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateToken returns an opaque random hex string suitable for invitation
// and verification links.
func GenerateToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(err)
	}
	return hex.EncodeToString(buf)
}
