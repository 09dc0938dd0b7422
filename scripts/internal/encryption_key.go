package internal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateEncryptionKey prints a random 256-bit key, hex encoded
func GenerateEncryptionKey() error {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("unable to generate key: %w", err)
	}

	fmt.Println("Add the following to your configuration (secrets.encryption_key):")
	fmt.Println(hex.EncodeToString(key))
	return nil
}
