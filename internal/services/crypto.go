package services

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// encryptionSalt must stay stable, changing it orphans every encrypted setting
var encryptionSalt = []byte("recipepad-settings-v1")

const encryptionIterations = 100000

// DeriveEncryptionKey derives the 32-byte AES key for encrypted settings
func DeriveEncryptionKey(secret string) []byte {
	return pbkdf2.Key([]byte(secret), encryptionSalt, encryptionIterations, 32, sha256.New)
}
