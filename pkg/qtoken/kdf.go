package qtoken

import (
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for KDFArgon2id. Changing any of them changes every AuthToken.
const (
	Argon2Time        = 2
	Argon2Memory      = 16 * 1024 // 16 MiB
	Argon2Parallelism = 2
	Argon2KeyLen      = 32
)

// deriveArgon2id stretches the password with the shared salt.
func deriveArgon2id(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), Argon2Time, Argon2Memory, Argon2Parallelism, Argon2KeyLen)
	return hex.EncodeToString(key)
}
