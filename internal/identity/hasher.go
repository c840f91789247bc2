// Package identity derives stable pseudonymous identifiers from
// provider-issued subject ids.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashSubject returns the SHA-256 digest of a provider subject id as
// lowercase hex. The persisted value stands in for the raw subject id so the
// users table never contains a provider identifier; the hash is deterministic
// so the same external identity always resolves to the same local account.
func HashSubject(subjectID string) string {
	sum := sha256.Sum256([]byte(subjectID))
	return hex.EncodeToString(sum[:])
}
