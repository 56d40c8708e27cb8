package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash returns the hex sha256 of a question stem. Stems are stored in CLOB columns,
// which cannot carry a unique index, so the hash stands in for the content in the
// (content, month) dedup key.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
