package remote

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// IdempotencyKey derives a stable key from the entry id and the exact body
// sent, so a replay of the same push carries the same key.
func IdempotencyKey(id string, body []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(id))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
