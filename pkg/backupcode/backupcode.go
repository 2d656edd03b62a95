// Package backupcode generates and verifies single-use recovery codes.
//
// Codes are random lowercase hex strings. Only SHA-256 digests of the
// codes are kept after generation; the plaintext set is returned to the
// caller exactly once.
package backupcode

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash is a stored backup code digest and its consumption state.
type Hash struct {
	Value string `json:"value"`
	Used  bool   `json:"used"`
}

// Generate returns count plaintext codes of length hex characters each,
// along with their stored hashes.
func Generate(count, length int) ([]string, []Hash, error) {
	if count <= 0 || length <= 0 {
		return nil, nil, fmt.Errorf("invalid backup code parameters: count=%d length=%d", count, length)
	}

	codes := make([]string, 0, count)
	hashes := make([]Hash, 0, count)
	for i := 0; i < count; i++ {
		// Each hex character encodes 4 bits.
		bytes := make([]byte, (length+1)/2)
		if _, err := rand.Read(bytes); err != nil {
			return nil, nil, fmt.Errorf("failed to generate random bytes: %w", err)
		}
		code := hex.EncodeToString(bytes)[:length]
		codes = append(codes, code)
		hashes = append(hashes, Hash{Value: HashCode(code)})
	}
	return codes, hashes, nil
}

// HashCode returns the hex-encoded SHA-256 digest of a code. Codes are
// normalized to lowercase with surrounding whitespace removed before
// hashing, so user input with stray spaces or capitals still matches.
func HashCode(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Consume marks the hash matching code as used and reports whether a
// match was found. Already-used codes never match.
func Consume(hashes []Hash, code string) bool {
	digest := HashCode(code)
	for i := range hashes {
		if hashes[i].Used {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(hashes[i].Value), []byte(digest)) == 1 {
			hashes[i].Used = true
			return true
		}
	}
	return false
}

// Remaining counts the codes not yet consumed.
func Remaining(hashes []Hash) int {
	n := 0
	for _, h := range hashes {
		if !h.Used {
			n++
		}
	}
	return n
}
