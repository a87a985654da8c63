package hasher

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/prepgrid/interview-practice/domain"
)

// New returns a domain.Hasher backed by SHA-256, used to fingerprint
// question text for repeat detection.
func New() domain.Hasher { return sha256Hasher{} }

type sha256Hasher struct{}

func (h sha256Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
