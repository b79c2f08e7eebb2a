package crypto

import (
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/blake2b"
)

// hashLen is the number of hex characters kept from each digest.
const hashLen = 16

// Hasher derives stable pseudonyms for client addresses using keyed BLAKE2b,
// so rate-limit buckets and log lines never hold a raw IP.
type Hasher struct {
	key []byte
}

// NewHasher creates a Hasher. key must be between 1 and 64 bytes.
func NewHasher(key []byte) (*Hasher, error) {
	if len(key) == 0 {
		return nil, errors.New("crypto: hash key must not be empty")
	}
	if len(key) > blake2b.Size {
		return nil, errors.New("crypto: hash key must be at most 64 bytes")
	}
	// Validate once up front; Sum cannot fail afterwards.
	if _, err := blake2b.New256(key); err != nil {
		return nil, err
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Hasher{key: k}, nil
}

// Sum returns the truncated hex digest of v.
func (h *Hasher) Sum(v string) string {
	d, _ := blake2b.New256(h.key)
	d.Write([]byte(v))
	return hex.EncodeToString(d.Sum(nil))[:hashLen]
}
