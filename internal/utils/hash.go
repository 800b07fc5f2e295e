package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// ChecksumPrefix tags checksums produced by Checksum so the algorithm can
// change without ambiguity.
const ChecksumPrefix = "blake2b-256:"

// hasherPool is a package-level pool of reusable HMAC-SHA256 hash instances.
// Must be initialized via InitHasherPool before use.
var hasherPool sync.Pool

// InitHasherPool initializes a sync.Pool of HMAC-SHA256 hashers keyed with
// hashKey. It is called once on startup when request signing is enabled.
//
// Example usage:
//
//	utils.InitHasherPool("my-secret-key")
func InitHasherPool(hashKey string) {
	hasherPool = sync.Pool{
		New: func() any {
			return hmac.New(sha256.New, []byte(hashKey))
		},
	}
}

// Hash computes an HMAC-SHA256 signature over data using a hasher pulled
// from the global pool.
func Hash(data []byte) []byte {
	h := hasherPool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	hasherPool.Put(h)

	return sum
}

// HashHex is Hash encoded as lowercase hex, the form carried in the
// HashSHA256 header.
func HashHex(data []byte) string {
	return hex.EncodeToString(Hash(data))
}

// VerifyHash reports whether signature is the hex HMAC of data. The
// comparison runs in constant time.
func VerifyHash(data []byte, signature string) bool {
	want, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(Hash(data), want)
}

// HashString computes an HMAC-SHA256 signature over data with the provided
// key and returns it hex-encoded. It does not touch the global pool.
func HashString(data string, hashKey string) string {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write([]byte(data))
	return hex.EncodeToString(hasher.Sum(nil))
}

// Checksum returns the content checksum stored alongside a sync state.
// Empty payloads have an empty checksum.
func Checksum(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}
	sum := blake2b.Sum256(payload)
	return ChecksumPrefix + hex.EncodeToString(sum[:])
}
