package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// SampleFingerprint hashes the exact bit patterns of both samples together
// with the option words. Sample boundaries are length-prefixed so that
// moving a value from one sample to the other changes the hash.
func SampleFingerprint(baseline, enhanced []float64, options ...float64) Hash {
	buf := make([]byte, 0, 8*(len(baseline)+len(enhanced)+len(options)+3))
	buf = appendFloats(buf, baseline)
	buf = appendFloats(buf, enhanced)
	buf = appendFloats(buf, options)
	return NewHash(buf)
}

func appendFloats(buf []byte, values []float64) []byte {
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(values)))
	for _, v := range values {
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(v))
	}
	return buf
}
