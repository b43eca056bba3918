// Package idgen generates node ids for the document store.
//
// Ids are opaque strings from the store's point of view (invariant: stable
// and unique for the lifetime of the document). Two strategies
// are provided: a UUID generator for the common case, and a short base36
// id hashed from the node type and a nonce, for callers that want compact, deterministic
// ids (e.g. generated fixtures, golden snapshots in tests).
package idgen

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// base36Alphabet is the character set used by EncodeBase36.
const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Generator produces node ids for a given node type.
type Generator interface {
	NewID(nodeType string) string
}

// UUIDGenerator produces ids of the form "<type>-<uuid>". It is the default
// generator used by a freshly constructed document.
type UUIDGenerator struct{}

// NewID returns a fresh random id scoped to nodeType.
func (UUIDGenerator) NewID(nodeType string) string {
	return fmt.Sprintf("%s-%s", nodeType, uuid.NewString())
}

// ShortGenerator produces short, human-scannable ids by hashing the node
// type plus a nonce and encoding the digest as base36. NewIDForNonce is
// deterministic for a given (nodeType, nonce) pair, which makes it useful
// in tests that need stable fixture ids without hand-writing them. NewID
// satisfies Generator by drawing nonces from an internal counter.
type ShortGenerator struct {
	// Length is the number of base36 characters after the type prefix.
	// Values outside 3-8 fall back to 3.
	Length int

	counter int
}

// NewID returns the next short id for nodeType, advancing the generator's
// internal nonce counter.
func (g *ShortGenerator) NewID(nodeType string) string {
	id := g.NewIDForNonce(nodeType, g.counter)
	g.counter++
	return id
}

// NewIDForNonce returns the short deterministic id for the (nodeType,
// nonce) pair, without touching the generator's internal counter.
func (g *ShortGenerator) NewIDForNonce(nodeType string, nonce int) string {
	length := g.Length
	if length < 3 || length > 8 {
		length = 3
	}
	digest := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", nodeType, nonce)))
	numBytes := numBytesForLength(length)
	return fmt.Sprintf("%s-%s", nodeType, EncodeBase36(digest[:numBytes], length))
}

var _ Generator = (*ShortGenerator)(nil)
var _ Generator = UUIDGenerator{}

func numBytesForLength(length int) int {
	switch length {
	case 3:
		return 2
	case 4:
		return 3
	case 5, 6:
		return 4
	default:
		return 5
	}
}

// EncodeBase36 converts data to a base36 string of exactly length
// characters, left-padding with zeros or truncating to the least
// significant digits as needed.
func EncodeBase36(data []byte, length int) string {
	num := new(big.Int).SetBytes(data)

	base := big.NewInt(36)
	zero := big.NewInt(0)
	mod := new(big.Int)

	chars := make([]byte, 0, length)
	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		chars = append(chars, base36Alphabet[mod.Int64()])
	}

	var b strings.Builder
	for i := len(chars) - 1; i >= 0; i-- {
		b.WriteByte(chars[i])
	}

	str := b.String()
	if len(str) < length {
		str = strings.Repeat("0", length-len(str)) + str
	}
	if len(str) > length {
		str = str[len(str)-length:]
	}
	return str
}
