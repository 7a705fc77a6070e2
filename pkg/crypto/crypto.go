/*
Package crypto holds the random source and digest primitives wallet code
depends on and the load-time check reporting missing ones.
*/
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"io"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Digest algorithm names accepted by Subtle.
const (
	SHA256     = "SHA-256"
	SHA512     = "SHA-512"
	SHA3_256   = "SHA3-256"
	SHA3_512   = "SHA3-512"
	BLAKE2b256 = "BLAKE2b-256"
)

// ErrUnsupportedAlgorithm is returned for unknown digest algorithms.
var ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

// Subtle is the digest provider.
type Subtle interface {
	Digest(alg string, data []byte) ([]byte, error)
}

// Primitives are the cryptographic primitives available to wallet code.
type Primitives struct {
	Random io.Reader
	Subtle Subtle
}

// Default returns primitives backed by the operating system random source.
func Default() Primitives {
	return Primitives{
		Random: rand.Reader,
		Subtle: Digests{},
	}
}

// GetRandomValues fills b with random bytes.
func (p Primitives) GetRandomValues(b []byte) error {
	if p.Random == nil {
		return errors.New("no random source")
	}
	_, err := io.ReadFull(p.Random, b)
	return err
}

// Digests implements Subtle with SHA-2, SHA-3 and BLAKE2b.
type Digests struct{}

// Digest implements Subtle interface.
func (Digests) Digest(alg string, data []byte) ([]byte, error) {
	var h hash.Hash
	switch alg {
	case SHA256:
		h = sha256.New()
	case SHA512:
		h = sha512.New()
	case SHA3_256:
		h = sha3.New256()
	case SHA3_512:
		h = sha3.New512()
	case BLAKE2b256:
		sum := blake2b.Sum256(data)
		return sum[:], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
	h.Write(data)
	return h.Sum(nil), nil
}

// Check reports every missing or broken primitive at error level and
// returns true if all of them are usable. It never fails otherwise, code
// relying on a missing primitive fails when it uses it.
func Check(log *zap.Logger, p Primitives) bool {
	if log == nil {
		log = zap.NewNop()
	}
	ok := true
	if p.Random == nil {
		log.Error("CRITICAL: random source is not available, wallet security compromised")
		ok = false
	} else {
		probe := make([]byte, 10)
		if err := p.GetRandomValues(probe); err != nil {
			log.Error("CRITICAL: random source failed", zap.Error(err))
			ok = false
		} else {
			log.Debug("random source works", zap.Binary("probe", probe))
		}
	}
	if p.Subtle == nil {
		log.Error("CRITICAL: subtle crypto is not available, encryption may fail")
		ok = false
	} else {
		log.Debug("subtle crypto is available")
	}
	return ok
}
