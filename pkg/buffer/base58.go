package buffer

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// Base58Encoding is the name of the base58 encoding provided by Base58.
const Base58Encoding Encoding = "base58"

// Base58 is an optional codec for the bitcoin base58 alphabet, it's not
// registered by default, pass it to NewRegistry to use it.
var Base58 Codec = base58Codec{}

type base58Codec struct{}

func (base58Codec) Encoding() Encoding { return Base58Encoding }

func (base58Codec) Encode(b []byte) string {
	return base58.Encode(b)
}

func (base58Codec) Decode(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return b, nil
}
