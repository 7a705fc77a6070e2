/*
Package buffer implements the subset of the reference binary buffer API the
wallet's transaction builder and crypto code rely on, on top of a plain byte
slice. Method names and return values (notably writes returning the next free
offset) follow the reference API so that the callers don't have to change.
*/
package buffer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	ojson "github.com/nspcc-dev/go-ordered-json"
)

var (
	// ErrDecode is returned when base64 or hex text can't be decoded.
	ErrDecode = errors.New("decode error")
	// ErrUnsupportedInput is returned by From for values it can't convert.
	ErrUnsupportedInput = errors.New("unsupported input")
	// ErrValueOutOfRange is returned by 64-bit writes for values that don't
	// fit into an unsigned 64-bit integer.
	ErrValueOutOfRange = errors.New("value out of range")
)

type (
	// Bytes is a fixed-length mutable byte sequence, the only binary carrier
	// type used by the wallet.
	Bytes []byte

	// Legacy is a byte sequence that keeps legacy buffer identity, its Type
	// is always "Buffer".
	Legacy []byte

	// ArrayBuffer is a raw binary region without a typed view.
	ArrayBuffer []byte
)

// LegacyType is the discriminator value carried by Legacy buffers.
const LegacyType = "Buffer"

// Alloc returns a zero-initialized sequence of size bytes with every byte set
// to fill&0xFF. Negative sizes are treated as zero.
func Alloc(size int, fill int) Bytes {
	if size < 0 {
		size = 0
	}
	b := make(Bytes, size)
	if f := byte(fill & 0xff); f != 0 {
		for i := range b {
			b[i] = f
		}
	}
	return b
}

// AllocUnsafe is the same as Alloc with zero fill, Go memory is always
// initialized.
func AllocUnsafe(size int) Bytes {
	return Alloc(size, 0)
}

// From creates a new sequence from data using the Default registry.
func From(data any, enc Encoding) (Bytes, error) {
	return Default.From(data, enc)
}

// IsBuffer checks whether v is a typed byte sequence (Bytes, Legacy or a raw
// []byte). ArrayBuffer is not a view and is not a buffer.
func IsBuffer(v any) bool {
	switch v.(type) {
	case Bytes, Legacy, []byte:
		return true
	}
	return false
}

// ToString encodes b using the Default registry. Unknown encodings produce
// the default textual representation (see String).
func (b Bytes) ToString(enc Encoding) string {
	return Default.ToString(b, enc)
}

// String returns the default textual representation of the sequence which is
// a comma-separated list of decimal byte values.
func (b Bytes) String() string {
	var sb strings.Builder
	sb.Grow(len(b) * 4)
	for i := range b {
		if i != 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(b[i])))
	}
	return sb.String()
}

// Bytes returns a Bytes view of the legacy buffer sharing its memory.
func (l Legacy) Bytes() Bytes {
	return Bytes(l)
}

// Type returns the legacy buffer discriminator.
func (l Legacy) Type() string {
	return LegacyType
}

// ToString is the same as [Bytes.ToString].
func (l Legacy) ToString(enc Encoding) string {
	return Default.ToString(l, enc)
}

// Bytes returns a Bytes view of the region sharing its memory.
func (a ArrayBuffer) Bytes() Bytes {
	return Bytes(a)
}

// ByteLength returns the size of the region.
func (a ArrayBuffer) ByteLength() int {
	return len(a)
}

// fromValue converts array-like data into a fresh byte sequence.
func fromValue(data any) (Bytes, error) {
	switch d := data.(type) {
	case Bytes:
		return clone(d), nil
	case Legacy:
		return clone(d), nil
	case ArrayBuffer:
		return clone(d), nil
	case []byte:
		return clone(d), nil
	case []int:
		b := make(Bytes, len(d))
		for i := range d {
			b[i] = byte(d[i])
		}
		return b, nil
	case []int64:
		b := make(Bytes, len(d))
		for i := range d {
			b[i] = byte(d[i])
		}
		return b, nil
	case []float64:
		b := make(Bytes, len(d))
		for i := range d {
			b[i] = toUint8(d[i])
		}
		return b, nil
	case []any:
		b := make(Bytes, len(d))
		for i := range d {
			b[i] = anyToUint8(d[i])
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedInput, data)
}

func clone(b []byte) Bytes {
	res := make(Bytes, len(b))
	copy(res, b)
	return res
}

// toUint8 converts a number to a byte the way typed arrays do: NaN and
// infinities become zero, the rest is truncated and taken modulo 256.
func toUint8(f float64) byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Mod(math.Trunc(f), 256)
	if f < 0 {
		f += 256
	}
	return byte(f)
}

func anyToUint8(v any) byte {
	switch n := v.(type) {
	case int:
		return byte(n)
	case int64:
		return byte(n)
	case uint8:
		return n
	case float64:
		return toUint8(n)
	case ojson.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return toUint8(f)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return toUint8(f)
	}
	return 0
}
