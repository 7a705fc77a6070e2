package buffer

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	ojson "github.com/nspcc-dev/go-ordered-json"
)

// WriteUInt32LE writes v modulo 2^32 as 4 little-endian bytes at offset and
// returns offset+4. Bytes falling outside of the sequence are dropped.
func (b Bytes) WriteUInt32LE(v int64, offset int) int {
	u := uint32(v)
	if offset >= 0 && offset+4 <= len(b) {
		binary.LittleEndian.PutUint32(b[offset:], u)
	} else {
		for i := 0; i < 4; i++ {
			b.set(offset+i, byte(u>>(8*i)))
		}
	}
	return offset + 4
}

// WriteUInt64LE writes v as 8 little-endian bytes at offset and returns
// offset+8. Bytes falling outside of the sequence are dropped.
func (b Bytes) WriteUInt64LE(v uint64, offset int) int {
	if offset >= 0 && offset+8 <= len(b) {
		binary.LittleEndian.PutUint64(b[offset:], v)
	} else {
		for i := 0; i < 8; i++ {
			b.set(offset+i, byte(v>>(8*i)))
		}
	}
	return offset + 8
}

// WriteBigUInt64LE is the same as WriteUInt64LE, but accepts any integer
// representation wallet code may hold: Go integers, *big.Int, *uint256.Int,
// decimal strings and JSON numbers. Negative values and values not fitting
// into 64 bits are rejected with ErrValueOutOfRange, nothing is written then.
func (b Bytes) WriteBigUInt64LE(v any, offset int) (int, error) {
	u, err := toUint64(v)
	if err != nil {
		return offset, err
	}
	return b.WriteUInt64LE(u, offset), nil
}

// Copy copies the whole sequence into target starting at index 0 and returns
// the number of bytes copied.
func (b Bytes) Copy(target Bytes) int {
	return b.CopyRange(target, 0, 0, len(b))
}

// CopyRange copies b[sourceStart:sourceEnd] into target at targetStart,
// sourceEnd is clamped to the length of b. It returns the number of bytes
// processed, target is never resized and positions beyond its end are
// skipped.
func (b Bytes) CopyRange(target Bytes, targetStart, sourceStart, sourceEnd int) int {
	if sourceEnd > len(b) {
		sourceEnd = len(b)
	}
	t := targetStart
	for i := sourceStart; i < sourceEnd; i, t = i+1, t+1 {
		var v byte
		if i >= 0 {
			v = b[i]
		}
		target.set(t, v)
	}
	return t - targetStart
}

func (b Bytes) set(i int, v byte) {
	if i >= 0 && i < len(b) {
		b[i] = v
	}
}

func toUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint32:
		return uint64(n), nil
	case uint:
		return uint64(n), nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("%w: %d", ErrValueOutOfRange, n)
		}
		return uint64(n), nil
	case int64:
		if n < 0 {
			return 0, fmt.Errorf("%w: %d", ErrValueOutOfRange, n)
		}
		return uint64(n), nil
	case *big.Int:
		if n == nil || n.Sign() < 0 || !n.IsUint64() {
			return 0, fmt.Errorf("%w: %v", ErrValueOutOfRange, n)
		}
		return n.Uint64(), nil
	case *uint256.Int:
		if n == nil || !n.IsUint64() {
			return 0, fmt.Errorf("%w: %v", ErrValueOutOfRange, n)
		}
		return n.Uint64(), nil
	case string:
		return decimalToUint64(n)
	case ojson.Number:
		return decimalToUint64(string(n))
	case json.Number:
		return decimalToUint64(string(n))
	}
	return 0, fmt.Errorf("%w: %T", ErrUnsupportedInput, v)
}

func decimalToUint64(s string) (uint64, error) {
	u, err := uint256.FromDecimal(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrValueOutOfRange, s, err)
	}
	if !u.IsUint64() {
		return 0, fmt.Errorf("%w: %s", ErrValueOutOfRange, s)
	}
	return u.Uint64(), nil
}
