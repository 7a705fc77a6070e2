package buffer

import (
	"errors"
	"fmt"
	"strconv"

	json "github.com/nspcc-dev/go-ordered-json"
)

// Kind is the kind of binary value stored in a tagged envelope.
type Kind byte

// Binary value kinds.
const (
	ByteArray Kind = iota
	LegacyBuffer
	RawArrayBuffer
)

// Envelope field names. They're the same as the ones used by existing
// stored wallet records and must not change.
const (
	TypeField = "__type"
	DataField = "__data"
)

var errInvalidEnvelope = errors.New("invalid binary envelope")

// String returns the envelope tag of the kind.
func (k Kind) String() string {
	switch k {
	case ByteArray:
		return "Uint8Array"
	case LegacyBuffer:
		return "Buffer"
	case RawArrayBuffer:
		return "ArrayBuffer"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// KindFromTag returns the kind for the envelope tag.
func KindFromTag(tag string) (Kind, bool) {
	switch tag {
	case "Uint8Array":
		return ByteArray, true
	case "Buffer":
		return LegacyBuffer, true
	case "ArrayBuffer":
		return RawArrayBuffer, true
	}
	return 0, false
}

// New wraps data into the binary type corresponding to the kind.
func (k Kind) New(data []byte) any {
	switch k {
	case LegacyBuffer:
		return Legacy(data)
	case RawArrayBuffer:
		return ArrayBuffer(data)
	default:
		return Bytes(data)
	}
}

// KindOf returns the kind of a declared binary value.
func KindOf(v any) (Kind, bool) {
	switch v.(type) {
	case Bytes, []byte:
		return ByteArray, true
	case Legacy:
		return LegacyBuffer, true
	case ArrayBuffer:
		return RawArrayBuffer, true
	}
	return 0, false
}

// AppendEnvelope appends the JSON envelope of data with the given kind to
// dst: {"__type":"<tag>","__data":[b0,b1,...]}.
func AppendEnvelope(dst []byte, k Kind, data []byte) []byte {
	dst = append(dst, `{"`+TypeField+`":"`...)
	dst = append(dst, k.String()...)
	dst = append(dst, `","`+DataField+`":[`...)
	for i := range data {
		if i != 0 {
			dst = append(dst, ',')
		}
		dst = strconv.AppendUint(dst, uint64(data[i]), 10)
	}
	return append(dst, "]}"...)
}

type envelope struct {
	Type string `json:"__type"`
	Data []int  `json:"__data"`
}

// parseEnvelope decodes either an envelope object or a plain array of byte
// values. JSON null yields nil.
func parseEnvelope(data []byte) ([]byte, error) {
	if string(data) == "null" {
		return nil, nil
	}
	var (
		env  envelope
		vals []int
	)
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &vals); err != nil {
			return nil, err
		}
	} else {
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		if _, ok := KindFromTag(env.Type); !ok || env.Data == nil {
			return nil, fmt.Errorf("%w: type %q", errInvalidEnvelope, env.Type)
		}
		vals = env.Data
	}
	res := make([]byte, len(vals))
	for i, v := range vals {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: byte value %d at %d", errInvalidEnvelope, v, i)
		}
		res[i] = byte(v)
	}
	return res, nil
}

// MarshalJSON implements the json.Marshaler interface.
func (b Bytes) MarshalJSON() ([]byte, error) {
	return AppendEnvelope(nil, ByteArray, b), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *Bytes) UnmarshalJSON(data []byte) error {
	res, err := parseEnvelope(data)
	if err != nil {
		return err
	}
	*b = res
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (l Legacy) MarshalJSON() ([]byte, error) {
	return AppendEnvelope(nil, LegacyBuffer, l), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (l *Legacy) UnmarshalJSON(data []byte) error {
	res, err := parseEnvelope(data)
	if err != nil {
		return err
	}
	*l = res
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (a ArrayBuffer) MarshalJSON() ([]byte, error) {
	return AppendEnvelope(nil, RawArrayBuffer, a), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *ArrayBuffer) UnmarshalJSON(data []byte) error {
	res, err := parseEnvelope(data)
	if err != nil {
		return err
	}
	*a = res
	return nil
}
