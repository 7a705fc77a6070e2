package buffer

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Encoding is a name of the text encoding used by From and ToString.
type Encoding string

// Supported encodings.
const (
	Base64 Encoding = "base64"
	Hex    Encoding = "hex"
	UTF8   Encoding = "utf8"
	// None is the unspecified encoding, strings are UTF-8 encoded and
	// ToString produces the default representation.
	None Encoding = ""
)

// Normalize returns the canonical name for enc ("utf-8" is an alias of
// "utf8", names are case-insensitive).
func (enc Encoding) Normalize() Encoding {
	e := Encoding(strings.ToLower(string(enc)))
	if e == "utf-8" {
		return UTF8
	}
	return e
}

// Codec converts between bytes and one text encoding.
type Codec interface {
	Encoding() Encoding
	Encode(b []byte) string
	Decode(s string) ([]byte, error)
}

// Registry is a prioritized set of codecs. The first codec provided for an
// encoding wins, the compatibility codecs are only used for encodings no
// provider has claimed.
type Registry struct {
	codecs map[Encoding]Codec
	order  []Encoding
}

// Default is the registry containing compatibility codecs only.
var Default = NewRegistry()

// NewRegistry creates a registry from providers (highest priority first)
// backed by the compatibility base64, hex and utf8 codecs.
func NewRegistry(providers ...Codec) *Registry {
	r := &Registry{codecs: make(map[Encoding]Codec)}
	for _, c := range providers {
		r.add(c)
	}
	r.add(base64Codec{})
	r.add(hexCodec{})
	r.add(utf8Codec{})
	return r
}

func (r *Registry) add(c Codec) {
	if c == nil {
		return
	}
	enc := c.Encoding().Normalize()
	if _, ok := r.codecs[enc]; ok {
		return
	}
	r.codecs[enc] = c
	r.order = append(r.order, enc)
}

// Codec returns the codec registered for enc.
func (r *Registry) Codec(enc Encoding) (Codec, bool) {
	c, ok := r.codecs[enc.Normalize()]
	return c, ok
}

// Encodings returns registered encodings in priority order.
func (r *Registry) Encodings() []Encoding {
	res := make([]Encoding, len(r.order))
	copy(res, r.order)
	return res
}

// From creates a new byte sequence from data. Strings are decoded with the
// codec registered for enc, unknown and unspecified encodings are treated as
// UTF-8. Binary values and number slices are copied into a new sequence.
func (r *Registry) From(data any, enc Encoding) (Bytes, error) {
	s, ok := data.(string)
	if !ok {
		return fromValue(data)
	}
	c, ok := r.Codec(enc)
	if !ok {
		c = r.codecs[UTF8]
	}
	b, err := c.Decode(s)
	if err != nil {
		return nil, err
	}
	return Bytes(b), nil
}

// ToString encodes b with the codec registered for enc. Unknown encodings
// produce the default comma-separated representation. b is never modified.
func (r *Registry) ToString(b []byte, enc Encoding) string {
	c, ok := r.Codec(enc)
	if !ok {
		return Bytes(b).String()
	}
	return c.Encode(b)
}

type base64Codec struct{}

func (base64Codec) Encoding() Encoding { return Base64 }

func (base64Codec) Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Decode implements forgiving base64 decoding: ASCII whitespace is ignored
// and padding is optional.
func (base64Codec) Decode(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			return -1
		}
		return r
	}, s)
	if len(s)%4 == 0 {
		if strings.HasSuffix(s, "==") {
			s = s[:len(s)-2]
		} else if strings.HasSuffix(s, "=") {
			s = s[:len(s)-1]
		}
	}
	if len(s)%4 == 1 {
		return nil, fmt.Errorf("%w: invalid base64 length", ErrDecode)
	}
	b, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return b, nil
}

type hexCodec struct{}

func (hexCodec) Encoding() Encoding { return Hex }

func (hexCodec) Encode(b []byte) string {
	return hex.EncodeToString(b)
}

// Decode drops every non-hex character before decoding.
func (hexCodec) Decode(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
			return r
		}
		return -1
	}, s)
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("%w: invalid hex string length", ErrDecode)
	}
	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return b, nil
}

type utf8Codec struct{}

func (utf8Codec) Encoding() Encoding { return UTF8 }

// Encode decodes b as UTF-8 text, invalid sequences are replaced with
// U+FFFD and a leading byte order mark is dropped.
func (utf8Codec) Encode(b []byte) string {
	res, err := unicode.UTF8BOM.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "�")
	}
	return string(res)
}

func (utf8Codec) Decode(s string) ([]byte, error) {
	return []byte(s), nil
}
