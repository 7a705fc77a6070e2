/*
Package serializer converts value trees with embedded binary leaves to JSON
text and back without losing binary content. Binary leaves are written as
tagged envelopes ({"__type": ..., "__data": [...]}) and are reconstructed as
buffer types on read.
*/
package serializer

import (
	"encoding"
	stdjson "encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/mochimo/mochiwallet-shell/pkg/buffer"
	json "github.com/nspcc-dev/go-ordered-json"
	"go.uber.org/zap"
)

var (
	// ErrParse is returned for text that is not valid JSON or contains a
	// malformed binary envelope.
	ErrParse = errors.New("parse error")
	// ErrSerialize is returned for values that can't be encoded.
	ErrSerialize = errors.New("serialize error")
)

type (
	// Number is the type numbers are decoded into.
	Number = json.Number
	// OrderedObject is the type objects are decoded into when ordered
	// objects are enabled.
	OrderedObject = json.OrderedObject
	// Member is a single key/value pair of an OrderedObject.
	Member = json.Member
)

// Serializer encodes and decodes storage values.
type Serializer struct {
	ordered bool
	log     *zap.Logger
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithOrderedObjects makes Deserialize return objects as OrderedObject
// preserving key order instead of maps.
func WithOrderedObjects() Option {
	return func(s *Serializer) {
		s.ordered = true
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(log *zap.Logger) Option {
	return func(s *Serializer) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Serializer.
func New(opts ...Option) *Serializer {
	s := &Serializer{log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

var std = New()

// Serialize encodes v with the default Serializer.
func Serialize(v any) (string, error) {
	return std.Serialize(v)
}

// Deserialize decodes text with the default Serializer.
func Deserialize(text string) (any, error) {
	return std.Deserialize(text)
}

// Serialize encodes v into JSON text with binary leaves replaced by tagged
// envelopes. Byte slices are binary leaves at any depth, including inside
// typed maps, slices and struct fields. Legacy buffer shapes (see
// IsBinaryLeaf) are recognized as map[string]any values. Cyclic values
// reached through maps, slices or pointers fail with ErrSerialize.
func (s *Serializer) Serialize(v any) (string, error) {
	p := preparer{log: s.log, seen: make(map[visit]struct{})}
	prepared, err := p.prepare("", v)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(prepared)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return string(data), nil
}

// Deserialize decodes JSON text, every object carrying a known envelope tag
// is turned into the corresponding buffer type: Bytes for Uint8Array,
// Legacy for Buffer and ArrayBuffer for ArrayBuffer. Numbers are returned as
// Number.
func (s *Serializer) Deserialize(text string) (any, error) {
	d := json.NewDecoder(strings.NewReader(text))
	d.UseNumber()
	if s.ordered {
		d.UseOrderedObject()
	}
	var v any
	if err := d.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	var extra any
	if err := d.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after top-level value", ErrParse)
	}
	return s.revive("", v)
}

// Unmarshal decodes text into v. Binary fields of v must use the buffer
// types to accept envelopes.
func (s *Serializer) Unmarshal(text string, v any) error {
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return nil
}

// IsBinaryLeaf reports whether v is encoded as a tagged envelope. Declared
// buffer types and raw byte slices are binary leaves. The only structural
// fallback is the legacy buffer shape: a map with "type" equal to "Buffer"
// and "data" holding integers in the 0..255 range.
func IsBinaryLeaf(v any) bool {
	if _, ok := buffer.KindOf(v); ok {
		return true
	}
	_, ok := legacyShape(v)
	return ok
}

func legacyShape(v any) (buffer.Legacy, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 2 {
		return nil, false
	}
	if typ, ok := m["type"].(string); !ok || typ != buffer.LegacyType {
		return nil, false
	}
	var res buffer.Legacy
	switch data := m["data"].(type) {
	case []int:
		res = make(buffer.Legacy, len(data))
		for i, n := range data {
			if n < 0 || n > 255 {
				return nil, false
			}
			res[i] = byte(n)
		}
	case []any:
		res = make(buffer.Legacy, len(data))
		for i := range data {
			n, ok := byteValue(data[i])
			if !ok {
				return nil, false
			}
			res[i] = n
		}
	default:
		return nil, false
	}
	return res, true
}

func byteValue(v any) (byte, bool) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case float64:
		if x != float64(int64(x)) {
			return 0, false
		}
		n = int64(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		n = i
	case stdjson.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	if n < 0 || n > 255 {
		return 0, false
	}
	return byte(n), true
}

type visit struct {
	ptr uintptr
	len int
	typ reflect.Type
}

var (
	marshalerType     = reflect.TypeOf((*stdjson.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// preparer copies the value tree replacing implicit binary leaves with
// declared buffer types, it also rejects cyclic values. Pointers are
// followed, structs become ordered objects keyed by their JSON field names.
type preparer struct {
	log  *zap.Logger
	seen map[visit]struct{}
}

func (p *preparer) enter(rv reflect.Value) (visit, error) {
	k := visit{ptr: rv.Pointer(), typ: rv.Type()}
	if rv.Kind() == reflect.Slice {
		k.len = rv.Len()
	}
	if k.ptr == 0 {
		return k, nil
	}
	if _, ok := p.seen[k]; ok {
		return k, fmt.Errorf("%w: cyclic value of type %s", ErrSerialize, k.typ)
	}
	p.seen[k] = struct{}{}
	return k, nil
}

func (p *preparer) leave(k visit) {
	delete(p.seen, k)
}

func (p *preparer) prepare(key string, v any) (any, error) {
	return p.prepareValue(key, reflect.ValueOf(v))
}

func (p *preparer) prepareValue(key string, rv reflect.Value) (any, error) {
	if !rv.IsValid() {
		return nil, nil
	}
	if rv.CanInterface() {
		if res, ok, err := p.prepareKnown(key, rv.Interface()); ok || err != nil {
			return res, err
		}
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
	case reflect.Slice:
		if rv.IsNil() && rv.Type().Elem().Kind() != reflect.Uint8 {
			return nil, nil
		}
	}
	if rv.CanInterface() && rv.Kind() != reflect.Pointer && reflect.PointerTo(rv.Type()).Implements(marshalerType) {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		return ptr.Interface(), nil
	}

	switch rv.Kind() {
	case reflect.Interface:
		return p.prepareValue(key, rv.Elem())
	case reflect.Pointer:
		k, err := p.enter(rv)
		if err != nil {
			return nil, err
		}
		defer p.leave(k)
		return p.prepareValue(key, rv.Elem())
	case reflect.Map:
		k, err := p.enter(rv)
		if err != nil {
			return nil, err
		}
		defer p.leave(k)
		res := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			name, err := mapKey(iter.Key())
			if err != nil {
				return nil, err
			}
			if res[name], err = p.prepareValue(name, iter.Value()); err != nil {
				return nil, err
			}
		}
		return res, nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := buffer.Bytes(bytesCopy(rv.Bytes()))
			p.debugLeaf(key, b)
			return b, nil
		}
		k, err := p.enter(rv)
		if err != nil {
			return nil, err
		}
		defer p.leave(k)
		return p.prepareList(key, rv)
	case reflect.Array:
		return p.prepareList(key, rv)
	case reflect.Struct:
		res := make(json.OrderedObject, 0, rv.NumField())
		if err := p.appendFields(&res, rv); err != nil {
			return nil, err
		}
		return res, nil
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return nil, fmt.Errorf("%w: unsupported type %s at %q", ErrSerialize, rv.Type(), key)
	}
	if rv.CanInterface() {
		return rv.Interface(), nil
	}
	return nil, fmt.Errorf("%w: unexported value at %q", ErrSerialize, key)
}

// prepareKnown handles values with a fixed encoding: buffer types, numbers,
// legacy buffer shapes, ordered objects and types marshaling themselves.
func (p *preparer) prepareKnown(key string, v any) (any, bool, error) {
	switch x := v.(type) {
	case buffer.Bytes, buffer.Legacy, buffer.ArrayBuffer:
		p.debugLeaf(key, v)
		return v, true, nil
	case stdjson.Number:
		return json.Number(x), true, nil
	case json.Number:
		return x, true, nil
	case map[string]any:
		if l, ok := legacyShape(x); ok {
			p.debugLeaf(key, l)
			return l, true, nil
		}
		return nil, false, nil
	case json.OrderedObject:
		k, err := p.enter(reflect.ValueOf(x))
		if err != nil {
			return nil, true, err
		}
		defer p.leave(k)
		res := make(json.OrderedObject, len(x))
		for i := range x {
			res[i].Key = x[i].Key
			if res[i].Value, err = p.prepare(x[i].Key, x[i].Value); err != nil {
				return nil, true, err
			}
		}
		return res, true, nil
	case stdjson.Marshaler, encoding.TextMarshaler:
		return v, true, nil
	}
	return nil, false, nil
}

func (p *preparer) prepareList(key string, rv reflect.Value) (any, error) {
	var err error
	res := make([]any, rv.Len())
	for i := range res {
		if res[i], err = p.prepareValue(key, rv.Index(i)); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// appendFields adds exported fields of a struct using encoding/json naming:
// the json tag name if any, "-" skips a field, omitempty drops empty values
// and untagged embedded structs are flattened.
func (p *preparer) appendFields(res *json.OrderedObject, rv reflect.Value) error {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		fv := rv.Field(i)
		if f.Anonymous && name == "" {
			if !fv.CanInterface() {
				continue
			}
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				if err := p.appendFields(res, fv); err != nil {
					return err
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if strings.Contains(","+opts+",", ",omitempty,") && isEmptyValue(fv) {
			continue
		}
		v, err := p.prepareValue(name, fv)
		if err != nil {
			return err
		}
		*res = append(*res, json.Member{Key: name, Value: v})
	}
	return nil
}

func mapKey(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if k.Type().Implements(textMarshalerType) {
		text, err := k.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", fmt.Errorf("%w: map key: %v", ErrSerialize, err)
		}
		return string(text), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", fmt.Errorf("%w: unsupported map key type %s", ErrSerialize, k.Type())
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}

func bytesCopy(b []byte) []byte {
	res := make([]byte, len(b))
	copy(res, b)
	return res
}

func (p *preparer) debugLeaf(key string, v any) {
	if ce := p.log.Check(zap.DebugLevel, "serializing binary leaf"); ce != nil {
		k, _ := buffer.KindOf(v)
		ce.Write(zap.String("key", key), zap.Stringer("kind", k),
			zap.Int("length", reflect.ValueOf(v).Len()))
	}
}

// revive replaces envelopes with buffer values in place.
func (s *Serializer) revive(key string, v any) (any, error) {
	var err error
	switch x := v.(type) {
	case map[string]any:
		if tag, ok := x[buffer.TypeField].(string); ok {
			if kind, ok := buffer.KindFromTag(tag); ok {
				return s.fromEnvelope(key, kind, x[buffer.DataField])
			}
		}
		for name, e := range x {
			if x[name], err = s.revive(name, e); err != nil {
				return nil, err
			}
		}
	case json.OrderedObject:
		var (
			tag  string
			data any
		)
		for i := range x {
			switch x[i].Key {
			case buffer.TypeField:
				tag, _ = x[i].Value.(string)
			case buffer.DataField:
				data = x[i].Value
			}
		}
		if kind, ok := buffer.KindFromTag(tag); ok {
			return s.fromEnvelope(key, kind, data)
		}
		for i := range x {
			if x[i].Value, err = s.revive(x[i].Key, x[i].Value); err != nil {
				return nil, err
			}
		}
	case []any:
		for i := range x {
			if x[i], err = s.revive(key, x[i]); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}

func (s *Serializer) fromEnvelope(key string, kind buffer.Kind, data any) (any, error) {
	vals, ok := data.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s envelope at %q has no data", ErrParse, kind, key)
	}
	b := make([]byte, len(vals))
	for i := range vals {
		n, ok := byteValue(vals[i])
		if !ok {
			return nil, fmt.Errorf("%w: %s envelope at %q: invalid byte %v at %d", ErrParse, kind, key, vals[i], i)
		}
		b[i] = n
	}
	s.log.Debug("deserialized binary leaf", zap.String("key", key),
		zap.Stringer("kind", kind), zap.Int("length", len(b)))
	return kind.New(b), nil
}
