package spec

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

// keyCodec serializes with its own tag key, so `json:"-"` and omitempty
// options meant for API output do not drop fields from the key. Map keys are
// sorted for a stable encoding.
var keyCodec = jsoniter.Config{
	TagKey:      "cachekey",
	SortMapKeys: true,
	EscapeHTML:  false,
}.Froze()

func init() {
	keyCodec.RegisterExtension(&normalizedParams{})
}

// normalizedParams encodes Params through its normalizing getters, so raw
// input that reads the same (page 0 and 1, " John " and "john") shares a key.
type normalizedParams struct {
	jsoniter.DummyExtension
}

var paramsType = reflect.TypeOf(Params{})

func (*normalizedParams) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	if typ.Type1() != paramsType {
		return nil
	}
	return paramsEncoder{}
}

type paramsKey struct {
	Page   int
	Size   int
	Search string
	Sort   string
	Order  SortOrder
}

type paramsEncoder struct{}

func (paramsEncoder) IsEmpty(unsafe.Pointer) bool { return false }

func (paramsEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	p := (*Params)(ptr)
	stream.WriteVal(paramsKey{
		Page:   p.PageNumber(),
		Size:   p.PageSize(),
		Search: p.SearchTerm(),
		Sort:   p.SortBy(),
		Order:  p.Direction(),
	})
}

type keyEnvelope struct {
	Type string
	Spec Specification
}

// CacheKey encodes the full state of s as an opaque string. Specifications of
// the same type with equal field values produce equal keys; paging, search and
// sort input is compared after normalization. Only exported
// fields take part; callers must not parse the key.
func CacheKey(s Specification) (string, error) {
	if s == nil {
		return "", fmt.Errorf("cache key: nil specification")
	}
	raw, err := keyCodec.Marshal(keyEnvelope{Type: typeName(s), Spec: s})
	if err != nil {
		return "", fmt.Errorf("cache key %s: %w", typeName(s), err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}
