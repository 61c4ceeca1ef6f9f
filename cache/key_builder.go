package cache

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "_"

// KeyDateLayout is the layout used for dates inside keys (yyyyMMdd).
const KeyDateLayout = "20060102"

// emptyString is the encoding of "" so an empty argument never reads as a
// missing segment.
const emptyString = `\e`

var keyEscaper = strings.NewReplacer(`\`, `\\`, KeySeparator, `\`+KeySeparator, ",", `\,`)

// KeyBuilder builds deterministic cache keys of the form
// {EntityType}_{Discriminator}_{arg1}_{arg2}...
type KeyBuilder interface {
	BuildKey(entityType, discriminator string, args ...any) string
}

// KeyPart is implemented by values that know how to render themselves inside
// a key. The returned text is used verbatim.
type KeyPart interface {
	CacheKeyPart() string
}

type defaultKeyBuilder struct{}

// NewKeyBuilder returns the default KeyBuilder.
func NewKeyBuilder() KeyBuilder {
	return defaultKeyBuilder{}
}

// BuildKey joins the entity type, the discriminator and every argument. An
// empty discriminator is skipped, which is how by-id keys ({T}_{id}) are built.
func (defaultKeyBuilder) BuildKey(entityType, discriminator string, args ...any) string {
	parts := make([]string, 0, len(args)+2)
	parts = append(parts, entityType)
	if discriminator != "" {
		parts = append(parts, discriminator)
	}
	for _, arg := range args {
		parts = append(parts, FormatKeyArg(arg))
	}
	return strings.Join(parts, KeySeparator)
}

// Namespace returns the prefix shared by every key of entityType.
func Namespace(entityType string) string {
	return entityType + KeySeparator
}

// FormatKeyArg renders a single argument. Strings are escaped so user data can
// never produce an unescaped separator.
func FormatKeyArg(v any) string {
	if v == nil {
		return "nil"
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "nil"
		}
		if part, ok := v.(KeyPart); ok {
			return part.CacheKeyPart()
		}
		return FormatKeyArg(rv.Elem().Interface())
	}

	switch value := v.(type) {
	case KeyPart:
		return value.CacheKeyPart()
	case string:
		return escapeKeyString(value)
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int32:
		return strconv.FormatInt(int64(value), 10)
	case int64:
		return strconv.FormatInt(value, 10)
	case uint:
		return strconv.FormatUint(uint64(value), 10)
	case uint32:
		return strconv.FormatUint(uint64(value), 10)
	case uint64:
		return strconv.FormatUint(value, 10)
	case float32:
		return strconv.FormatFloat(float64(value), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	case time.Time:
		return value.UTC().Format(KeyDateLayout)
	case fmt.Stringer:
		return escapeKeyString(value.String())
	}

	return formatReflected(rv)
}

func formatReflected(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return "[]"
		}
		items := make([]string, rv.Len())
		for i := range items {
			items[i] = FormatKeyArg(rv.Index(i).Interface())
		}
		return "[" + strings.Join(items, ",") + "]"
	case reflect.String:
		return escapeKeyString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	}

	data, err := json.Marshal(rv.Interface())
	if err != nil {
		return escapeKeyString(fmt.Sprintf("%v", rv.Interface()))
	}
	return escapeKeyString(string(data))
}

func escapeKeyString(s string) string {
	if s == "" {
		return emptyString
	}
	return keyEscaper.Replace(s)
}
