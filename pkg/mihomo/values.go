package mihomo

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"dario.cat/mergo"
	yaml "gopkg.in/yaml.v3"
)

var (
	ErrKeyNotFound = errors.New("unable to find the key")
	ErrInvalidType = errors.New("invalid type conversion")
)

// Values is the generic in-memory form of a parsed mihomo configuration.
type Values map[string]any

// NewValuesFromYAML parses one YAML document into Values.
func NewValuesFromYAML(b []byte) (Values, error) {
	v := Values{}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// NewValuesFromFile reads and parses one YAML file.
func NewValuesFromFile(filename string) (Values, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewValuesFromYAML(data)
}

// NewValuesFromFileInFS reads and parses one YAML file from a filesystem.
func NewValuesFromFileInFS(fsys fs.FS, filename string) (Values, error) {
	f, err := fsys.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return NewValuesFromYAML(data)
}

func (v Values) Empty() bool {
	return len(v) == 0
}

// ToYAML serializes the Values back to YAML.
func (v Values) ToYAML() ([]byte, error) {
	return yaml.Marshal(v)
}

// Lookup returns the value at the given key path. Keys can be nested using
// the "." character, e.g. "dns.enhanced-mode".
func (v Values) Lookup(key string) (any, error) {
	if key == "" {
		return v, nil
	}
	head, rest, nested := strings.Cut(key, ".")
	value, ok := v[head]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, head)
	}
	if !nested {
		return value, nil
	}
	switch nv := value.(type) {
	case Values:
		return nv.Lookup(rest)
	case map[string]any:
		return Values(nv).Lookup(rest)
	default:
		return nil, fmt.Errorf("%w: cannot lookup %s in %T", ErrKeyNotFound, rest, value)
	}
}

func (v Values) LookupString(key string) (string, error) {
	val, err := v.Lookup(key)
	if err != nil {
		return "", err
	}
	return toString(val)
}

func (v Values) LookupInt(key string) (int, error) {
	val, err := v.Lookup(key)
	if err != nil {
		return 0, err
	}
	return toInt(val)
}

// Merge deep-merges other into a copy of v, with other winning on conflicts.
func (v Values) Merge(other Values) (Values, error) {
	if v.Empty() {
		return other, nil
	}
	if other.Empty() {
		return v, nil
	}
	out := map[string]any{}
	if err := mergo.Merge(&out, map[string]any(v), mergo.WithOverride); err != nil {
		return nil, err
	}
	if err := mergo.Merge(&out, map[string]any(other), mergo.WithOverride); err != nil {
		return nil, err
	}
	return Values(out), nil
}

///////////////////////////////////////////////////////////////////////////////
// Conversion helpers
///////////////////////////////////////////////////////////////////////////////

func toInt(v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int32:
		return int(val), nil
	case int64:
		return int(val), nil
	case float32:
		return int(val), nil
	case float64:
		return int(val), nil
	case string:
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidType, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: cannot convert %T to int", ErrInvalidType, v)
	}
}

func toString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		return "", fmt.Errorf("%w: cannot convert %T to string", ErrInvalidType, v)
	}
}

func toBool(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

// section returns a nested mapping by key, or an empty one when absent or of
// an unexpected type.
func (v Values) section(key string) Values {
	switch s := v[key].(type) {
	case Values:
		return s
	case map[string]any:
		return Values(s)
	default:
		return Values{}
	}
}

// list returns a nested sequence by key, or nil when absent.
func (v Values) list(key string) []any {
	if l, ok := v[key].([]any); ok {
		return l
	}
	return nil
}

// stringOr returns the string at key, or def when absent or not a string.
func (v Values) stringOr(key, def string) string {
	if s, ok := v[key].(string); ok {
		return s
	}
	return def
}

// intOr returns the int at key, or def when absent or not numeric.
func (v Values) intOr(key string, def int) int {
	i, err := toInt(v[key])
	if err != nil {
		return def
	}
	return i
}

// boolOr returns the bool at key, or def when absent or not a bool.
func (v Values) boolOr(key string, def bool) bool {
	return toBool(v[key], def)
}
