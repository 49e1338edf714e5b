package decoder

import (
	"fmt"
	"math"

	"github.com/bytedance/sonic"

	appErrors "github.com/noah-isme/academics-api/pkg/errors"
)

// jsonObject is a decoded JSON object. Numbers are float64, as produced by the
// standard-compatible sonic configuration.
type jsonObject map[string]interface{}

func parseObject(text string) (jsonObject, error) {
	var root interface{}
	if err := sonic.ConfigStd.UnmarshalFromString(text, &root); err != nil {
		return nil, appErrors.Wrapf(err, appErrors.ErrStructuralFailure, "parse document")
	}
	obj, ok := root.(map[string]interface{})
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrStructuralFailure, "document root is not an object")
	}
	return jsonObject(obj), nil
}

func invalidField(key, reason string) error {
	return appErrors.Clone(appErrors.ErrMissingOrInvalidField, fmt.Sprintf("field %q %s", key, reason))
}

// lookup returns the raw value under key. A null value counts as missing.
func lookup(obj jsonObject, key string) (interface{}, error) {
	value, ok := obj[key]
	if !ok {
		return nil, invalidField(key, "is missing")
	}
	if value == nil {
		return nil, invalidField(key, "is null")
	}
	return value, nil
}

func getString(obj jsonObject, key string) (string, error) {
	value, err := lookup(obj, key)
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok {
		return "", invalidField(key, "is not a string")
	}
	return s, nil
}

// getStringOr never fails: missing, null and mistyped values yield fallback.
func getStringOr(obj jsonObject, key, fallback string) string {
	s, err := getString(obj, key)
	if err != nil {
		return fallback
	}
	return s
}

// getNullableString returns nil for missing, null or mistyped values.
func getNullableString(obj jsonObject, key string) *string {
	s, err := getString(obj, key)
	if err != nil {
		return nil
	}
	return &s
}

func getNumber(obj jsonObject, key string) (float64, error) {
	value, err := lookup(obj, key)
	if err != nil {
		return 0, err
	}
	f, ok := value.(float64)
	if !ok {
		return 0, invalidField(key, "is not a number")
	}
	return f, nil
}

// getOptionalNumber returns nil for missing or null values and fails only on a
// present value of the wrong type.
func getOptionalNumber(obj jsonObject, key string) (*float64, error) {
	value, ok := obj[key]
	if !ok || value == nil {
		return nil, nil
	}
	f, ok := value.(float64)
	if !ok {
		return nil, invalidField(key, "is not a number")
	}
	return &f, nil
}

// getInt truncates the number toward zero.
func getInt(obj jsonObject, key string) (int, error) {
	f, err := getNumber(obj, key)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, invalidField(key, "is out of range")
	}
	return int(f), nil
}

func getBool(obj jsonObject, key string) (bool, error) {
	value, err := lookup(obj, key)
	if err != nil {
		return false, err
	}
	b, ok := value.(bool)
	if !ok {
		return false, invalidField(key, "is not a boolean")
	}
	return b, nil
}

func getObject(obj jsonObject, key string) (jsonObject, error) {
	value, err := lookup(obj, key)
	if err != nil {
		return nil, err
	}
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, invalidField(key, "is not an object")
	}
	return jsonObject(m), nil
}

func getArray(obj jsonObject, key string) ([]interface{}, error) {
	value, err := lookup(obj, key)
	if err != nil {
		return nil, err
	}
	arr, ok := value.([]interface{})
	if !ok {
		return nil, invalidField(key, "is not an array")
	}
	return arr, nil
}

// topLevelObject and topLevelArray report absence as a structural failure of
// the whole document rather than a field failure.
func topLevelObject(root jsonObject, key string) (jsonObject, error) {
	obj, err := getObject(root, key)
	if err != nil {
		return nil, appErrors.Wrapf(err, appErrors.ErrStructuralFailure, "document has no %q object", key)
	}
	return obj, nil
}

func topLevelArray(root jsonObject, key string) ([]interface{}, error) {
	arr, err := getArray(root, key)
	if err != nil {
		return nil, appErrors.Wrapf(err, appErrors.ErrStructuralFailure, "document has no %q array", key)
	}
	return arr, nil
}

func asObject(value interface{}) (jsonObject, error) {
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrMissingOrInvalidField, "element is not an object")
	}
	return jsonObject(m), nil
}

// annotate prefixes err with a location while keeping its error code.
func annotate(err error, format string, args ...interface{}) error {
	return appErrors.Wrapf(err, appErrors.FromError(err), format, args...)
}
