package cid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// MaxManifestSize is the maximum allowed size for a canonicalized manifest
// in bytes.
const MaxManifestSize = 16 * 1024

// CanonicalizeJSON converts any struct to canonical JSON representation:
// sorted object keys, no HTML escaping, no indentation. This ensures
// deterministic serialization for content addressing.
func CanonicalizeJSON(data interface{}) ([]byte, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("initial marshal failed: %w", err)
	}

	if len(jsonBytes) > MaxManifestSize {
		return nil, ErrContentTooLarge
	}

	var generic interface{}
	if err := json.Unmarshal(jsonBytes, &generic); err != nil {
		return nil, fmt.Errorf("unmarshal for canonicalization failed: %w", err)
	}

	canonical := canonicalizeValue(generic)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "")

	if err := encoder.Encode(canonical); err != nil {
		return nil, fmt.Errorf("canonical marshal failed: %w", err)
	}

	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}

	return result, nil
}

func canonicalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return canonicalizeObject(v)
	case []interface{}:
		return canonicalizeArray(v)
	default:
		return v
	}
}

func canonicalizeObject(obj map[string]interface{}) map[string]interface{} {
	if obj == nil {
		return nil
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make(map[string]interface{}, len(obj))
	for _, k := range keys {
		result[k] = canonicalizeValue(obj[k])
	}

	return result
}

func canonicalizeArray(arr []interface{}) []interface{} {
	if arr == nil {
		return nil
	}

	result := make([]interface{}, len(arr))
	for i, v := range arr {
		result[i] = canonicalizeValue(v)
	}

	return result
}

// ValidateCanonicalJSON validates that JSON bytes are already in canonical
// form, by re-canonicalizing and comparing.
func ValidateCanonicalJSON(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyData
	}
	if len(data) > MaxManifestSize {
		return ErrContentTooLarge
	}

	var parsed interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	canonical, err := CanonicalizeJSON(parsed)
	if err != nil {
		return fmt.Errorf("re-canonicalization failed: %w", err)
	}

	if !bytes.Equal(data, canonical) {
		return ErrCanonicalizationFailed
	}

	return nil
}
