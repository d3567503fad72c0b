package trello

import "fmt"

// Object is a decoded JSON object from an API reply. Its accessors apply the
// documented per-field defaults instead of failing, so the absence of an
// optional field never aborts a projection; only required fields do.
type Object map[string]any

// AsObject coerces a decoded JSON value into an Object.
func AsObject(v any) (Object, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &MalformedError{Reason: fmt.Sprintf("expected a JSON object, got %T", v)}
	}
	return Object(m), nil
}

// AsObjects coerces a decoded JSON value into a slice of Objects, preserving
// the order the API returned.
func AsObjects(v any) ([]Object, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, &MalformedError{Reason: fmt.Sprintf("expected a JSON array, got %T", v)}
	}
	out := make([]Object, 0, len(arr))
	for i, item := range arr {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, &MalformedError{Reason: fmt.Sprintf("element %d is not a JSON object", i)}
		}
		out = append(out, Object(m))
	}
	return out, nil
}

// String returns the string under key. The field is required: an absent or
// non-string value is a malformed response.
func (o Object) String(key string) (string, error) {
	s, ok := o[key].(string)
	if !ok {
		return "", &MalformedError{Reason: fmt.Sprintf("missing required field %q", key)}
	}
	return s, nil
}

// StringOr returns the string under key, or def when the field is absent or
// not a string.
func (o Object) StringOr(key, def string) string {
	if s, ok := o[key].(string); ok {
		return s
	}
	return def
}

// StringOrNil returns the string under key, or nil when the field is absent
// or not a string.
func (o Object) StringOrNil(key string) *string {
	if s, ok := o[key].(string); ok {
		return &s
	}
	return nil
}

// Bool returns the boolean under key. Only the literal JSON boolean true
// counts; absent, false, or non-boolean values are false. The API documents
// these fields as booleans, so no truthiness coercion is applied.
func (o Object) Bool(key string) bool {
	b, _ := o[key].(bool)
	return b
}
