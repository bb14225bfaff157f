package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

const GenericError = "An unexpected error occurred."

// ErrMalformed wraps a 2xx response whose body could not be decoded.
var ErrMalformed = errors.New("malformed response body")

// FieldError is one normalized message. Field is the dotted path of the key
// that carried it, empty for top-level and non-field errors.
type FieldError struct {
	Field   string
	Message string
}

// Object is a JSON object that keeps its keys in wire order.
type Object struct {
	Keys   []string
	Values map[string]any
}

// StatusError is a non-2xx response with its normalized body. Errors is nil
// when the body was empty or not JSON.
type StatusError struct {
	Status int
	Errors []FieldError
}

func (e *StatusError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, strings.Join(e.Messages(), "; "))
}

func (e *StatusError) Messages() []string {
	out := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		out = append(out, fe.Message)
	}
	return out
}

// Flatten turns an error payload of any shape into an ordered, non-empty
// list of display messages. A []string flattens to itself.
func Flatten(payload any) []string {
	fes := flattenFields(payload)
	out := make([]string, 0, len(fes))
	for _, fe := range fes {
		out = append(out, fe.Message)
	}
	return out
}

func flattenFields(payload any) []FieldError {
	var out []FieldError
	walk(payload, "", &out)
	if len(out) == 0 {
		return []FieldError{{Message: GenericError}}
	}
	return out
}

func walk(v any, field string, out *[]FieldError) {
	switch t := v.(type) {
	case nil:
		*out = append(*out, FieldError{Field: field, Message: GenericError})
	case string:
		if strings.TrimSpace(t) != "" {
			*out = append(*out, FieldError{Field: field, Message: t})
		}
	case []string:
		for _, s := range t {
			walk(s, field, out)
		}
	case []any:
		for _, item := range t {
			walk(item, field, out)
		}
	case *Object:
		for _, k := range t.Keys {
			walk(t.Values[k], joinField(field, k), out)
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(t[k], joinField(field, k), out)
		}
	case error:
		*out = append(*out, FieldError{Field: field, Message: t.Error()})
	default:
		data, err := json.Marshal(t)
		if err != nil {
			*out = append(*out, FieldError{Field: field, Message: fmt.Sprint(t)})
			return
		}
		*out = append(*out, FieldError{Field: field, Message: string(data)})
	}
}

func joinField(parent, key string) string {
	if key == "non_field_errors" || key == "detail" {
		return parent
	}
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// DecodeErrors normalizes a raw error body. It returns nil if the body is
// empty or not JSON.
func DecodeErrors(body []byte) []FieldError {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	payload, err := decodeOrdered(body)
	if err != nil {
		return nil
	}
	return flattenFields(payload)
}

// CheckResponse returns nil for a 2xx response and a *StatusError otherwise.
// The body is consumed and closed in the error case.
func CheckResponse(resp *http.Response) error {
	if Ok(resp.StatusCode) {
		return nil
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return &StatusError{Status: resp.StatusCode, Errors: DecodeErrors(data)}
}

func decodeOrdered(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := &Object{Values: map[string]any{}}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				if _, seen := obj.Values[key]; !seen {
					obj.Keys = append(obj.Keys, key)
				}
				obj.Values[key] = val
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	}
	return tok, nil
}
