package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// List accepts the two list shapes the backend produces: a bare array or
// a paginated {"results": [...]} envelope.
type List[T any] struct {
	Items []T
	// Enveloped records which shape arrived.
	Enveloped bool
}

func (l *List[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return errors.New("empty list payload")
	}
	switch b[0] {
	case '[':
		l.Enveloped = false
		return json.Unmarshal(b, &l.Items)
	case '{':
		var env struct {
			Results []T `json:"results"`
		}
		if err := json.Unmarshal(b, &env); err != nil {
			return err
		}
		l.Enveloped = true
		l.Items = env.Results
		return nil
	}
	return fmt.Errorf("list payload must be an array or an object, got %q", b[:1])
}

// DecodeList reads either list shape into one canonical slice, never nil.
func DecodeList[T any](r io.Reader) ([]T, error) {
	var l List[T]
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, err
	}
	if l.Items == nil {
		return []T{}, nil
	}
	return l.Items, nil
}
