package satsnav

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// jsonObjectWriter helps construct a JSON object with a specific field order.
// Its zero value is ready to use.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Append adds a new key-value pair to the JSON object. The value is marshaled
// to JSON using `json.Marshal`.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	valBytes, err := json.Marshal(value)
	if err != nil {
		w.err = errors.Wrapf(err, "failed to marshal value for key %q", key)
		return w
	}
	w.WriteString(strconv.Quote(key))
	w.WriteByte(':')
	w.Write(valBytes)
	w.WriteByte(',')
	return w
}

// Optional appends a key-value pair to the JSON object only if the provided
// value is not its type's zero value.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// Variant writes a single-key object {kind: body} where body is built by fill.
// It is the encoding of every discriminated union of this package.
func (w *jsonObjectWriter) Variant(kind string, fill func(*jsonObjectWriter)) *jsonObjectWriter {
	var body jsonObjectWriter
	fill(&body)
	if body.err != nil && w.err == nil {
		w.err = errors.Wrapf(body.err, "failed to marshal %s", kind)
	}
	return w.Append(kind, &body)
}

// MarshalJSON finalizes the JSON object construction, wraps the content in
// braces, and returns the complete JSON byte slice.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	content := bytes.TrimSuffix(w.Bytes(), []byte(","))
	final := make([]byte, 0, len(content)+2)
	final = append(final, '{')
	final = append(final, content...)
	final = append(final, '}')
	return final, nil
}

// decodeVariant decodes a single-key object and returns its key and body.
func decodeVariant(data []byte, union string) (string, json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return "", nil, errors.Wrapf(err, "invalid %s", union)
	}
	if len(m) != 1 {
		return "", nil, errors.Errorf("invalid %s: want exactly one key, got %d", union, len(m))
	}
	for k, v := range m {
		return k, v, nil
	}
	panic("unreachable")
}
