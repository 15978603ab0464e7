// Package store provides the persistence backends for plugin state documents. A document is a
// JSON object read and rewritten wholesale: there are no partial writes and no schema beyond
// "valid JSON object"
package store

import (
	"bytes"
	"encoding/json"
	"github.com/pkg/errors"
	"io"
)

// ErrNotFound is returned when no document exists for a name
var ErrNotFound = errors.New("document not found")

// Document is a plugin's persisted state
type Document = map[string]interface{}

// DocumentReader is implemented by any value that has the Read method
type DocumentReader interface {
	// Read loads the whole document stored under name
	Read(name string) (doc Document, err error)
}

// DocumentWriter is implemented by any value that has the Write method
type DocumentWriter interface {
	// Write replaces the whole document stored under name
	Write(name string, doc Document) (err error)
}

// DocumentStorer is implemented by all storage backends
type DocumentStorer interface {
	DocumentReader
	DocumentWriter
	io.Closer
}

// Marshal encodes a document as pretty-printed JSON with sorted keys and a trailing newline.
// Values that can't be represented in JSON are written as empty strings rather than failing
// the whole document
func Marshal(doc Document) (data []byte, err error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err = enc.Encode(sanitize(doc)); err != nil {
		return nil, errors.Wrap(err, "failed to encode document")
	}

	return b.Bytes(), nil
}

// Unmarshal decodes a document. Anything but a JSON object is an error
func Unmarshal(data []byte) (doc Document, err error) {
	var v interface{}
	if err = json.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "failed to decode document")
	}

	doc, ok := v.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("document must be a JSON object but was [%T]", v)
	}

	return doc, nil
}

// sanitize replaces values that can't be encoded with an empty string
func sanitize(doc Document) (clean Document) {
	clean = make(Document, len(doc))
	for k, v := range doc {
		clean[k] = sanitizeValue(v)
	}

	return clean
}

func sanitizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return sanitize(t)
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, e := range t {
			s[i] = sanitizeValue(e)
		}
		return s
	}

	if _, err := json.Marshal(v); err != nil {
		return ""
	}

	return v
}

// IsNotFound returns true if err means no document exists for the requested name
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
