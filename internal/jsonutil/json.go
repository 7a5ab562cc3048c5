package jsonutil

import (
	"encoding/json"
	"io"
)

// EncodePretty writes v to w as JSON with one value per line and a one-space
// indent, without HTML escaping.
func EncodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	return enc.Encode(v)
}
