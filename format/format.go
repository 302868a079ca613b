package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/fiorevita/questlang/quest"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(q *quest.Quest) error
}

// NewEncoder returns the encoder for the named output format: "text"
// for canonical quest syntax, "json" for a JSON object.
func NewEncoder(w io.Writer, name string) (Encoder, error) {
	switch name {
	case "text":
		return NewTextEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}
