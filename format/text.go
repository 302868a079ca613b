package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fiorevita/questlang/quest"
	"github.com/fiorevita/questlang/quest/parser"
)

// TextEncoder renders a quest in canonical quest syntax: quoted name,
// two-space indent, one property per line in reward/active/steps
// order, trailing commas. Output re-parses to an equal quest.
type TextEncoder struct {
	w     io.Writer
	quest *quest.Quest
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(q *quest.Quest) error {
	e.quest = q
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	q := e.quest

	// The grammar has no escapes, so a '"' inside a name or step has
	// no source form.
	if !quest.CanQuote(q.Name) {
		return nil, fmt.Errorf("quest name %q contains a double quote", q.Name)
	}
	for _, step := range q.Steps {
		if !quest.CanQuote(step) {
			return nil, fmt.Errorf("step %q contains a double quote", step)
		}
	}

	var b strings.Builder
	b.WriteString("quest ")
	b.WriteString(quest.StringValue(q.Name).String())
	b.WriteString(" {\n")
	for _, prop := range q.Properties() {
		b.WriteString("  ")
		b.WriteString(prop.Key)
		b.WriteString(": ")
		b.WriteString(prop.Value.String())
		b.WriteString(",\n")
	}
	b.WriteString("}\n")

	return []byte(b.String()), nil
}

// Format parses src and re-renders it in canonical form. The input
// must be a single well-formed quest definition.
func Format(src []byte, opts ...parser.Option) ([]byte, error) {
	q, err := parser.Parse(string(src), opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := NewTextEncoder(&buf).Encode(q); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
