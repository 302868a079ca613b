// Package quest defines the data model for quest definitions.
package quest

import (
	"fmt"
	"strconv"
	"strings"
)

// Quest is the result of parsing one quest definition.
type Quest struct {
	Name   string
	Steps  []string
	Reward int32
	Active bool
}

// ValueKind discriminates the payload of a Value.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueBool
)

var valueKindNames = map[ValueKind]string{
	ValueString: "String",
	ValueNumber: "Number",
	ValueBool:   "Bool",
}

func (k ValueKind) String() string {
	if name, ok := valueKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Value is a property value: a string, a signed 32-bit number, or a
// boolean. The grammar fixes the value type per recognized key, so the
// parser never produces a Value directly; it exists as the value domain
// for generic consumers (rendering, future keys).
type Value struct {
	Kind ValueKind
	Str  string
	Num  int32
	Bool bool
}

func StringValue(s string) Value {
	return Value{Kind: ValueString, Str: s}
}

func NumberValue(n int32) Value {
	return Value{Kind: ValueNumber, Num: n}
}

func BoolValue(b bool) Value {
	return Value{Kind: ValueBool, Bool: b}
}

// String renders the value as it appears in quest source. Strings are
// emitted raw between quotes because the grammar has no escape
// sequences; a value containing '"' has no source form (see
// CanQuote).
func (v Value) String() string {
	switch v.Kind {
	case ValueString:
		return `"` + v.Str + `"`
	case ValueNumber:
		return strconv.FormatInt(int64(v.Num), 10)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	}
	return fmt.Sprintf("Value(%d)", int(v.Kind))
}

// CanQuote reports whether s can appear as a string literal in quest
// source. Only the double quote is unrepresentable.
func CanQuote(s string) bool {
	return !strings.Contains(s, `"`)
}

// Property is one key/value pair of a quest body.
type Property struct {
	Key   string
	Value Value
}

// Properties returns the quest body as key/value pairs in canonical
// order: reward, active, then one entry per step.
func (q *Quest) Properties() []Property {
	props := make([]Property, 0, 2+len(q.Steps))
	props = append(props,
		Property{Key: "reward", Value: NumberValue(q.Reward)},
		Property{Key: "active", Value: BoolValue(q.Active)},
	)
	for _, step := range q.Steps {
		props = append(props, Property{Key: "step", Value: StringValue(step)})
	}
	return props
}
