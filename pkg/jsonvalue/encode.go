package jsonvalue

import (
	"encoding/json"
	"strings"
)

// Indent is the canonical indentation used for formatted output.
const Indent = "  "

// JSON serializes the value with the given indent string. An empty
// indent produces compact output with no inserted whitespace.
func (v Value) JSON(indent string) string {
	var b strings.Builder
	v.encode(&b, indent, 0)
	return b.String()
}

// Compact serializes the value with no inserted whitespace.
func (v Value) Compact() string {
	return v.JSON("")
}

func (v Value) encode(b *strings.Builder, indent string, depth int) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")

	case KindBool:
		if v.b {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}

	case KindNumber:
		if v.num == "" {
			b.WriteString("0")
		} else {
			b.WriteString(v.num.String())
		}

	case KindString:
		writeQuoted(b, v.str)

	case KindArray:
		if len(v.arr) == 0 {
			b.WriteString("[]")
			return
		}

		b.WriteByte('[')
		for i, elem := range v.arr {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNewlineIndent(b, indent, depth+1)
			elem.encode(b, indent, depth+1)
		}
		writeNewlineIndent(b, indent, depth)
		b.WriteByte(']')

	case KindObject:
		if len(v.obj) == 0 {
			b.WriteString("{}")
			return
		}

		b.WriteByte('{')
		for i, m := range v.obj {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNewlineIndent(b, indent, depth+1)
			writeQuoted(b, m.Key)
			b.WriteByte(':')
			if indent != "" {
				b.WriteByte(' ')
			}
			m.Value.encode(b, indent, depth+1)
		}
		writeNewlineIndent(b, indent, depth)
		b.WriteByte('}')
	}
}

func writeNewlineIndent(b *strings.Builder, indent string, depth int) {
	if indent == "" {
		return
	}

	b.WriteByte('\n')
	for i := 0; i < depth; i++ {
		b.WriteString(indent)
	}
}

// writeQuoted writes s as a JSON string literal. encoding/json handles
// the escaping rules, including control characters.
func writeQuoted(b *strings.Builder, s string) {
	quoted, err := json.Marshal(s)
	if err != nil {
		// Marshaling a string cannot fail; keep the output well-formed
		// regardless.
		b.WriteString(`""`)
		return
	}
	b.Write(quoted)
}
