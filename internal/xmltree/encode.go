package xmltree

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// DefaultIndent matches the layout of previously stored documents.
const DefaultIndent = " "

// Encode writes v as JSON. Object keys keep insertion order, an absent
// Attributed text is written as null and non-ASCII characters are
// escaped. An empty indent produces compact output.
func Encode(w io.Writer, v Value, indent string) error {
	e := encoder{indent: indent}
	e.value(v)
	_, err := w.Write(e.buf.Bytes())
	return err
}

// MarshalIndent encodes v with DefaultIndent.
func MarshalIndent(v Value) ([]byte, error) {
	e := encoder{indent: DefaultIndent}
	e.value(v)
	return e.buf.Bytes(), nil
}

// Marshal encodes v compactly.
func Marshal(v Value) ([]byte, error) {
	var e encoder
	e.value(v)
	return e.buf.Bytes(), nil
}

func (s Scalar) MarshalJSON() ([]byte, error)     { return Marshal(s) }
func (o *Object) MarshalJSON() ([]byte, error)    { return Marshal(o) }
func (l List) MarshalJSON() ([]byte, error)       { return Marshal(l) }
func (a Attributed) MarshalJSON() ([]byte, error) { return Marshal(a) }

type encoder struct {
	buf    bytes.Buffer
	indent string
	depth  int
}

func (e *encoder) value(v Value) {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case Scalar:
		writeString(&e.buf, string(t))
	case *Object:
		if t == nil {
			e.buf.WriteString("{}")
			return
		}
		e.object(t.entries)
	case List:
		e.list(t)
	case Attributed:
		e.attributed(t)
	}
}

func (e *encoder) object(entries []Entry) {
	if len(entries) == 0 {
		e.buf.WriteString("{}")
		return
	}
	e.open('{')
	for i, en := range entries {
		e.separate(i)
		e.key(en.Name)
		e.value(en.Value)
	}
	e.close('}')
}

func (e *encoder) list(l List) {
	if len(l) == 0 {
		e.buf.WriteString("[]")
		return
	}
	e.open('[')
	for i, en := range l {
		e.separate(i)
		e.object([]Entry{en})
	}
	e.close(']')
}

func (e *encoder) attributed(a Attributed) {
	e.open('{')
	e.separate(0)
	e.key("attributes")
	if len(a.Attributes) == 0 {
		e.buf.WriteString("{}")
	} else {
		e.open('{')
		for i, at := range a.Attributes {
			e.separate(i)
			e.key(at.Name)
			writeString(&e.buf, at.Value)
		}
		e.close('}')
	}
	e.separate(1)
	e.key("text")
	if a.Text == nil {
		e.buf.WriteString("null")
	} else {
		writeString(&e.buf, *a.Text)
	}
	e.close('}')
}

func (e *encoder) open(delim byte) {
	e.buf.WriteByte(delim)
	e.depth++
}

func (e *encoder) close(delim byte) {
	e.depth--
	e.newline()
	e.buf.WriteByte(delim)
}

func (e *encoder) separate(i int) {
	if i > 0 {
		e.buf.WriteByte(',')
		if e.indent == "" {
			e.buf.WriteByte(' ')
		}
	}
	e.newline()
}

func (e *encoder) newline() {
	if e.indent == "" {
		return
	}
	e.buf.WriteByte('\n')
	e.buf.WriteString(strings.Repeat(e.indent, e.depth))
}

func (e *encoder) key(name string) {
	writeString(&e.buf, name)
	e.buf.WriteString(": ")
}

const hex = "0123456789abcdef"

// writeString quotes s, escaping everything outside printable ASCII.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			switch {
			case r >= ' ' && r <= '~':
				buf.WriteRune(r)
			case r > 0xFFFF:
				r1, r2 := utf16.EncodeRune(r)
				writeEscape(buf, r1)
				writeEscape(buf, r2)
			default:
				writeEscape(buf, r)
			}
		}
	}
	buf.WriteByte('"')
}

func writeEscape(buf *bytes.Buffer, r rune) {
	buf.WriteString(`\u`)
	buf.WriteByte(hex[r>>12&0xF])
	buf.WriteByte(hex[r>>8&0xF])
	buf.WriteByte(hex[r>>4&0xF])
	buf.WriteByte(hex[r&0xF])
}
