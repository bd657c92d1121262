package xmltree

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Decode reads a JSON document written by Encode back into a Value,
// keeping key order. An object holding exactly "attributes" (an object of
// strings) and "text" (a string or null) decodes as Attributed; arrays
// must hold single-key objects.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("xmltree: decode failed: %w", err)
	}
	if v == nil {
		return nil, errors.New("xmltree: decode failed: null document")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("xmltree: decode failed: trailing data")
	}
	return v, nil
}

// decodeValue returns a nil Value for JSON null.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeList(dec)
		}
		return nil, fmt.Errorf("unexpected %q", t)
	case string:
		return Scalar(t), nil
	case json.Number:
		return Scalar(t.String()), nil
	case bool:
		return Scalar(strconv.FormatBool(t)), nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (Value, error) {
	var entries []Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: name, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	if a, ok := asAttributed(entries); ok {
		return a, nil
	}
	for _, e := range entries {
		if e.Value == nil {
			return nil, fmt.Errorf("unexpected null for %q", e.Name)
		}
	}
	return NewObject(entries...), nil
}

func decodeList(dec *json.Decoder) (Value, error) {
	l := List{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		o, ok := v.(*Object)
		if !ok || o.Len() != 1 {
			return nil, fmt.Errorf("list element %d is not a single-key object", len(l))
		}
		l = append(l, o.entries[0])
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return l, nil
}

func asAttributed(entries []Entry) (Attributed, bool) {
	if len(entries) != 2 {
		return Attributed{}, false
	}
	var attrs, text Entry
	for _, e := range entries {
		switch e.Name {
		case "attributes":
			attrs = e
		case "text":
			text = e
		}
	}
	if attrs.Name == "" || text.Name == "" {
		return Attributed{}, false
	}
	obj, ok := attrs.Value.(*Object)
	if !ok {
		return Attributed{}, false
	}
	out := Attributed{Attributes: make([]Attr, 0, obj.Len())}
	for _, e := range obj.entries {
		s, ok := e.Value.(Scalar)
		if !ok {
			return Attributed{}, false
		}
		out.Attributes = append(out.Attributes, Attr{Name: e.Name, Value: string(s)})
	}
	switch t := text.Value.(type) {
	case nil:
	case Scalar:
		s := string(t)
		out.Text = &s
	default:
		return Attributed{}, false
	}
	return out, true
}
