package xmltree

// Lookup follows path from v. An Object step selects the named member, a
// List step selects the first entry with that name and an Attributed step
// selects "text" or the named attribute.
func Lookup(v Value, path ...string) (Value, bool) {
	cur := v
	for _, name := range path {
		next, ok := child(cur, name)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, cur != nil
}

// LookupText is Lookup followed by TextOf.
func LookupText(v Value, path ...string) string {
	found, ok := Lookup(v, path...)
	if !ok {
		return ""
	}
	return TextOf(found)
}

// All returns every value named name directly under v, in order.
func All(v Value, name string) []Value {
	switch t := v.(type) {
	case *Object:
		if found, ok := t.Get(name); ok {
			return []Value{found}
		}
	case List:
		var out []Value
		for _, e := range t {
			if e.Name == name {
				out = append(out, e.Value)
			}
		}
		return out
	}
	return nil
}

// TextOf returns the text of a Scalar or Attributed, and "" otherwise.
func TextOf(v Value) string {
	switch t := v.(type) {
	case Scalar:
		return string(t)
	case Attributed:
		if t.Text != nil {
			return *t.Text
		}
	}
	return ""
}

func child(v Value, name string) (Value, bool) {
	switch t := v.(type) {
	case *Object:
		return t.Get(name)
	case List:
		for _, e := range t {
			if e.Name == name {
				return e.Value, true
			}
		}
	case Attributed:
		if name == "text" {
			if t.Text == nil {
				return nil, false
			}
			return Scalar(*t.Text), true
		}
		if s, ok := t.Attr(name); ok {
			return Scalar(s), true
		}
	}
	return nil, false
}
