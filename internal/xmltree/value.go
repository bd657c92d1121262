package xmltree

// Kind identifies the shape of a Value.
type Kind uint8

const (
	ScalarKind Kind = iota
	ObjectKind
	ListKind
	AttributedKind
)

func (k Kind) String() string {
	switch k {
	case ScalarKind:
		return "scalar"
	case ObjectKind:
		return "object"
	case ListKind:
		return "list"
	case AttributedKind:
		return "attributed"
	default:
		return "unknown"
	}
}

// Value is the schema-less result of normalizing an XML tree: a Scalar,
// an *Object, a List or an Attributed.
type Value interface {
	Kind() Kind
	MarshalJSON() ([]byte, error)
}

// Scalar is leaf text content. An element with neither text nor
// children normalizes to the empty Scalar.
type Scalar string

func (Scalar) Kind() Kind { return ScalarKind }

// Entry is one named member of an Object or one single-key element of a
// List.
type Entry struct {
	Name  string
	Value Value
}

// Object maps tag names to values and keeps insertion order.
type Object struct {
	entries []Entry
	index   map[string]int
}

// NewObject returns an Object holding entries in the given order. A
// repeated name replaces the earlier value in place.
func NewObject(entries ...Entry) *Object {
	o := &Object{}
	for _, e := range entries {
		o.set(e.Name, e.Value)
	}
	return o
}

func (*Object) Kind() Kind { return ObjectKind }

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

func (o *Object) Get(name string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[name]
	if !ok {
		return nil, false
	}
	return o.entries[i].Value, true
}

func (o *Object) Has(name string) bool {
	_, ok := o.Get(name)
	return ok
}

// Keys returns the member names in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.entries))
	for i, e := range o.entries {
		keys[i] = e.Name
	}
	return keys
}

// Entries returns a copy of the members in insertion order.
func (o *Object) Entries() []Entry {
	if o == nil {
		return nil
	}
	return append([]Entry(nil), o.entries...)
}

func (o *Object) set(name string, v Value) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[name]; ok {
		o.entries[i].Value = v
		return
	}
	o.index[name] = len(o.entries)
	o.entries = append(o.entries, Entry{Name: name, Value: v})
}

func (o *Object) remove(name string) Value {
	i, ok := o.index[name]
	if !ok {
		return nil
	}
	v := o.entries[i].Value
	o.entries = append(o.entries[:i], o.entries[i+1:]...)
	delete(o.index, name)
	for j := i; j < len(o.entries); j++ {
		o.index[o.entries[j].Name] = j
	}
	return v
}

// List is a repeated element group: single-key entries in document order.
type List []Entry

func (List) Kind() Kind { return ListKind }

// Attr is an attribute name and value as written in the document.
type Attr struct {
	Name  string
	Value string
}

// Attributed is the value of an element that carries attributes. Text is
// nil when the element has no direct text.
type Attributed struct {
	Attributes []Attr
	Text       *string
}

func (Attributed) Kind() Kind { return AttributedKind }

// Attr returns the value of the named attribute.
func (a Attributed) Attr(name string) (string, bool) {
	for _, at := range a.Attributes {
		if at.Name == name {
			return at.Value, true
		}
	}
	return "", false
}
