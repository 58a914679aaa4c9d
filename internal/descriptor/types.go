package descriptor

import (
	"fmt"
	"maps"
	"slices"
)

// Kind distinguishes the two shapes a field value may take.
type Kind int

const (
	// KindScalar is a single string value.
	KindScalar Kind = iota

	// KindList is an ordered list of string values.
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// FieldValue is either a Scalar or a List. The zero value is the empty scalar.
type FieldValue struct {
	kind   Kind
	scalar string
	list   []string
}

// Scalar returns a single-valued field.
func Scalar(value string) FieldValue {
	return FieldValue{kind: KindScalar, scalar: value}
}

// List returns a multi-valued field. An empty list is allowed and makes the
// descriptor expand to nothing.
func List(values ...string) FieldValue {
	return FieldValue{kind: KindList, list: slices.Clone(values)}
}

// Kind reports the shape of the value.
func (v FieldValue) Kind() Kind {
	return v.kind
}

// Scalar returns the string value and whether v is a scalar.
func (v FieldValue) Scalar() (string, bool) {
	return v.scalar, v.kind == KindScalar
}

// List returns a copy of the values and whether v is a list.
func (v FieldValue) List() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return slices.Clone(v.list), true
}

// Len is 1 for scalars and the element count for lists.
func (v FieldValue) Len() int {
	if v.kind == KindList {
		return len(v.list)
	}
	return 1
}

// Field is a named descriptor entry.
type Field struct {
	Name  string
	Value FieldValue
}

// Descriptor is the parsed, immutable content of a config file. Fields keep
// their declaration order.
type Descriptor struct {
	fields []Field
}

// New builds a Descriptor from fields in the given order.
func New(fields ...Field) (*Descriptor, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, f.Name)
		}
		seen[f.Name] = struct{}{}
	}

	return &Descriptor{fields: slices.Clone(fields)}, nil
}

// Fields returns all fields in declaration order.
func (d *Descriptor) Fields() []Field {
	return slices.Clone(d.fields)
}

// Scalars returns the single-valued fields in declaration order.
func (d *Descriptor) Scalars() []Field {
	return d.filter(KindScalar)
}

// Multi returns the list-valued fields in declaration order.
func (d *Descriptor) Multi() []Field {
	return d.filter(KindList)
}

func (d *Descriptor) filter(kind Kind) []Field {
	var out []Field
	for _, f := range d.fields {
		if f.Value.kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Count returns the number of configurations the descriptor expands to.
func (d *Descriptor) Count() int {
	n := 1
	for _, f := range d.Multi() {
		n *= len(f.Value.list)
	}
	return n
}

// Configuration is one concrete configuration: every field bound to a single
// string value.
type Configuration map[string]string

// Clone returns an independent copy.
func (c Configuration) Clone() Configuration {
	return maps.Clone(c)
}

// Keys returns the field names in sorted order.
func (c Configuration) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}
