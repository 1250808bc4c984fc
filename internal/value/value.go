package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is one cell of a result row.
type Value interface {
	// String renders the value the way it is shown to a user.
	String() string
	// Accept dispatches to the Visitor method matching the concrete variant.
	Accept(v Visitor)

	sealed()
}

// Row is an ordered sequence of values, one per returned column.
type Row []Value

// Scalar is implemented by the primitive variants.
type Scalar interface {
	Value
	scalar()
}

type (
	String  string
	Int8    int8
	Int16   int16
	Int32   int32
	Int64   int64
	Float32 float32
	Float64 float64
	Bool    bool
)

func (s String) String() string  { return string(s) }
func (i Int8) String() string    { return strconv.FormatInt(int64(i), 10) }
func (i Int16) String() string   { return strconv.FormatInt(int64(i), 10) }
func (i Int32) String() string   { return strconv.FormatInt(int64(i), 10) }
func (i Int64) String() string   { return strconv.FormatInt(int64(i), 10) }
func (f Float32) String() string { return strconv.FormatFloat(float64(f), 'f', -1, 32) }
func (f Float64) String() string { return strconv.FormatFloat(float64(f), 'f', -1, 64) }
func (b Bool) String() string    { return strconv.FormatBool(bool(b)) }

func (s String) Accept(v Visitor)  { v.VisitScalar(s) }
func (i Int8) Accept(v Visitor)    { v.VisitScalar(i) }
func (i Int16) Accept(v Visitor)   { v.VisitScalar(i) }
func (i Int32) Accept(v Visitor)   { v.VisitScalar(i) }
func (i Int64) Accept(v Visitor)   { v.VisitScalar(i) }
func (f Float32) Accept(v Visitor) { v.VisitScalar(f) }
func (f Float64) Accept(v Visitor) { v.VisitScalar(f) }
func (b Bool) Accept(v Visitor)    { v.VisitScalar(b) }

func (String) sealed()  {}
func (Int8) sealed()    {}
func (Int16) sealed()   {}
func (Int32) sealed()   {}
func (Int64) sealed()   {}
func (Float32) sealed() {}
func (Float64) sealed() {}
func (Bool) sealed()    {}

func (String) scalar()  {}
func (Int8) scalar()    {}
func (Int16) scalar()   {}
func (Int32) scalar()   {}
func (Int64) scalar()   {}
func (Float32) scalar() {}
func (Float64) scalar() {}
func (Bool) scalar()    {}

// InternalID addresses one stored entity instance inside the engine.
type InternalID struct {
	TableID uint64
	Offset  uint64
}

// String returns the canonical "{tableId}:{offset}" form.
func (id InternalID) String() string {
	return strconv.FormatUint(id.TableID, 10) + ":" + strconv.FormatUint(id.Offset, 10)
}

func (id InternalID) Accept(v Visitor) { v.VisitInternalID(id) }
func (InternalID) sealed()             {}

// Property is a single key/value pair of a node or relationship. Keys are
// not guaranteed to be unique within one entity.
type Property struct {
	Key   string
	Value Value
}

// Properties is an ordered property list.
type Properties []Property

// Get returns the value of the first property named key.
func (p Properties) Get(key string) (Value, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return nil, false
}

func (p Properties) String() string {
	parts := make([]string, 0, len(p))
	for _, prop := range p {
		parts = append(parts, prop.Key+": "+display(prop.Value))
	}
	return strings.Join(parts, ", ")
}

// Node is a typed node instance.
type Node struct {
	ID         InternalID
	Label      string
	Properties Properties
}

func (n Node) String() string {
	s := "{_ID: " + n.ID.String() + ", _LABEL: " + n.Label
	if len(n.Properties) > 0 {
		s += ", " + n.Properties.String()
	}
	return s + "}"
}

func (n Node) Accept(v Visitor) { v.VisitNode(n) }
func (Node) sealed()            {}

// Rel is a typed relationship instance.
type Rel struct {
	Label      string
	Src        InternalID
	Dst        InternalID
	Properties Properties
}

func (r Rel) String() string {
	s := "(" + r.Src.String() + ")-{_LABEL: " + r.Label
	if len(r.Properties) > 0 {
		s += ", " + r.Properties.String()
	}
	return s + "}->(" + r.Dst.String() + ")"
}

func (r Rel) Accept(v Visitor) { v.VisitRel(r) }
func (Rel) sealed()            {}

// Other wraps any engine value this package has no dedicated variant for
// (lists, maps, dates, nulls, ...). Raw keeps the engine's native value.
type Other struct {
	Raw any
}

func (o Other) String() string {
	if o.Raw == nil {
		return ""
	}
	return fmt.Sprint(o.Raw)
}

func (o Other) Accept(v Visitor) { v.VisitOther(o) }
func (Other) sealed()            {}

func display(v Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}
