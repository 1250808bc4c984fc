package value

// Visitor receives exactly one call per Accept. Every variant of Value maps
// to one method, so implementations must handle all of them.
type Visitor interface {
	VisitScalar(s Scalar)
	VisitInternalID(id InternalID)
	VisitNode(n Node)
	VisitRel(r Rel)
	VisitOther(o Other)
}

// AsInternalID reports whether v is an InternalID and returns it.
func AsInternalID(v Value) (InternalID, bool) {
	id, ok := v.(InternalID)
	return id, ok
}

// AsString reports whether v is a String and returns its contents.
func AsString(v Value) (string, bool) {
	s, ok := v.(String)
	return string(s), ok
}

// AsNode reports whether v is a Node and returns it.
func AsNode(v Value) (Node, bool) {
	n, ok := v.(Node)
	return n, ok
}

// Kind names the variant of v, for logs and error messages.
func Kind(v Value) string {
	if v == nil {
		return "nil"
	}
	k := kindVisitor{}
	v.Accept(&k)
	return k.kind
}

type kindVisitor struct{ kind string }

func (k *kindVisitor) VisitScalar(s Scalar) {
	switch s.(type) {
	case String:
		k.kind = "string"
	case Int8:
		k.kind = "int8"
	case Int16:
		k.kind = "int16"
	case Int32:
		k.kind = "int32"
	case Int64:
		k.kind = "int64"
	case Float32:
		k.kind = "float"
	case Float64:
		k.kind = "double"
	case Bool:
		k.kind = "bool"
	}
}
func (k *kindVisitor) VisitInternalID(InternalID) { k.kind = "internal_id" }
func (k *kindVisitor) VisitNode(Node)             { k.kind = "node" }
func (k *kindVisitor) VisitRel(Rel)               { k.kind = "rel" }
func (k *kindVisitor) VisitOther(Other)           { k.kind = "other" }
