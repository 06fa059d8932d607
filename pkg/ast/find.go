package ast

// Find returns the first child of c with type T that satisfies match.
func Find[T Node](c Container, match func(T) bool) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	for _, n := range c.Children() {
		if t, ok := n.(T); ok && (match == nil || match(t)) {
			return t, true
		}
	}
	return zero, false
}

// All returns every child of c with type T, in order.
func All[T Node](c Container) []T {
	if c == nil {
		return nil
	}
	var out []T
	for _, n := range c.Children() {
		if t, ok := n.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// LastIndex returns the index of the last child of type T, or -1.
func LastIndex[T Node](c Container) int {
	idx := -1
	for i, n := range c.Children() {
		if _, ok := n.(T); ok {
			idx = i
		}
	}
	return idx
}

// Named returns the identity name of a declaration node, or "".
func Named(n Node) string {
	switch v := n.(type) {
	case *Namespace:
		return v.Name
	case *Class:
		return v.Name
	case *Interface:
		return v.Name
	case *Enum:
		return v.Name
	case *TypeAlias:
		return v.Name
	case *Variable:
		return v.Name
	case *Function:
		return v.Name
	case *Method:
		return v.Name
	case *Accessor:
		return v.Name
	case *Property:
		return v.Name
	case *Constructor:
		return "constructor"
	}
	return ""
}

// FindOpaque returns the first raw child of c that is an opaque declaration
// of kind with a name accepted by match.
func FindOpaque(c Container, kind Kind, match func(name string) bool) (*Raw, bool) {
	return Find(c, func(r *Raw) bool { return r.Declares(kind, match) })
}
