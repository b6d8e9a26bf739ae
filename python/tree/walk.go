package tree

// Walk visits e and its descendants in source order. Returning false from fn
// skips the children of the visited element.
func Walk(e Element, fn func(Element) bool) {
	if !fn(e) {
		return
	}
	if n := AsNode(e); n != nil {
		for _, c := range n.Children {
			Walk(c, fn)
		}
	}
}

// Leaves returns every leaf below e in source order.
func Leaves(e Element) []*Leaf {
	var out []*Leaf
	Walk(e, func(el Element) bool {
		if l, ok := el.(*Leaf); ok {
			out = append(out, l)
		}
		return true
	})
	return out
}

// Find returns the first element below e for which match returns true.
func Find(e Element, match func(Element) bool) Element {
	var found Element
	Walk(e, func(el Element) bool {
		if found != nil {
			return false
		}
		if match(el) {
			found = el
			return false
		}
		return true
	})
	return found
}

// ErrorElements returns the error nodes and error leaves below e.
func ErrorElements(e Element) []Element {
	var out []Element
	Walk(e, func(el Element) bool {
		switch v := el.(type) {
		case *Leaf:
			if v.IsError() {
				out = append(out, v)
			}
		case *Node:
			if v.IsError() {
				out = append(out, v)
			}
		}
		return true
	})
	return out
}

// Root returns the topmost ancestor of e.
func Root(e Element) Element {
	for {
		p := e.Parent()
		if p == nil {
			return e
		}
		e = p
	}
}

func PreviousSibling(e Element) Element {
	p := e.Parent()
	if p == nil {
		return nil
	}
	if i := p.Index(e); i > 0 {
		return p.Children[i-1]
	}
	return nil
}

func NextSibling(e Element) Element {
	p := e.Parent()
	if p == nil {
		return nil
	}
	if i := p.Index(e); i >= 0 && i+1 < len(p.Children) {
		return p.Children[i+1]
	}
	return nil
}

// PreviousLeaf returns the leaf that comes just before e in source order.
func PreviousLeaf(e Element) *Leaf {
	for {
		p := e.Parent()
		if p == nil {
			return nil
		}
		for i := p.Index(e) - 1; i >= 0; i-- {
			if l := p.Children[i].LastLeaf(); l != nil {
				return l
			}
		}
		e = p
	}
}

// NextLeaf returns the leaf that comes just after e in source order.
func NextLeaf(e Element) *Leaf {
	for {
		p := e.Parent()
		if p == nil {
			return nil
		}
		i := p.Index(e)
		if i < 0 {
			return nil
		}
		for i++; i < len(p.Children); i++ {
			if l := p.Children[i].FirstLeaf(); l != nil {
				return l
			}
		}
		e = p
	}
}
