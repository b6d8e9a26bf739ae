package tree

// Module is the root of a whole-file parse.
type Module struct {
	Node

	// UsedNames maps identifier text to every Name leaf with that text, in
	// source order.
	UsedNames map[string][]*Leaf
	Path      string
}

func NewModule(children []Element) *Module {
	m := &Module{Node: Node{Kind: KindModule, Type: "file_input"}}
	m.adopt(children)
	return m
}

// EndMarker returns the trailing end marker leaf, if the module has one.
func (m *Module) EndMarker() *Leaf {
	if len(m.Children) == 0 {
		return nil
	}
	if l, ok := m.Children[len(m.Children)-1].(*Leaf); ok && l.Kind == LeafEndMarker {
		return l
	}
	return nil
}
