package litigation

// BuildGraph assembles the star graph for root. Children are de-duplicated by
// full-tuple equality keeping first-seen order, empty tuples are ignored, and
// each distinct child yields one defendant node and one root -> child link.
// Two distinct tuples sharing a first field therefore produce two nodes with
// the same id.
func BuildGraph(root string, children []Defendant) *Graph {
	g := &Graph{
		Nodes: []Node{{ID: root, Type: NodeTypePlaintiff}},
		Links: []Link{},
	}

	for _, child := range DistinctDefendants(children) {
		g.Nodes = append(g.Nodes, Node{ID: child.ID(), Type: NodeTypeDefendant})
		g.Links = append(g.Links, Link{Source: root, Target: child.ID()})
	}
	return g
}

// DistinctDefendants returns the de-duplicated, order-preserving subset of children.
func DistinctDefendants(children []Defendant) []Defendant {
	out := make([]Defendant, 0, len(children))
	seen := make(map[string]struct{}, len(children))
	for _, child := range children {
		if len(child) == 0 {
			continue
		}
		k := child.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, child)
	}
	return out
}

//Personal.AI order the ending
