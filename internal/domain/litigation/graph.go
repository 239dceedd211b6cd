// Package litigation models plaintiff/defendant litigation records and the
// star-shaped graph rendered for a single litigant.
package litigation

// NodeType tags a graph node as the root plaintiff or one of its defendants.
type NodeType string

const (
	NodeTypePlaintiff NodeType = "plaintiff"
	NodeTypeDefendant NodeType = "defendant"
)

// Node is a vertex in a litigation graph.
type Node struct {
	ID   string   `json:"id"`
	Type NodeType `json:"type"`
}

// Link connects the root plaintiff to one defendant.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the visualization payload. Nodes[0] is always the root plaintiff
// and every link has the root as its source.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Root returns the plaintiff node, or a zero Node for an empty graph.
func (g *Graph) Root() Node {
	if g == nil || len(g.Nodes) == 0 {
		return Node{}
	}
	return g.Nodes[0]
}

// DefendantCount is the number of non-root nodes.
func (g *Graph) DefendantCount() int {
	if g == nil || len(g.Nodes) == 0 {
		return 0
	}
	return len(g.Nodes) - 1
}

// Defendant is one defendant value as stored on a defendant record. The first
// element identifies the defendant; trailing elements are extra fields that
// still take part in de-duplication.
type Defendant []string

// ID returns the defendant identifier, or "" for an empty tuple.
func (d Defendant) ID() string {
	if len(d) == 0 {
		return ""
	}
	return d[0]
}

// key encodes the tuple unambiguously for set membership.
func (d Defendant) key() string {
	n := 0
	for _, s := range d {
		n += len(s) + 1
	}
	b := make([]byte, 0, n)
	for _, s := range d {
		b = append(b, s...)
		b = append(b, 0)
	}
	return string(b)
}

// Record is a litigation case as imported into the store: the case id, the
// plaintiff names listed on it and the defendant tuples sued under it.
type Record struct {
	ID         string      `json:"id" validate:"required"`
	Plaintiffs []string    `json:"plaintiffs" validate:"required,min=1,dive,required"`
	Defendants []Defendant `json:"defendants"`
}

//Personal.AI order the ending
