package litigation

import (
	"github.com/turtacn/patent-litigation-graph/pkg/types/common"
)

const EventGraphBuilt = "litigation.graph.built"

// GraphBuiltEvent records that a graph was assembled for Root.
type GraphBuiltEvent struct {
	common.BaseEvent
	Root       string `json:"root"`
	Plaintiffs int    `json:"plaintiffs"`
	Defendants int    `json:"defendants"`
}

func NewGraphBuiltEvent(root string, plaintiffs int, g *Graph) *GraphBuiltEvent {
	return &GraphBuiltEvent{
		BaseEvent:  common.NewBaseEvent(EventGraphBuilt, root),
		Root:       root,
		Plaintiffs: plaintiffs,
		Defendants: g.DefendantCount(),
	}
}

//Personal.AI order the ending
