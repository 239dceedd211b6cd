package patent

import (
	"github.com/turtacn/patent-litigation-graph/pkg/types/common"
)

const EventPatentSearched = "patent.searched"

// SearchedEvent is emitted after a search completes. Inventors lists the
// distinct non-empty inventor names of the returned records in order, so
// consumers can pre-build litigation graphs for them.
type SearchedEvent struct {
	common.BaseEvent
	Query     string   `json:"query"`
	Results   int      `json:"results"`
	Degraded  bool     `json:"degraded"`
	Inventors []string `json:"inventors"`
}

func NewSearchedEvent(query string, records []*PatentRecord, degraded bool) *SearchedEvent {
	inventors := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil || r.Inventor == "" {
			continue
		}
		if _, ok := seen[r.Inventor]; ok {
			continue
		}
		seen[r.Inventor] = struct{}{}
		inventors = append(inventors, r.Inventor)
	}
	return &SearchedEvent{
		BaseEvent: common.NewBaseEvent(EventPatentSearched, query),
		Query:     query,
		Results:   len(records),
		Degraded:  degraded,
		Inventors: inventors,
	}
}

//Personal.AI order the ending
