package handlers

import (
	"net/http"

	"github.com/turtacn/patent-litigation-graph/internal/application/litigation"
	"github.com/turtacn/patent-litigation-graph/internal/interfaces/http/response"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

type GraphHandler struct {
	graphs litigation.GraphService
}

func NewGraphHandler(graphs litigation.GraphService) *GraphHandler {
	return &GraphHandler{graphs: graphs}
}

// Get handles GET /api/v1/litigation/graph?name=.
func (h *GraphHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	g, err := h.graphs.GraphFor(r.Context(), name)
	if err != nil {
		response.Error(w, r, err)
		return
	}
	if g == nil {
		response.Error(w, r, errors.NotFound("no litigation graph").WithDetail("name="+name))
		return
	}
	response.OK(w, r, http.StatusOK, g)
}

//Personal.AI order the ending
