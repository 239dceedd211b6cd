package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/patent-litigation-graph/internal/application/patent"
	"github.com/turtacn/patent-litigation-graph/internal/interfaces/http/response"
)

type PatentHandler struct {
	patents patent.Service
}

func NewPatentHandler(patents patent.Service) *PatentHandler {
	return &PatentHandler{patents: patents}
}

// Search handles GET /api/v1/patents/search?q=. An upstream outage yields
// 200 with no patents and degraded=true.
func (h *PatentHandler) Search(w http.ResponseWriter, r *http.Request) {
	res, err := h.patents.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, res)
}

// Get handles GET /api/v1/patents/{id}.
func (h *PatentHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.patents.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, r, http.StatusOK, res)
}

//Personal.AI order the ending
