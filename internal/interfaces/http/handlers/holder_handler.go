package handlers

import (
	"net/http"

	"github.com/turtacn/patent-litigation-graph/internal/application/holder"
	"github.com/turtacn/patent-litigation-graph/internal/domain/patent"
	"github.com/turtacn/patent-litigation-graph/internal/interfaces/http/response"
)

type HolderHandler struct {
	holders holder.Service
}

func NewHolderHandler(holders holder.Service) *HolderHandler {
	return &HolderHandler{holders: holders}
}

// Search handles GET /api/v1/holders?q=&page=&page_size=.
func (h *HolderHandler) Search(w http.ResponseWriter, r *http.Request) {
	res, err := h.holders.Search(r.Context(), holder.SearchInput{
		Query:    r.URL.Query().Get("q"),
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "page_size", holder.DefaultPageSize),
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}
	response.Paginated(w, r, res.Holders, res.Pagination)
}

// Create handles POST /api/v1/holders.
func (h *HolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rec patent.PatentHolder
	if err := decodeJSON(r, &rec); err != nil {
		response.Error(w, r, err)
		return
	}
	if err := h.holders.Create(r.Context(), &rec); err != nil {
		response.Error(w, r, err)
		return
	}
	response.OK(w, r, http.StatusCreated, &rec)
}

//Personal.AI order the ending
