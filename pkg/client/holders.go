package client

import (
	"context"
	"net/url"
	"strconv"
)

// PatentHolder is one ownership registry row. Dates are YYYY-MM-DD.
type PatentHolder struct {
	ReferenceID         string `json:"reference_id"`
	GrantDocNumber      string `json:"grant_doc_number"`
	RecordDate          string `json:"record_date"`
	PatentHolderID      string `json:"patent_holder_id"`
	PatentHolder        string `json:"patent_holder"`
	PatentSeller        string `json:"patent_seller,omitempty"`
	PatentSellerID      string `json:"patent_seller_id,omitempty"`
	Litigation          int    `json:"litigation"`
	TechField           string `json:"tech_field"`
	FilingYear          string `json:"filing_year"`
	TypePatentHolder    string `json:"type_patent_holder"`
	PatentQuality       int    `json:"patent_quality"`
	PatentValue         int    `json:"patent_value"`
	LitigationRisk      int    `json:"litigation_risk"`
	CountryPatentHolder string `json:"country_patent_holder"`
	CountryPatentSeller string `json:"country_patent_seller,omitempty"`
}

type HolderPage struct {
	Holders    []*PatentHolder
	Pagination Pagination
}

type HoldersClient struct {
	client *Client
}

// Search pages through holders whose name matches query. page and pageSize
// fall back to server defaults when zero.
func (h *HoldersClient) Search(ctx context.Context, query string, page, pageSize int) (*HolderPage, error) {
	params := url.Values{"q": {query}}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}
	var holders []*PatentHolder
	pg, err := h.client.get(ctx, "/api/v1/holders?"+params.Encode(), &holders)
	if err != nil {
		return nil, err
	}
	res := &HolderPage{Holders: holders}
	if pg != nil {
		res.Pagination = *pg
	}
	return res, nil
}

func (h *HoldersClient) Create(ctx context.Context, holder *PatentHolder) (*PatentHolder, error) {
	var out PatentHolder
	if err := h.client.post(ctx, "/api/v1/holders", holder, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
