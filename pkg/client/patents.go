package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Patent is one search hit.
type Patent struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Inventor string `json:"inventor"`
	Abstract string `json:"abstract"`
	URL      string `json:"url"`
}

type PatentDetail struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Inventor string `json:"inventor"`
	Summary  string `json:"summary"`
}

// SearchResult carries Degraded=true when the upstream patent API was down
// and Patents is empty for that reason.
type SearchResult struct {
	Query    string    `json:"query"`
	Patents  []*Patent `json:"patents"`
	Degraded bool      `json:"degraded"`
	Cached   bool      `json:"cached"`
}

// DetailResult has a nil Graph when the inventor has no litigation record.
type DetailResult struct {
	Detail *PatentDetail `json:"detail"`
	Graph  *Graph        `json:"graph"`
}

type PatentsClient struct {
	client *Client
}

func (p *PatentsClient) Search(ctx context.Context, query string) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	var res SearchResult
	if _, err := p.client.get(ctx, "/api/v1/patents/search?q="+url.QueryEscape(query), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (p *PatentsClient) Get(ctx context.Context, id string) (*DetailResult, error) {
	if id == "" {
		return nil, fmt.Errorf("patent id is required")
	}
	var res DetailResult
	if _, err := p.client.get(ctx, "/api/v1/patents/"+url.PathEscape(id), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

//Personal.AI order the ending
