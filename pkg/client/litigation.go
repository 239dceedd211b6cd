package client

import (
	"context"
	"net/url"
)

type Node struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is a plaintiff-rooted litigation graph.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

type LitigationClient struct {
	client *Client
}

// Graph fetches the graph rooted at name. A name with no litigation record
// yields an *APIError for which IsNotFound is true.
func (l *LitigationClient) Graph(ctx context.Context, name string) (*Graph, error) {
	var g Graph
	if _, err := l.client.get(ctx, "/api/v1/litigation/graph?name="+url.QueryEscape(name), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

//Personal.AI order the ending
