// Package patent holds the patent search result model, the normalization of
// raw upstream payloads and the patent holder registry entity.
package patent

import (
	"fmt"
	"strconv"
)

// PatentRecord is one search hit. Title, Inventor and Abstract may be
// overwritten once by enrichment; nothing else changes after normalization.
type PatentRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Inventor string `json:"inventor"`
	Abstract string `json:"abstract"`
	Link     string `json:"url"`
}

// Clone returns a copy of r.
func (r *PatentRecord) Clone() *PatentRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// Detail is the result of a single-patent lookup.
type Detail struct {
	ExternalID string `json:"id"`
	Title      string `json:"title"`
	Inventor   string `json:"inventor"`
	Summary    string `json:"summary"`
}

// ApplyDetail overwrites the enrichable fields of r with d.
func (r *PatentRecord) ApplyDetail(d *Detail) {
	if r == nil || d == nil {
		return
	}
	r.Title = d.Title
	r.Inventor = d.Inventor
	r.Abstract = d.Summary
}

// RawRecord is one item of the upstream "patents" array as decoded JSON.
type RawRecord map[string]any

// String returns the value at key rendered as a string. Absent or null values
// yield "".
func (r RawRecord) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

//Personal.AI order the ending
