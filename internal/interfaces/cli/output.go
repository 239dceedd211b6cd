package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/turtacn/patent-litigation-graph/pkg/client"
)

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func truncateString(s string, max int) string {
	if max <= 3 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

func renderPatents(w io.Writer, res *client.SearchResult) {
	if res.Degraded {
		fmt.Fprintln(w, color.YellowString("Patent search is unavailable right now; showing no results."))
	}
	if len(res.Patents) == 0 {
		fmt.Fprintf(w, "No patents found for %q.\n", res.Query)
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "ID", "Title", "Inventor", "URL"})
	for i, p := range res.Patents {
		table.Append([]string{
			strconv.Itoa(i + 1),
			p.ID,
			truncateString(p.Title, 50),
			truncateString(p.Inventor, 30),
			p.URL,
		})
	}
	table.Render()

	suffix := ""
	if res.Cached {
		suffix = " (cached)"
	}
	fmt.Fprintf(w, "\nTotal results: %d%s\n", len(res.Patents), suffix)
}

func renderDetail(w io.Writer, res *client.DetailResult) {
	if d := res.Detail; d != nil {
		fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprint("Patent:"), d.ID)
		fmt.Fprintf(w, "Title:    %s\n", d.Title)
		fmt.Fprintf(w, "Inventor: %s\n", d.Inventor)
		if d.Summary != "" {
			fmt.Fprintf(w, "Summary:  %s\n", d.Summary)
		}
	}
	fmt.Fprintln(w)
	if res.Graph == nil {
		fmt.Fprintln(w, "No litigation record for this inventor.")
		return
	}
	renderGraph(w, res.Graph)
}

func renderGraph(w io.Writer, g *client.Graph) {
	if len(g.Nodes) == 0 {
		fmt.Fprintln(w, "Empty graph.")
		return
	}
	root := g.Nodes[0]
	fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprint("Plaintiff:"), color.CyanString(root.ID))
	if len(g.Links) == 0 {
		fmt.Fprintln(w, "No defendants on record.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Defendant"})
	for i, l := range g.Links {
		table.Append([]string{strconv.Itoa(i + 1), l.Target})
	}
	table.Render()
	fmt.Fprintf(w, "\nDefendants: %d\n", len(g.Links))
}

func riskColor(score int) string {
	s := strconv.Itoa(score)
	switch {
	case score >= 8:
		return color.RedString(s)
	case score >= 5:
		return color.YellowString(s)
	default:
		return color.GreenString(s)
	}
}

func renderHolders(w io.Writer, page *client.HolderPage) {
	if len(page.Holders) == 0 {
		fmt.Fprintln(w, "No patent holders found.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Holder", "Country", "Patent", "Tech Field", "Litigations", "Quality", "Value", "Risk"})
	for _, h := range page.Holders {
		table.Append([]string{
			truncateString(h.PatentHolder, 40),
			h.CountryPatentHolder,
			h.GrantDocNumber,
			truncateString(h.TechField, 30),
			strconv.Itoa(h.Litigation),
			strconv.Itoa(h.PatentQuality),
			strconv.Itoa(h.PatentValue),
			riskColor(h.LitigationRisk),
		})
	}
	table.Render()

	p := page.Pagination
	fmt.Fprintf(w, "\nPage %d (size %d)", p.Page, p.PageSize)
	if p.Total > 0 {
		fmt.Fprintf(w, " of %d matches", p.Total)
	}
	fmt.Fprintln(w)
}

//Personal.AI order the ending
