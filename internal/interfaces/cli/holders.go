package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/patent-litigation-graph/internal/application/holder"
	"github.com/turtacn/patent-litigation-graph/pkg/client"
)

type holdersOptions struct {
	page     int
	pageSize int
}

func newHoldersCmd() *cobra.Command {
	o := &holdersOptions{}
	cmd := &cobra.Command{
		Use:   "holders [query]",
		Short: "Browse the patent holder registry",
		Long: "List registry rows whose holder name contains query, case-insensitively.\n" +
			"Without a query every row is listed.",
		Example:     `  litigraph holders acme --page 2 --page-size 50`,
		Annotations: map[string]string{annotationNeeds: needHolders},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			query := strings.TrimSpace(strings.Join(args, " "))

			ctx, cancel := cc.withTimeout(cmd)
			defer cancel()
			page, err := cc.Backend.SearchHolders(ctx, query, o.page, o.pageSize)
			if err != nil {
				return err
			}
			if page.Holders == nil {
				page.Holders = []*client.PatentHolder{}
			}
			if cc.Options.OutputFormat == OutputJSON {
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"holders":    page.Holders,
					"pagination": page.Pagination,
				})
			}
			renderHolders(cmd.OutOrStdout(), page)
			return nil
		},
	}
	cmd.Flags().IntVar(&o.page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&o.pageSize, "page-size", holder.DefaultPageSize, "rows per page")
	return cmd
}

//Personal.AI order the ending
