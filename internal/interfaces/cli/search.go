package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/patent-litigation-graph/pkg/client"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search patents by keyword",
		Long: "Search the patent API and enrich every hit with its detail page. When the\n" +
			"patent API is down the search succeeds with no results and a warning.",
		Example:     `  litigraph search "graphene battery"`,
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{annotationNeeds: needGraph + "," + needUpstream},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.InvalidParam("query must not be empty")
			}

			ctx, cancel := cc.withTimeout(cmd)
			defer cancel()
			res, err := cc.Backend.SearchPatents(ctx, query)
			if err != nil {
				return err
			}
			if res.Patents == nil {
				res.Patents = []*client.Patent{}
			}
			if cc.Options.OutputFormat == OutputJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			renderPatents(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newPatentCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "patent <id>",
		Short:       "Show a patent and the litigation graph of its inventor",
		Example:     `  litigraph patent US7654321B2`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationNeeds: needGraph + "," + needUpstream},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := cc.withTimeout(cmd)
			defer cancel()
			res, err := cc.Backend.Patent(ctx, strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			if cc.Options.OutputFormat == OutputJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			renderDetail(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

//Personal.AI order the ending
