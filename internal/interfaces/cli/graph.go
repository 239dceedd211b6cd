package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph <name>",
		Short: "Show the litigation graph rooted at a plaintiff",
		Long: "Print every defendant sued by the named inventor or company. The name must\n" +
			"match a plaintiff exactly.",
		Example:     `  litigraph graph "Acme Corp" -o json`,
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{annotationNeeds: needGraph},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return errors.InvalidParam("name must not be empty")
			}

			ctx, cancel := cc.withTimeout(cmd)
			defer cancel()
			g, err := cc.Backend.Graph(ctx, name)
			if err != nil {
				return err
			}
			if g == nil {
				return errors.NotFound(fmt.Sprintf("no litigation record names %q", name))
			}
			if cc.Options.OutputFormat == OutputJSON {
				return printJSON(cmd.OutOrStdout(), g)
			}
			renderGraph(cmd.OutOrStdout(), g)
			return nil
		},
	}
}

//Personal.AI order the ending
