package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/patent-litigation-graph/internal/domain/litigation"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Load litigation records into the graph store",
		Long: "Read a JSON array of litigation records and upsert them into Neo4j.\n" +
			"Use - to read from stdin. Each record looks like:\n\n" +
			`  {"id": "case-1", "plaintiffs": ["Acme Corp"], "defendants": [["Globex"]]}`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationNeeds: needGraph},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			records, err := readRecords(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			ctx, cancel := cc.withTimeout(cmd)
			defer cancel()
			n, err := cc.Backend.Import(ctx, records)
			if err != nil {
				return err
			}
			if cc.Options.OutputFormat == OutputJSON {
				return printJSON(cmd.OutOrStdout(), map[string]int{"imported": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s imported %d litigation records\n", color.GreenString("OK:"), n)
			return nil
		},
	}
}

func readRecords(stdin io.Reader, path string) ([]litigation.Record, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "cannot open import file").WithDetail(path)
		}
		defer f.Close()
		r = f
	}

	var records []litigation.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBadRequest, "import file is not a JSON array of records").WithDetail(path)
	}
	return records, nil
}

//Personal.AI order the ending
