package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MacroPower/kwait/pkg/jsonschema"
)

// NewSchemaCmd returns the schema command.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "schema",
		Short:        "Print the JSON Schema of scenario files",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			js, err := jsonschema.ScenarioSchema()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}

			cc.Println(string(js))

			return nil
		},
	}
}
