package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arrange/pkg/layout"
)

// algorithmInfo is the JSON form of one catalog entry.
type algorithmInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// algorithmsCommand creates the algorithms command listing the catalog.
func (c *CLI) algorithmsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "algorithms",
		Aliases: []string{"algos"},
		Short:   "List the supported layout algorithms",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(algorithmInfos())
			}
			fmt.Println(algorithmTable(layout.Algorithm(c.cfg.Layout.Algorithm)))
			printDetail("* default")
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func algorithmInfos() []algorithmInfo {
	algos := layout.List()
	out := make([]algorithmInfo, len(algos))
	for i, a := range algos {
		name, desc := layout.Describe(a)
		out[i] = algorithmInfo{ID: string(a), Name: name, Description: desc}
	}
	return out
}
