package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/owndesign/owndesign/internal/settings"
	"github.com/spf13/cobra"
)

var fieldsOutputFormat string

type fieldDisplay struct {
	ID        string `json:"id"`
	Attribute string `json:"attribute"`
	Label     string `json:"label"`
	Kind      string `json:"kind"`
	Default   string `json:"default"`
}

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the design fields",
	Long: `List every field of the design form with the profile attribute it is
stored in and its default value.

Examples:
  owndesign-cli fields
  owndesign-cli fields --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := settings.Fields()
		rows := make([]fieldDisplay, 0, len(fields))
		for _, f := range fields {
			rows = append(rows, fieldDisplay{
				ID:        f.ID(),
				Attribute: f.Attribute(),
				Label:     f.Label(),
				Kind:      f.Kind().String(),
				Default:   f.Default(),
			})
		}

		out := cmd.OutOrStdout()
		switch fieldsOutputFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		case "table":
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tATTRIBUTE\tKIND\tDEFAULT\tLABEL")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Attribute, r.Kind, r.Default, r.Label)
			}
			return w.Flush()
		default:
			return fmt.Errorf("unknown format %q, expected table or json", fieldsOutputFormat)
		}
	},
}

func init() {
	fieldsCmd.Flags().StringVarP(&fieldsOutputFormat, "format", "f", "table", "Output format (table, json)")
	rootCmd.AddCommand(fieldsCmd)
}
