package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/owndesign/owndesign/internal/settings"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <profile.json>",
	Short: "Show the design a stored profile renders to",
	Long: `Read a profile record exported as JSON (attribute names as stored in the
database) and print the styles the portfolio page would use. Missing or
malformed attributes fall back to their defaults, exactly as in the editor.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read profile: %w", err)
		}
		var attrs map[string]any
		if err := json.Unmarshal(data, &attrs); err != nil {
			return fmt.Errorf("decode profile: %w", err)
		}

		p := settings.Render(settings.DefaultValues().Apply(attrs))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "name:       %s\n", p.Name)
		fmt.Fprintf(out, "bio:        %s\n", p.Bio)
		fmt.Fprintf(out, "container:  %s\n", p.ContainerStyle())
		fmt.Fprintf(out, "text:       %s\n", p.TextStyle())
		fmt.Fprintf(out, "gallery:    %s\n", p.GalleryStyle())
		fmt.Fprintf(out, "effect:     %s\n", p.Effect.Label())
		fmt.Fprintf(out, "avatar:     %s %s\n", p.AvatarFrame.Class, p.AvatarFrame.Style())
		fmt.Fprintf(out, "images:     %s %s\n", p.ImageFrame.Class, p.ImageFrame.Style())
		for _, f := range settings.Fields() {
			if badge := p.Badge(f); badge != "" {
				fmt.Fprintf(out, "  %-18s %s\n", f.ID(), badge)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
