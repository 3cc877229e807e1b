package cli

import (
	"fmt"
	"strings"

	"github.com/law-makers/nutricrawl/internal/crawler"
	"github.com/law-makers/nutricrawl/internal/ui"
	"github.com/spf13/cobra"
)

// sitesCmd represents the sites command
var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the built-in site profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		profiles := crawler.Builtin()

		width := 0
		for _, p := range profiles {
			width = max(width, len(p.Name))
		}
		for _, p := range profiles {
			marker := " "
			if p.Name == crawler.DefaultSite {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s%s%s  %s%-6s%s  %s\n",
				marker,
				ui.ColorCyan, p.Name+strings.Repeat(" ", width-len(p.Name)), ui.ColorReset,
				ui.ColorYellow, p.Kind, ui.ColorReset,
				p.RootURL)
			if p.Description != "" {
				fmt.Fprintf(out, "  %s%s\n", strings.Repeat(" ", width+10), ui.Dim(p.Description))
			}
		}
		fmt.Fprintf(out, "\n%s\n", ui.Dim("* default when no target is given"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}
