package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"prompt-studio/internal/framework"
)

func newFrameworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "frameworks",
		Short: "List the prompt frameworks.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMEDIUM\tSECTIONS")
			for _, fw := range framework.All() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", fw.ID, fw.Name, fw.Medium, strings.Join(fw.Titles(), ", "))
			}
			return w.Flush()
		},
	}
}
