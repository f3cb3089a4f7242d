package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"test-rol/internal/domain"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Lista las preguntas del catálogo",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := resolveCatalog(cmd)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			out := cmd.OutOrStdout()
			if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
				return catalog.WriteYAML(out)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tCAT\tPREGUNTA")
			for _, q := range catalog.Questions() {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", q.Index+1, q.Category, q.Text)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			counts := catalog.Counts()
			for _, c := range domain.Categories() {
				role, _ := domain.RoleFor(c)
				fmt.Fprintf(out, "%s (%s): %d preguntas\n", c, role.Name, counts[c])
			}
			return nil
		},
	}
	cmd.Flags().Bool("yaml", false, "Imprime el catálogo en formato YAML")
	return cmd
}
