package main

import (
	"github.com/spf13/cobra"

	"test-rol/internal/questionnaire"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "testrol",
		Short:         "Test de rol: puntúa cuestionarios de 37 preguntas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("catalog", "", "Archivo YAML con el catálogo de preguntas (por defecto el incorporado)")

	root.AddCommand(newScoreCmd())
	root.AddCommand(newTakeCmd())
	root.AddCommand(newCatalogCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// resolveCatalog usa --catalog si se indicó; si no, el catálogo incorporado.
func resolveCatalog(cmd *cobra.Command) (*questionnaire.Catalog, error) {
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		return questionnaire.LoadCatalog(p)
	}
	return questionnaire.DefaultCatalog(), nil
}
