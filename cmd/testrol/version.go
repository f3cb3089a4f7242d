package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version se fija con -ldflags al compilar.
var version = "(devel)"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Imprime la versión",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "testrol", version)
		},
	}
}
