package cmd

import (
	"github.com/spf13/cobra"

	"github.com/gml/skins/internal/di"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts HTTP handler for the skins system",
	RunE: func(cmd *cobra.Command, args []string) error {
		return startServer(di.ModuleSkinsystem, di.ModuleApi)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
