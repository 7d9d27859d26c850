// Package vellumcmder
package vellumcmder

import (
	"github.com/spf13/cobra"

	servecmder "github.com/vellumhq/vellum/cmd/vellum/serve"
	versioncmder "github.com/vellumhq/vellum/cmd/vellum/version"
)

const vellumLongDesc string = `Vellum answers natural-language questions about policy documents.

Run the service using:
  vellum serve         Run the query API server`

const vellumShortDesc string = "Vellum - Document Question Answering"

func NewVellumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vellum",
		Short: vellumShortDesc,
		Long:  vellumLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
