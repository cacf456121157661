package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/cli/migrate"
	"github.com/fabioff30/corretor-ia-v0-sub002/internal/interfaces/cli/server"
)

//	@title						CorretorIA Payments API
//	@version					1.0
//	@description				PIX checkout and premium activation for CorretorIA.
//	@BasePath					/
//	@securityDefinitions.apikey	Bearer
//	@in							header
//	@name						Authorization

func main() {
	rootCmd := &cobra.Command{
		Use:   "corretor",
		Short: "CorretorIA payments service",
		Long:  `Payments service for CorretorIA: PIX checkout, webhook intake and premium activation.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
