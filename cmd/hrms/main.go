package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Tatu1984/hrms-sub001/internal/interfaces/cli/alerts"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/cli/migrate"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/cli/recalc"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/cli/server"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/cli/token"
	"github.com/Tatu1984/hrms-sub001/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "hrms",
		Short:   "HRMS attendance service",
		Version: version.Build,
		Long:    `hrms runs the attendance API and its maintenance tools: migrations, work-hours recalculation, token issuing and alert watching.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		recalc.NewCommand(),
		token.NewCommand(),
		alerts.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
