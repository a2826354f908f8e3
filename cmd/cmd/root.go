package cmd

import (
	"github.com/ostafen/fwunpack/internal/env"
	"github.com/spf13/cobra"
)

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   env.AppName,
		Short: env.AppName + " - recursive firmware image unpacker",
	}

	rootCmd.AddCommand(
		DefineUnpackCommand(),
		DefineDetectCommand(),
		DefineFormatsCommand(),
		DefineReportCommand(),
	)
	return rootCmd.Execute()
}
