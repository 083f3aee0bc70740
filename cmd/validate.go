package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [interface...]",
	Short: "Validate the configured interfaces, or only the named ones",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ifaces, err := loadInterfaces(args...)
		if err != nil {
			return err
		}
		for _, ifaceConfig := range ifaces {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tvalid\t%s\n", ifaceConfig.Name, ifaceConfig.Path())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
