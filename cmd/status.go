package cmd

import (
	"context"
	"fmt"

	"golang-ifupdown/internal/pkg/convergence"
	"golang-ifupdown/internal/pkg/logging"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [interface...]",
	Short: "Report whether each interface stanza matches its desired configuration",
	Long: "Report insync or outofsync per interface, followed by no-link when the kernel has no such interface. " +
		"Exits with status 2 when any interface is out of sync.",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ifaces, err := loadInterfaces(args...)
		if err != nil {
			return err
		}
		managers, err := createManagers(ifaces, 0)
		if err != nil {
			return err
		}

		ctx := context.Background()
		outOfSync := false
		var failed int
		for _, manager := range managers {
			status, err := manager.Status(ctx)
			if err != nil {
				logging.WithComponentAndInterface("cli", manager.GetInterfaceName()).WithError(err).Error("Failed to evaluate interface")
				fmt.Fprintf(cmd.OutOrStdout(), "%s\terror\n", manager.GetInterfaceName())
				failed++
				continue
			}
			if status == convergence.OutOfSync {
				outOfSync = true
			}
			line := fmt.Sprintf("%s\t%s", manager.GetInterfaceName(), status)
			if !manager.LinkPresent() {
				line += "\tno-link"
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}

		if failed > 0 {
			return fmt.Errorf("failed to evaluate %d interface(s)", failed)
		}
		if outOfSync {
			return errOutOfSync
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
