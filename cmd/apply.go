package cmd

import (
	"context"
	"fmt"
	"sync"

	"golang-ifupdown/internal/adapter/reconcile"
	"golang-ifupdown/internal/pkg/convergence"
	"golang-ifupdown/internal/pkg/logging"

	"github.com/spf13/cobra"
)

type convergeResult struct {
	name   string
	status convergence.SyncStatus
	err    error
}

var applyCmd = &cobra.Command{
	Use:   "apply [interface...]",
	Short: "Write the stanza of every interface that is out of sync",
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

		results := convergeAll(context.Background(), managers)

		var failed int
		for _, r := range results {
			if r.err != nil {
				logging.WithComponentAndInterface("cli", r.name).WithError(r.err).Error("Failed to converge interface")
				failed++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.name, r.status)
		}
		if failed > 0 {
			return fmt.Errorf("failed to converge %d interface(s)", failed)
		}
		return nil
	},
}

// convergeAll converges every manager concurrently and returns results in manager order.
func convergeAll(ctx context.Context, managers []*reconcile.Manager) []convergeResult {
	results := make([]convergeResult, len(managers))

	var wg sync.WaitGroup
	for i, manager := range managers {
		wg.Add(1)
		go func(i int, mgr *reconcile.Manager) {
			defer wg.Done()
			status, err := mgr.Converge(ctx)
			results[i] = convergeResult{name: mgr.GetInterfaceName(), status: status, err: err}
		}(i, manager)
	}
	wg.Wait()

	return results
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
