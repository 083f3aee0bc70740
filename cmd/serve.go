package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang-ifupdown/internal/pkg/logging"
	"golang-ifupdown/internal/port"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var intervalFlag time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Converge all interfaces and keep re-converging them on drift",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ifaces, err := loadInterfaces()
		if err != nil {
			return err
		}

		logger := logging.WithComponent("cli")
		logger.WithField("config_file", viper.GetString("config")).Info("Starting daemon")

		// Create context for graceful shutdown
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigChan
			logger.WithField("signal", sig.String()).Info("Received shutdown signal")
			cancel()
		}()

		reconcilers, err := createManagers(ifaces, intervalFlag)
		if err != nil {
			return err
		}

		managers := make([]port.NetworkConfigurationManager, 0, len(reconcilers))
		for _, r := range reconcilers {
			managers = append(managers, r)
		}

		logger.WithField("manager_count", len(managers)).Info("Starting interface managers")

		// Start all managers concurrently
		var wg sync.WaitGroup
		for _, manager := range managers {
			wg.Add(1)
			go func(mgr port.NetworkConfigurationManager) {
				defer wg.Done()

				if err := mgr.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logging.WithInterface(mgr.GetInterfaceName()).WithError(err).Error("Interface manager failed")
				}
			}(manager)
		}

		// Wait for all managers to complete
		wg.Wait()
		logger.Info("All interface managers stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().DurationVar(&intervalFlag, "interval", 30*time.Second, "How often each interface is re-evaluated")
	rootCmd.AddCommand(serveCmd)
}
