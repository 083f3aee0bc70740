package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang-ifupdown/internal/adapter/ifupdown"
	"golang-ifupdown/internal/adapter/infrastructure/file"
	"golang-ifupdown/internal/adapter/infrastructure/network"
	"golang-ifupdown/internal/adapter/reconcile"
	"golang-ifupdown/internal/pkg/config"
	"golang-ifupdown/internal/pkg/iface"
	"golang-ifupdown/internal/pkg/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errOutOfSync makes the process exit with status 2.
var errOutOfSync = errors.New("one or more interfaces are out of sync")

var rootCmd = &cobra.Command{
	Use:           "golang-ifupdown",
	Short:         "golang-ifupdown keeps ifupdown2 interface stanzas converged on a declarative configuration",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	err := rootCmd.Execute()
	if errors.Is(err, errOutOfSync) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cobra.CheckErr(err)
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "f", "", "Path to config file (YAML, or TOML with a .toml extension)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level, overrides the config file")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (auto, json, text, simple, compact), overrides the config file")

	viper.SetEnvPrefix("ifupdown")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"config", "log-level", "log-format"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err) // This should never happen during initialization
		}
	}
}

// loadInterfaces loads the config file, initializes logging and returns the validated interfaces.
// With no names every configured interface is returned.
func loadInterfaces(names ...string) ([]*iface.Config, error) {
	configPath := viper.GetString("config")
	if configPath == "" {
		return nil, fmt.Errorf("a config file is required (--config or IFUPDOWN_CONFIG)")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logConfig := cfg.Logging
	if level := viper.GetString("log-level"); level != "" {
		logConfig.Level = level
	}
	if format := viper.GetString("log-format"); format != "" {
		logConfig.Format = format
	}
	logging.InitLogger(logConfig)

	var ifaces []*iface.Config
	if len(names) == 0 {
		ifaces, err = cfg.BuildInterfaces()
	} else {
		ifaces, err = buildNamed(cfg, names)
	}
	if err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	logging.WithComponent("cli").WithFields(map[string]interface{}{
		"config_file": configPath,
		"interfaces":  len(ifaces),
	}).Debug("Loaded configuration")
	return ifaces, nil
}

func buildNamed(cfg *config.Config, names []string) ([]*iface.Config, error) {
	ifaces := make([]*iface.Config, 0, len(names))
	for _, name := range names {
		ifaceConfig, err := cfg.BuildInterface(name)
		if err != nil {
			return nil, err
		}
		ifaces = append(ifaces, ifaceConfig)
	}
	return ifaces, nil
}

// createManagers creates a reconcile manager per interface, sharing one stanza store so writes
// to the same file are serialized.
func createManagers(ifaces []*iface.Config, interval time.Duration) ([]*reconcile.Manager, error) {
	store := ifupdown.NewStore(file.NewManagerAdapter())
	networkMgr := network.NewManagerAdapter()

	managers := make([]*reconcile.Manager, 0, len(ifaces))
	for _, ifaceConfig := range ifaces {
		manager, err := reconcile.NewManager(ifaceConfig, store, networkMgr, interval)
		if err != nil {
			return nil, fmt.Errorf("interface %s: %w", ifaceConfig.Name, err)
		}
		managers = append(managers, manager)
	}
	return managers, nil
}
