// Package main provides the palletline CLI, the station-side tool for
// recording drum scans and closing pallets.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pryzera/palletline/internal/ledger"
	"github.com/pryzera/palletline/pkg/types"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// cfg, store and repo are initialized on startup and shared by all
	// subcommands.
	cfg   appConfig
	store types.Store
	repo  *ledger.Repository
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "palletline",
	Short: "Palletline tracks drums onto pallets",
	Long: `Palletline is the station-side tool for the drum rewinding line.
It records scanned drums against the open pallet for a material, closes
pallets when they reach capacity, and exports the recorded history.`,
	PersistentPreRunE:  openLedger,
	PersistentPostRunE: closeLedger,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(finalizeCmd)
	rootCmd.AddCommand(materialsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(reportCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configured backend",
	Long:  `Open the configured backend and create the four record collections.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Collections are created by PersistentPreRunE; just confirm.
		fmt.Printf("palletline initialized (%s backend)\n", cfg.Store.Backend)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("palletline v0.1.0")
	},
}

// openLedger loads config, opens the backend and the repository.
func openLedger(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	var err error
	if cfg, err = loadConfig(configFile); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// login and hash-secret need config but no backend.
	switch cmd.Name() {
	case "login", "hash-secret":
		return nil
	}

	if err = cfg.Store.Validate(); err != nil {
		return err
	}
	if store, err = openStore(cfg.Store); err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Store.Backend, err)
	}
	if repo, err = ledger.New(store); err != nil {
		store.Close()
		return fmt.Errorf("open ledger: %w", err)
	}
	return nil
}

// closeLedger releases the backend.
func closeLedger(cmd *cobra.Command, args []string) error {
	if store != nil {
		return store.Close()
	}
	return nil
}
