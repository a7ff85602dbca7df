// =============================================================================
// KCD2 Item Exporter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Running the root
// command without a subcommand performs an export.
//
// COBRA CLI STRUCTURE:
//   rootCmd (kcd2items)          export with the current configuration
//   ├── exportCmd (export)       same as the root command
//   ├── watchCmd (watch)         export, then re-export on input changes
//   ├── inspectCmd (inspect)     print the structure of a workbook
//   └── versionCmd (version)
//
// CONFIGURATION:
//   Before any command runs, the root command:
//   1. Loads kcd2items.yaml (or the --config file)
//   2. Applies command-line overrides
//   3. Sets up logging and stores the logger in the command context
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/kcd2items/internal/config"
	"github.com/ginjaninja78/kcd2items/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig is the configuration loaded by initConfig.
var appConfig *config.Config

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "kcd2items",
	Short: "KCD2 Item Exporter - Convert item list text files into an Excel workbook",
	Long: `KCD2 Item Exporter reads item list text files (item*.txt) and writes one
Excel workbook with a worksheet per file and a styled table per section.

Item file format:
  // comment
  === Swords ===
  Longsword [wpn_long01] damage=45 weight=3.2

Example Usage:
  kcd2items                          # Export item*.txt in the current directory
  kcd2items export -o out.xlsx       # Export to a different workbook
  kcd2items watch                    # Re-export whenever an item file changes
  kcd2items inspect KCD2Items.xlsx   # Show what a workbook contains`,

	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), cmd.OutOrStdout(), appConfig)
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	addExportFlags(rootCmd)
}

// initConfig loads the configuration and sets up logging for every command.
// A missing default config file is fine; a missing --config file is not.
func initConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	applyExportFlags(cmd, cfg)
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:  level,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	slog.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

	appConfig = cfg
	return nil
}
