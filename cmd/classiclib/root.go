package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/evildarkarchon/ClassicLib/internal/cli"
	"github.com/evildarkarchon/ClassicLib/internal/cli/config"
	"github.com/evildarkarchon/ClassicLib/pkg/scanner"
)

var (
	// These are set during build time using -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Flags persistent across commands
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "classiclib --mods <stagingDir>",
	Short: "Scans game mod files for installation problems.",
	Long: `classiclib inspects an unpacked mod staging folder and its BA2
archives for patterns known to break the game or its script extender.

It detects:
  - Archives with an invalid header format.
  - DDS textures with odd dimensions, and textures in TGA/PNG format.
  - Sound files in unplayable formats (MP3, M4A).
  - Stray copies of script extender scripts inside mods.
  - Loose precombine/previs data and custom animation file data.
  - Errors recorded in tool log files.

Documentation files and fomod folders are relocated to a backup
directory so mod managers do not deploy them into the game.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		opts, logger, err := config.LoadAndValidate(cfgFile, version, verbose, cmd.Flags())
		if err != nil {
			return err
		}

		// Give the progress bar a beat to initialize before worker
		// output starts.
		if term.IsTerminal(int(os.Stderr.Fd())) && !verbose {
			time.Sleep(100 * time.Millisecond)
		}

		return cli.Run(ctx, opts, logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	rootCmd.SetVersionTemplate(`{{.Use}} version {{.Version}}` + "\n")
	// Cobra prints the error; the exit code is ours to set.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init registers flags for the root command.
func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default is search standard locations like ., $HOME/.config/classiclib/)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging output (disables the progress bar)")

	rootCmd.PersistentFlags().StringP("mods", "m", "", "Staging mods folder path to scan.")

	rootCmd.Flags().StringP("backup", "b", "", `Backup directory for relocated files (default "<cwd>/CLASSIC Backup/Cleaned Files")`)
	rootCmd.Flags().String("logs", "", "Folder whose *.log files are checked for recorded errors")
	rootCmd.Flags().String("tool", "", "Path to the BSArch executable used for archive inspection")
	rootCmd.Flags().String("game", config.DefaultGame, "Game key selecting the script extender database entry")
	rootCmd.Flags().String("game-database", "", "YAML file overriding or extending the built-in game database")
	rootCmd.Flags().Bool("dry-run", false, "Report cleanup candidates without moving any files")
	rootCmd.Flags().String("output-format", string(scanner.OutputFormatText), `Final report format ("text", "json")`)
}
