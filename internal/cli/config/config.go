// Package config loads and validates the scanner configuration from
// defaults, an optional YAML config file, environment variables and
// command-line flags, in ascending priority.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/evildarkarchon/ClassicLib/pkg/scanner"
)

const (
	EnvPrefix         = "CLASSICLIB"
	DefaultConfigName = "classiclib"
	DefaultGame       = "fallout4"
)

// backupDirParts names the default relocation destination, created
// under the current working directory. The report text references this
// location, so it only changes together with the cleanup template.
var backupDirParts = []string{"CLASSIC Backup", "Cleaned Files"}

// LoadAndValidate loads configuration from all sources, validates the
// merged result, resolves the game database entry and sets up the
// logger. Returns the populated Options struct ready for
// scanner.NewEngine.
func LoadAndValidate(cfgFile, appVersion string, verbose bool, flags *pflag.FlagSet) (scanner.Options, *slog.Logger, error) {
	var opts scanner.Options
	v := viper.New()

	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			tempLogger.Error("Failed to get user home directory", slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("failed to get user home directory: %w", err)
		}
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
		v.AddConfigPath(filepath.Join(home, "."+DefaultConfigName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			tempLogger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			used := cfgFile
			if used == "" {
				used = fmt.Sprintf("searched locations for %s.yaml", DefaultConfigName)
			}
			tempLogger.Error("Error reading configuration file", slog.String("path", used), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error reading config file '%s': %w", used, err)
		}
	} else {
		opts.ConfigFilePath = v.ConfigFileUsed()
		tempLogger.Debug("Using configuration file", slog.String("path", opts.ConfigFilePath))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Each flag binds under the canonical config key its Options field
	// unmarshals from, not under its flag spelling.
	flagBindings := map[string]string{
		"modsPath":     "mods",
		"backupPath":   "backup",
		"logsPath":     "logs",
		"toolPath":     "tool",
		"game":         "game",
		"gameDatabase": "game-database",
		"dryRun":       "dry-run",
		"outputFormat": "output-format",
		"verbose":      "verbose",
	}
	for key, flagName := range flagBindings {
		flag := flags.Lookup(flagName)
		if flag == nil {
			tempLogger.Debug("Flag lookup failed during binding", slog.String("flag", flagName))
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			tempLogger.Error("Error binding flag", slog.String("flag", flagName), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("error binding flag '--%s': %w", flagName, err)
		}
	}
	opts.AppVersion = appVersion

	if err := v.Unmarshal(&opts); err != nil {
		tempLogger.Error("Error unmarshalling configuration", slog.Any("error", err))
		return opts, tempLogger, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Explicit flag values for core paths take absolute precedence.
	if flags.Changed("mods") {
		if val, _ := flags.GetString("mods"); val != "" {
			opts.ModsPath = val
		}
	}
	if flags.Changed("backup") {
		if val, _ := flags.GetString("backup"); val != "" {
			opts.BackupPath = val
		}
	}
	if flags.Changed("verbose") {
		opts.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("dry-run") {
		opts.DryRun, _ = flags.GetBool("dry-run")
	}
	if verbose {
		opts.Verbose = true
	}

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logHandler)
	opts.Logger = logHandler

	game := v.GetString("game")
	info, err := LookupGame(v.GetString("gameDatabase"), game)
	if err != nil {
		logger.Error("Game lookup failed", slog.String("game", game), slog.Any("error", err))
		return opts, logger, fmt.Errorf("%w: %w", scanner.ErrSettingsValidation, err)
	}
	opts.XSEAcronym = info.XSEAcronym
	opts.XSEScriptFiles = info.XSEScriptFiles

	if err := validateAndDerive(&opts, logger); err != nil {
		return opts, logger, err
	}

	logger.Debug("Configuration loading and validation complete",
		slog.String("configFile", opts.ConfigFilePath),
		slog.String("game", game),
		slog.Bool("verbose", opts.Verbose),
		slog.String("logLevel", logLevel.String()),
	)
	return opts, logger, nil
}

// setDefaults establishes the default values for configuration options
// in Viper, keyed by the Options mapstructure tags.
func setDefaults(v *viper.Viper) {
	v.SetDefault("modsPath", "")
	v.SetDefault("backupPath", "")
	v.SetDefault("logsPath", "")
	v.SetDefault("toolPath", "")
	v.SetDefault("game", DefaultGame)
	v.SetDefault("gameDatabase", "")
	v.SetDefault("dryRun", false)
	v.SetDefault("outputFormat", string(scanner.OutputFormatText))
	v.SetDefault("verbose", false)

	v.SetDefault("catchLogErrors", []string{"critical", "error", "failed"})
	v.SetDefault("excludeLogFiles", []string{"cbpfo4"})
	v.SetDefault("excludeLogErrors", []string{
		"failed to get next record",
		"failed to open pdb",
		"failed to register method",
		"keybind",
		"no errors with this",
		"unable to locate pdb",
	})

	v.SetDefault("warnings.modsPathMissing", "")
	v.SetDefault("warnings.modsPathInvalid", "")
	v.SetDefault("warnings.toolMissing", "")
}

// validateAndDerive performs semantic validation on the populated
// Options struct and calculates derived fields. Errors wrap
// scanner.ErrSettingsValidation. A missing mods path is allowed here;
// the engine degrades it into a report warning.
func validateAndDerive(opts *scanner.Options, logger *slog.Logger) error {
	if opts.ModsPath != "" {
		abs, err := filepath.Abs(opts.ModsPath)
		if err != nil {
			err = fmt.Errorf("%w: cannot resolve absolute mods path '%s': %w", scanner.ErrSettingsValidation, opts.ModsPath, err)
			logger.Error(err.Error(), slog.String("key", "modsPath"))
			return err
		}
		opts.ModsPath = abs
	}

	if opts.BackupPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("%w: cannot determine working directory for backup path: %w", scanner.ErrSettingsValidation, err)
		}
		opts.BackupPath = filepath.Join(append([]string{wd}, backupDirParts...)...)
		logger.Debug("Backup path not set, using default", slog.String("path", opts.BackupPath))
	} else {
		abs, err := filepath.Abs(opts.BackupPath)
		if err != nil {
			err = fmt.Errorf("%w: cannot resolve absolute backup path '%s': %w", scanner.ErrSettingsValidation, opts.BackupPath, err)
			logger.Error(err.Error(), slog.String("key", "backupPath"))
			return err
		}
		opts.BackupPath = abs
	}

	if opts.ModsPath != "" && opts.BackupPath == opts.ModsPath {
		err := fmt.Errorf("%w: backup path must not equal the mods path", scanner.ErrSettingsValidation)
		logger.Error(err.Error(), slog.String("key", "backupPath"))
		return err
	}

	if opts.LogsPath != "" {
		abs, err := filepath.Abs(opts.LogsPath)
		if err != nil {
			err = fmt.Errorf("%w: cannot resolve absolute logs path '%s': %w", scanner.ErrSettingsValidation, opts.LogsPath, err)
			logger.Error(err.Error(), slog.String("key", "logsPath"))
			return err
		}
		opts.LogsPath = abs
	}

	switch opts.OutputFormat {
	case "", scanner.OutputFormatText, scanner.OutputFormatJSON:
	default:
		err := fmt.Errorf("%w: invalid value '%s' for key 'outputFormat' (flag --output-format). Allowed: [text json]",
			scanner.ErrSettingsValidation, opts.OutputFormat)
		logger.Error(err.Error(), slog.String("key", "outputFormat"), slog.String("value", string(opts.OutputFormat)))
		return err
	}
	return nil
}
