package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evildarkarchon/ClassicLib/internal/cli/config"
	"github.com/evildarkarchon/ClassicLib/pkg/scanner"
)

// chdirTemp runs the test from a fresh temporary directory so the
// default backup path derivation never touches the real working tree.
func chdirTemp(t *testing.T) string {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

// newFlagSet mirrors the flag definitions of the root command.
func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.StringP("mods", "m", "", "")
	fs.StringP("backup", "b", "", "")
	fs.String("logs", "", "")
	fs.String("tool", "", "")
	fs.String("game", config.DefaultGame, "")
	fs.String("game-database", "", "")
	fs.Bool("dry-run", false, "")
	fs.String("output-format", string(scanner.OutputFormatText), "")
	return fs
}

func TestLoadAndValidateDefaults(t *testing.T) {
	chdirTemp(t)
	fs := newFlagSet()

	opts, logger, err := config.LoadAndValidate("", "1.0.0-test", false, fs)
	require.NoError(t, err)
	require.NotNil(t, logger)

	assert.Empty(t, opts.ModsPath)
	assert.Equal(t, scanner.OutputFormatText, opts.OutputFormat)
	assert.Equal(t, "F4SE", opts.XSEAcronym)
	assert.Contains(t, opts.XSEScriptFiles, "F4SE.pex")
	assert.Contains(t, opts.CatchLogErrors, "error")
	assert.Equal(t, "1.0.0-test", opts.AppVersion)

	assert.True(t, strings.HasSuffix(filepath.ToSlash(opts.BackupPath), "CLASSIC Backup/Cleaned Files"),
		"default backup path must end in the documented location, got %s", opts.BackupPath)
}

func TestLoadAndValidateFlagOverrides(t *testing.T) {
	chdirTemp(t)
	mods := t.TempDir()
	backup := filepath.Join(t.TempDir(), "backup")

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{
		"--mods", mods,
		"--backup", backup,
		"--game", "skyrimse",
		"--dry-run",
		"--output-format", "json",
	}))

	opts, _, err := config.LoadAndValidate("", "dev", false, fs)
	require.NoError(t, err)

	assert.Equal(t, mods, opts.ModsPath)
	assert.Equal(t, backup, opts.BackupPath)
	assert.Equal(t, "SKSE", opts.XSEAcronym)
	assert.True(t, opts.DryRun)
	assert.Equal(t, scanner.OutputFormatJSON, opts.OutputFormat)
}

func TestLoadAndValidatePathFlagsReachOptions(t *testing.T) {
	chdirTemp(t)
	logs := t.TempDir()
	tool := filepath.Join(t.TempDir(), "bsarch")
	dbPath := filepath.Join(t.TempDir(), "games.yaml")
	db := `games:
  fallout4:
    name: Fallout 4
    xseAcronym: F4SE-DB
    xseScriptFiles: [FromDB.pex]
`
	require.NoError(t, os.WriteFile(dbPath, []byte(db), 0o644))

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{
		"--logs", logs,
		"--tool", tool,
		"--game-database", dbPath,
	}))

	opts, _, err := config.LoadAndValidate("", "dev", false, fs)
	require.NoError(t, err)

	assert.Equal(t, logs, opts.LogsPath)
	assert.Equal(t, tool, opts.ToolPath)
	assert.Equal(t, "F4SE-DB", opts.XSEAcronym, "game database flag must feed the lookup")
	assert.Equal(t, []string{"FromDB.pex"}, opts.XSEScriptFiles)
}

func TestLoadAndValidateConfigFile(t *testing.T) {
	chdirTemp(t)
	mods := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "classiclib.yaml")
	cfg := "modsPath: " + mods + "\n" +
		"outputFormat: json\n" +
		"catchLogErrors:\n  - exception\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	fs := newFlagSet()
	opts, _, err := config.LoadAndValidate(cfgPath, "dev", false, fs)
	require.NoError(t, err)

	assert.Equal(t, mods, opts.ModsPath)
	assert.Equal(t, scanner.OutputFormatJSON, opts.OutputFormat)
	assert.Equal(t, []string{"exception"}, opts.CatchLogErrors)
	assert.Equal(t, cfgPath, opts.ConfigFilePath)
}

func TestLoadAndValidateMissingExplicitConfigFile(t *testing.T) {
	fs := newFlagSet()
	_, _, err := config.LoadAndValidate(filepath.Join(t.TempDir(), "nope.yaml"), "dev", false, fs)
	assert.Error(t, err)
}

func TestLoadAndValidateInvalidOutputFormat(t *testing.T) {
	chdirTemp(t)
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--output-format", "xml"}))

	_, _, err := config.LoadAndValidate("", "dev", false, fs)
	assert.ErrorIs(t, err, scanner.ErrSettingsValidation)
}

func TestLoadAndValidateUnknownGame(t *testing.T) {
	chdirTemp(t)
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--game", "oblivion"}))

	_, _, err := config.LoadAndValidate("", "dev", false, fs)
	assert.ErrorIs(t, err, scanner.ErrSettingsValidation)
}

func TestLoadAndValidateVerboseArgument(t *testing.T) {
	chdirTemp(t)
	fs := newFlagSet()

	opts, _, err := config.LoadAndValidate("", "dev", true, fs)
	require.NoError(t, err)
	assert.True(t, opts.Verbose)
}

func TestLookupGame(t *testing.T) {
	t.Run("Builtin", func(t *testing.T) {
		info, err := config.LookupGame("", "Fallout4")
		require.NoError(t, err)
		assert.Equal(t, "F4SE", info.XSEAcronym)
		assert.NotEmpty(t, info.XSEScriptFiles)
	})

	t.Run("DatabaseFileOverride", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "games.yaml")
		db := `games:
  fallout4:
    name: Fallout 4 (custom)
    xseAcronym: F4SE-X
    xseScriptFiles: [Custom.pex]
`
		require.NoError(t, os.WriteFile(dbPath, []byte(db), 0o644))

		info, err := config.LookupGame(dbPath, "fallout4")
		require.NoError(t, err)
		assert.Equal(t, "F4SE-X", info.XSEAcronym)
		assert.Equal(t, []string{"Custom.pex"}, info.XSEScriptFiles)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := config.LookupGame("", "morrowind")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "supported:")
	})

	t.Run("UnreadableDatabase", func(t *testing.T) {
		_, err := config.LookupGame(filepath.Join(t.TempDir(), "nope.yaml"), "fallout4")
		assert.Error(t, err)
	})
}
