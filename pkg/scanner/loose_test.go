package scanner_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/evildarkarchon/ClassicLib/internal/testutil"
	"github.com/evildarkarchon/ClassicLib/pkg/scanner"
)

func looseOptions(t *testing.T, mods string) scanner.Options {
	t.Helper()
	return scanner.Options{
		ModsPath:       mods,
		BackupPath:     filepath.Join(t.TempDir(), "Backup", "Cleaned Files"),
		XSEAcronym:     "F4SE",
		XSEScriptFiles: []string{"Actor.pex", "F4SE.pex"},
	}
}

func newLooseEngine(t *testing.T, opts scanner.Options) *scanner.Engine {
	t.Helper()
	e, err := scanner.NewEngine(opts)
	require.NoError(t, err)
	return e
}

func TestScanUnpackedMissingModsPath(t *testing.T) {
	opts := scanner.Options{Warn: scanner.Warnings{ModsPathMissing: "mods path warning"}}
	e := newLooseEngine(t, opts)

	text, err := e.ScanUnpacked(context.Background())
	assert.ErrorIs(t, err, scanner.ErrModsPathMissing)
	assert.Equal(t, "mods path warning", text)
}

func TestScanUnpackedClassifiesFindings(t *testing.T) {
	mods := t.TempDir()
	testutil.CreateDummyFile(t, filepath.Join(mods, "Doc Mod", "README.txt"), "docs")
	testutil.CreateDummyFile(t, filepath.Join(mods, "Doc Mod", "fomod", "info.xml"), "<fomod/>")
	testutil.CreateDummyDir(t, filepath.Join(mods, "Anim Mod", "Meshes", "AnimationFileData"))
	testutil.CreateDummyFile(t, filepath.Join(mods, "Tex Mod", "textures", "ui.tga"), "tga")
	testutil.CreateDummyFile(t, filepath.Join(mods, "Tex Mod", "Tools", "BodySlide", "preview.png"), "png")
	testutil.CreateDummyFile(t, filepath.Join(mods, "Snd Mod", "sound", "track.mp3"), "mp3")
	testutil.CreateDummyFile(t, filepath.Join(mods, "Script Mod", "Scripts", "Actor.pex"), "pex")
	testutil.CreateDummyFile(t, filepath.Join(mods, "Previs Mod", "meshes", "cell_OC.nif"), "nif")
	testutil.CreateDummyFile(t, filepath.Join(mods, "Previs Mod", "vis", "area.uvd"), "uvd")
	testutil.CreateDDSFile(t, filepath.Join(mods, "Tex Mod", "textures", "odd.dds"), 1023, 512)
	testutil.CreateDDSFile(t, filepath.Join(mods, "Tex Mod", "textures", "fine.dds"), 1024, 512)

	opts := looseOptions(t, mods)
	e := newLooseEngine(t, opts)

	text, err := e.ScanUnpacked(context.Background())
	require.NoError(t, err)

	assert.Contains(t, text, "  - Doc Mod/README.txt\n")
	assert.Contains(t, text, "  - Doc Mod/fomod\n")
	assert.Contains(t, text, "  - Anim Mod\n")
	assert.Contains(t, text, "  - TGA : Tex Mod/textures/ui.tga\n")
	assert.NotContains(t, text, "preview.png")
	assert.Contains(t, text, "  - MP3 : Snd Mod/sound/track.mp3\n")
	assert.Contains(t, text, "  - Script Mod\n")
	assert.Contains(t, text, "  - Tex Mod/textures/odd.dds (1023x512)\n")
	assert.NotContains(t, text, "fine.dds")

	// Previs records one line per directory, and both directories of
	// Previs Mod resolve to the same parent.
	assert.Contains(t, text, "LOOSE PRECOMBINE / PREVIS FILES")

	// Relocated entries really moved.
	assert.NoFileExists(t, filepath.Join(mods, "Doc Mod", "README.txt"))
	assert.FileExists(t, filepath.Join(opts.BackupPath, "Doc Mod", "README.txt"))
	assert.NoDirExists(t, filepath.Join(mods, "Doc Mod", "fomod"))
	assert.DirExists(t, filepath.Join(opts.BackupPath, "Doc Mod", "fomod"))
}

func TestScanUnpackedSingleDetectionPerDirectory(t *testing.T) {
	mods := t.TempDir()
	// Two matches for each single-detection category inside one directory.
	testutil.CreateDummyFile(t, filepath.Join(mods, "Previs Mod", "vis", "areaA.uvd"), "uvd")
	testutil.CreateDummyFile(t, filepath.Join(mods, "Previs Mod", "vis", "cell_OC.nif"), "nif")
	testutil.CreateDummyFile(t, filepath.Join(mods, "Script Mod", "Scripts", "Actor.pex"), "pex")
	testutil.CreateDummyFile(t, filepath.Join(mods, "Script Mod", "Scripts", "F4SE.pex"), "pex")

	e := newLooseEngine(t, looseOptions(t, mods))
	text, err := e.ScanUnpacked(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(text, "  - Previs Mod\n"),
		"a directory with two previs matches must yield exactly one line")
	assert.Equal(t, 1, strings.Count(text, "  - Script Mod\n"),
		"a directory with two script copies must yield exactly one line")
}

func TestScanUnpackedDryRunKeepsFiles(t *testing.T) {
	mods := t.TempDir()
	testutil.CreateDummyFile(t, filepath.Join(mods, "Doc Mod", "changelog.txt"), "docs")
	testutil.CreateDummyFile(t, filepath.Join(mods, "Doc Mod", "fomod", "info.xml"), "<fomod/>")

	opts := looseOptions(t, mods)
	opts.DryRun = true
	e := newLooseEngine(t, opts)

	text, err := e.ScanUnpacked(context.Background())
	require.NoError(t, err)

	// Report text is identical to a real run.
	assert.Contains(t, text, "  - Doc Mod/changelog.txt\n")
	assert.Contains(t, text, "  - Doc Mod/fomod\n")

	// Nothing moved, and the backup tree was never created.
	assert.FileExists(t, filepath.Join(mods, "Doc Mod", "changelog.txt"))
	assert.DirExists(t, filepath.Join(mods, "Doc Mod", "fomod"))
	assert.NoDirExists(t, opts.BackupPath)
}

func TestScanUnpackedWorkshopFrameworkScriptsIgnored(t *testing.T) {
	mods := t.TempDir()
	testutil.CreateDummyFile(t, filepath.Join(mods, "Workshop Framework", "Scripts", "Actor.pex"), "pex")

	e := newLooseEngine(t, looseOptions(t, mods))
	text, err := e.ScanUnpacked(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, text, "SCRIPT FILES")
}

func TestScanUnpackedScriptOutsideScriptsDirIgnored(t *testing.T) {
	mods := t.TempDir()
	testutil.CreateDummyFile(t, filepath.Join(mods, "Loose Mod", "Actor.pex"), "pex")

	e := newLooseEngine(t, looseOptions(t, mods))
	text, err := e.ScanUnpacked(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, text, "SCRIPT FILES")
}

func TestScanUnpackedEmptyTreeRendersBannerOnly(t *testing.T) {
	mods := t.TempDir()
	e := newLooseEngine(t, looseOptions(t, mods))

	text, err := e.ScanUnpacked(context.Background())
	require.NoError(t, err)

	assert.Contains(t, text, "RESULTS FROM UNPACKED / LOOSE FILES")
	assert.NotContains(t, text, "# ")
}

func TestScanUnpackedHooksReceiveTargets(t *testing.T) {
	mods := t.TempDir()
	testutil.CreateDummyFile(t, filepath.Join(mods, "Mod", "notes.txt"), "x")

	hooks := &testutil.MockHooks{}
	hooks.On("OnTargetDiscovered", mock.Anything).Return(nil)
	hooks.On("OnTargetStatusUpdate", mock.Anything, scanner.StatusPending, "", mock.Anything).Return(nil)
	hooks.On("OnTargetStatusUpdate", mock.Anything, scanner.StatusSuccess, "", mock.Anything).Return(nil)

	opts := looseOptions(t, mods)
	opts.EventHooks = hooks
	e := newLooseEngine(t, opts)

	_, err := e.ScanUnpacked(context.Background())
	require.NoError(t, err)

	hooks.AssertCalled(t, "OnTargetDiscovered", mods)
	hooks.AssertCalled(t, "OnTargetStatusUpdate", mods, scanner.StatusPending, "", time.Duration(0))
	hooks.AssertExpectations(t)
}

func TestScanUnpackedTraversalFailure(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	mods := t.TempDir()
	locked := filepath.Join(mods, "locked")
	testutil.CreateDummyDir(t, locked)
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	e := newLooseEngine(t, looseOptions(t, mods))
	_, err := e.ScanUnpacked(context.Background())
	assert.ErrorIs(t, err, scanner.ErrTraversal)
}
