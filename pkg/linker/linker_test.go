// TEST TYPE: Business Logic Integration
// DEPENDENCIES: Real filesystem (t.TempDir)
// PURPOSE: Test link plan/apply/unlink decisions against every destination state

package linker_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/dotlink/pkg/errors"
	"github.com/arthur-debert/dotlink/pkg/filesystem"
	"github.com/arthur-debert/dotlink/pkg/linker"
	"github.com/arthur-debert/dotlink/pkg/paths"
	"github.com/arthur-debert/dotlink/pkg/testutil"
	"github.com/arthur-debert/dotlink/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is a source tree plus hermetic destination roots.
type fixture struct {
	source string
	home   string
	paths  paths.Paths
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	source := testutil.SetupSourceTree(t, map[string]string{
		"bashrc":               "export EDITOR=vim\n",
		"gitconfig":            "[user]\n\tname = Test\n",
		"config/nvim/init.vim": "set number\n",
	})

	home := filepath.Join(t.TempDir(), "home")
	require.NoError(t, os.MkdirAll(home, 0755))

	t.Setenv(paths.EnvStateDir, filepath.Join(t.TempDir(), "state"))

	p, err := paths.NewWithRoots(source, home, "")
	require.NoError(t, err)

	return &fixture{source: source, home: home, paths: p}
}

func (f *fixture) mapping(repoPath string) types.Mapping {
	dest, ok := f.paths.MapRepoFileToSystem(repoPath)
	if !ok {
		panic("no destination for " + repoPath)
	}
	return types.Mapping{
		RepoPath: repoPath,
		Source:   filepath.Join(f.source, filepath.FromSlash(repoPath)),
		Dest:     dest,
	}
}

func (f *fixture) mappings() []types.Mapping {
	return []types.Mapping{
		f.mapping("bashrc"),
		f.mapping("config/nvim/init.vim"),
		f.mapping("gitconfig"),
	}
}

func TestApplyCreatesMissingLinks(t *testing.T) {
	f := newFixture(t)
	l := linker.New(linker.Options{Paths: f.paths})

	report := l.Apply(f.mappings())

	require.True(t, report.Success(), "run should succeed: %v", report.Err())
	assert.Equal(t, 3, report.Changed())

	for _, res := range report.Results {
		assert.Equal(t, types.StateAbsent, res.State)
		assert.Equal(t, linker.DecisionLink, res.Decision)
		assert.True(t, res.Applied, "decision should be executed")
		testutil.AssertSymlink(t, res.Mapping.Dest, res.Mapping.Source)
	}

	// Parent directories are created on demand
	assert.True(t, testutil.DirExists(t, filepath.Join(f.paths.ConfigHome(), "nvim")))
}

func TestApplyIsIdempotent(t *testing.T) {
	f := newFixture(t)
	l := linker.New(linker.Options{Paths: f.paths})

	first := l.Apply(f.mappings())
	require.True(t, first.Success())
	assert.Equal(t, 3, first.Changed())

	before := testutil.ChecksumTree(t, f.home)

	second := l.Apply(f.mappings())
	require.True(t, second.Success())
	assert.Equal(t, 0, second.Changed(), "second run should change nothing")
	for _, res := range second.Results {
		assert.Equal(t, types.StateLinked, res.State)
		assert.Equal(t, linker.DecisionNoop, res.Decision)
	}

	assert.Equal(t, before, testutil.ChecksumTree(t, f.home), "second run should not mutate the tree")
}

func TestApplyConflictWithoutForce(t *testing.T) {
	f := newFixture(t)

	// Occupy one destination with a real file
	occupied := f.mapping("bashrc").Dest
	require.NoError(t, os.WriteFile(occupied, []byte("hand-written"), 0644))

	l := linker.New(linker.Options{Paths: f.paths})
	report := l.Apply(f.mappings())

	assert.False(t, report.Success(), "conflicts should fail the run")
	conflicts := report.Conflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, occupied, conflicts[0].Mapping.Dest)
	assert.Equal(t, types.StateRegularFile, conflicts[0].State)
	assert.True(t, errors.IsErrorCode(conflicts[0].Err, errors.ErrConflict))

	// The occupant is byte-for-byte untouched
	content, err := os.ReadFile(occupied)
	require.NoError(t, err)
	assert.Equal(t, "hand-written", string(content))

	// The other mappings were still linked
	testutil.AssertSymlink(t, f.mapping("gitconfig").Dest, f.mapping("gitconfig").Source)
	testutil.AssertSymlink(t, f.mapping("config/nvim/init.vim").Dest, f.mapping("config/nvim/init.vim").Source)
}

func TestApplyForceReplacesFileWithBackup(t *testing.T) {
	f := newFixture(t)

	m := f.mapping("bashrc")
	require.NoError(t, os.WriteFile(m.Dest, []byte("precious local edits"), 0644))

	l := linker.New(linker.Options{Paths: f.paths, Force: true, Backup: true})
	report := l.Apply([]types.Mapping{m})

	require.True(t, report.Success(), "force run should succeed: %v", report.Err())
	res := report.Results[0]
	assert.Equal(t, linker.DecisionReplace, res.Decision)
	assert.True(t, res.Applied)

	testutil.AssertSymlink(t, m.Dest, m.Source)

	// The occupant moved into this run's backup directory
	require.NotEmpty(t, res.BackupPath)
	assert.True(t, strings.HasPrefix(res.BackupPath, f.paths.BackupsDir()),
		"backup should live under %s, got %s", f.paths.BackupsDir(), res.BackupPath)
	testutil.AssertFileContent(t, res.BackupPath, "precious local edits")
}

func TestApplyForceWithoutBackup(t *testing.T) {
	f := newFixture(t)

	m := f.mapping("bashrc")
	require.NoError(t, os.WriteFile(m.Dest, []byte("disposable"), 0644))

	l := linker.New(linker.Options{Paths: f.paths, Force: true, Backup: false})
	report := l.Apply([]types.Mapping{m})

	require.True(t, report.Success())
	assert.Empty(t, report.Results[0].BackupPath)
	assert.False(t, testutil.DirExists(t, f.paths.BackupsDir()), "no backup dir without --backup")
	testutil.AssertSymlink(t, m.Dest, m.Source)
}

func TestApplyForceRepointsWrongLink(t *testing.T) {
	f := newFixture(t)

	m := f.mapping("bashrc")
	elsewhere := testutil.CreateFile(t, t.TempDir(), "other", "someone else's file")
	testutil.CreateSymlink(t, elsewhere, m.Dest)

	l := linker.New(linker.Options{Paths: f.paths, Force: true, Backup: true})
	report := l.Apply([]types.Mapping{m})

	require.True(t, report.Success())
	res := report.Results[0]
	assert.Equal(t, types.StateWrongLink, res.State)
	assert.Equal(t, linker.DecisionReplace, res.Decision)
	assert.Empty(t, res.BackupPath, "links carry no data, nothing to back up")
	testutil.AssertSymlink(t, m.Dest, m.Source)
}

func TestApplyDirectoryConflictSurvivesForce(t *testing.T) {
	f := newFixture(t)

	m := f.mapping("bashrc")
	require.NoError(t, os.MkdirAll(m.Dest, 0755))

	l := linker.New(linker.Options{Paths: f.paths, Force: true, Backup: true})
	report := l.Apply([]types.Mapping{m})

	assert.False(t, report.Success(), "directories must never be replaced")
	res := report.Results[0]
	assert.Equal(t, linker.DecisionConflict, res.Decision)
	assert.True(t, res.IsDir)
	assert.True(t, errors.IsErrorCode(res.Err, errors.ErrConflict))
	assert.True(t, testutil.DirExists(t, m.Dest), "directory should survive")
}

func TestDryRunReportsWithoutMutating(t *testing.T) {
	f := newFixture(t)

	// Mixed fixture: one conflict, one correct link, one absent
	conflicted := f.mapping("bashrc")
	require.NoError(t, os.WriteFile(conflicted.Dest, []byte("occupied"), 0644))
	linked := f.mapping("gitconfig")
	testutil.CreateSymlink(t, linked.Source, linked.Dest)

	before := testutil.ChecksumTree(t, f.home)

	dry := linker.New(linker.Options{Paths: f.paths, DryRun: true})
	dryReport := dry.Apply(f.mappings())

	assert.True(t, dryReport.DryRun)
	assert.Equal(t, before, testutil.ChecksumTree(t, f.home), "dry run must not touch the tree")

	// A real run makes the same decisions the dry run reported
	real := linker.New(linker.Options{Paths: f.paths})
	realReport := real.Apply(f.mappings())

	require.Equal(t, len(dryReport.Results), len(realReport.Results))
	for i := range dryReport.Results {
		assert.Equal(t, realReport.Results[i].Decision, dryReport.Results[i].Decision,
			"decision for %s should match the real run", dryReport.Results[i].Mapping.RepoPath)
		assert.False(t, dryReport.Results[i].Applied, "dry run should not execute")
	}
}

func TestApplyMissingSourceFailsOnlyThatMapping(t *testing.T) {
	f := newFixture(t)

	broken := types.Mapping{
		RepoPath: "vanished",
		Source:   filepath.Join(f.source, "vanished"),
		Dest:     filepath.Join(f.home, ".vanished"),
	}
	good := f.mapping("bashrc")

	l := linker.New(linker.Options{Paths: f.paths})
	report := l.Apply([]types.Mapping{broken, good})

	assert.False(t, report.Success())
	assert.Equal(t, linker.DecisionError, report.Results[0].Decision)
	assert.True(t, errors.IsErrorCode(report.Results[0].Err, errors.ErrFileNotFound))

	// The healthy mapping is still processed
	assert.Equal(t, linker.DecisionLink, report.Results[1].Decision)
	testutil.AssertSymlink(t, good.Dest, good.Source)
}

func TestPlanNeverMutates(t *testing.T) {
	f := newFixture(t)

	before := testutil.ChecksumTree(t, f.home)

	l := linker.New(linker.Options{Paths: f.paths})
	report := l.Plan(f.mappings())

	assert.Equal(t, before, testutil.ChecksumTree(t, f.home))
	require.Len(t, report.Results, 3)
	for _, res := range report.Results {
		assert.Equal(t, types.StateAbsent, res.State)
		assert.Equal(t, linker.DecisionLink, res.Decision)
		assert.False(t, res.Applied)
	}
}

func TestUnlinkRemovesOnlyOwnedLinks(t *testing.T) {
	f := newFixture(t)

	owned := f.mapping("bashrc")
	testutil.CreateSymlink(t, owned.Source, owned.Dest)

	foreign := f.mapping("gitconfig")
	elsewhere := testutil.CreateFile(t, t.TempDir(), "other", "foreign target")
	testutil.CreateSymlink(t, elsewhere, foreign.Dest)

	file := f.mapping("config/nvim/init.vim")
	require.NoError(t, os.MkdirAll(filepath.Dir(file.Dest), 0755))
	require.NoError(t, os.WriteFile(file.Dest, []byte("real file"), 0644))

	l := linker.New(linker.Options{Paths: f.paths})
	report := l.Unlink([]types.Mapping{owned, foreign, file})

	require.True(t, report.Success(), "unlink should succeed: %v", report.Err())

	assert.Equal(t, linker.DecisionUnlink, report.Results[0].Decision)
	testutil.AssertNoFile(t, owned.Dest)

	assert.Equal(t, linker.DecisionKeep, report.Results[1].Decision)
	testutil.AssertSymlink(t, foreign.Dest, elsewhere)

	assert.Equal(t, linker.DecisionKeep, report.Results[2].Decision)
	testutil.AssertFileContent(t, file.Dest, "real file")
}

func TestUnlinkDryRun(t *testing.T) {
	f := newFixture(t)

	owned := f.mapping("bashrc")
	testutil.CreateSymlink(t, owned.Source, owned.Dest)

	l := linker.New(linker.Options{Paths: f.paths, DryRun: true})
	report := l.Unlink([]types.Mapping{owned})

	assert.Equal(t, linker.DecisionUnlink, report.Results[0].Decision)
	assert.False(t, report.Results[0].Applied)
	testutil.AssertSymlink(t, owned.Dest, owned.Source)
}

func TestInspectStates(t *testing.T) {
	f := newFixture(t)
	fs := filesystem.NewOS()

	absent := f.mapping("bashrc")
	state, err := linker.Inspect(fs, absent)
	require.NoError(t, err)
	assert.Equal(t, types.StateAbsent, state)

	linked := f.mapping("gitconfig")
	testutil.CreateSymlink(t, linked.Source, linked.Dest)
	state, err = linker.Inspect(fs, linked)
	require.NoError(t, err)
	assert.Equal(t, types.StateLinked, state)

	wrong := f.mapping("config/nvim/init.vim")
	elsewhere := testutil.CreateFile(t, t.TempDir(), "other", "x")
	testutil.CreateSymlink(t, elsewhere, wrong.Dest)
	state, err = linker.Inspect(fs, wrong)
	require.NoError(t, err)
	assert.Equal(t, types.StateWrongLink, state)

	occupied := types.Mapping{
		RepoPath: "bashrc",
		Source:   linked.Source,
		Dest:     testutil.CreateFile(t, f.home, ".occupied", "content"),
	}
	state, err = linker.Inspect(fs, occupied)
	require.NoError(t, err)
	assert.Equal(t, types.StateRegularFile, state)
}

func TestInspectRelativeLinkTarget(t *testing.T) {
	f := newFixture(t)

	m := f.mapping("bashrc")

	// A relative link spelling the same target is still correct
	rel, err := filepath.Rel(filepath.Dir(m.Dest), m.Source)
	require.NoError(t, err)
	testutil.CreateSymlink(t, rel, m.Dest)

	state, err := linker.Inspect(filesystem.NewOS(), m)
	require.NoError(t, err)
	assert.Equal(t, types.StateLinked, state)
}

func TestApplyRecordsSymlinkFailure(t *testing.T) {
	f := newFixture(t)

	// A failing symlink call must not abort the rest of the run
	mem := filesystem.NewMem()
	require.NoError(t, mem.MkdirAll(f.source, 0755))
	require.NoError(t, mem.MkdirAll(f.home, 0755))
	for _, m := range f.mappings() {
		require.NoError(t, mem.MkdirAll(filepath.Dir(m.Source), 0755))
		require.NoError(t, mem.WriteFile(m.Source, []byte("x\n"), 0644))
	}
	bad := f.mapping("bashrc")
	mem.FailWith("Symlink", bad.Dest, os.ErrPermission)

	l := linker.New(linker.Options{FileSystem: mem, Paths: f.paths})
	report := l.Apply(f.mappings())

	require.False(t, report.Success())
	assert.True(t, errors.IsErrorCode(report.Err(), errors.ErrSymlinkCreate))

	byRepo := make(map[string]linker.Result)
	for _, res := range report.Results {
		byRepo[res.Mapping.RepoPath] = res
	}
	assert.Equal(t, linker.DecisionError, byRepo["bashrc"].Decision)
	assert.Equal(t, linker.DecisionLink, byRepo["gitconfig"].Decision)
	assert.True(t, byRepo["gitconfig"].Applied)
}
