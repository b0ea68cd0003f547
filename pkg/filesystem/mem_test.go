package filesystem

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemWriteAndRead(t *testing.T) {
	m := NewMem()
	require.NoError(t, m.MkdirAll("/home/user", 0755))
	require.NoError(t, m.WriteFile("/home/user/.bashrc", []byte("export X=1\n"), 0644))

	data, err := m.ReadFile("/home/user/.bashrc")
	require.NoError(t, err)
	assert.Equal(t, "export X=1\n", string(data))

	info, err := m.Stat("/home/user/.bashrc")
	require.NoError(t, err)
	assert.Equal(t, ".bashrc", info.Name())
	assert.Equal(t, int64(11), info.Size())
	assert.False(t, info.IsDir())
}

func TestMemWriteRequiresParent(t *testing.T) {
	m := NewMem()

	err := m.WriteFile("/nowhere/file", []byte("x"), 0644)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemSymlinkRoundTrip(t *testing.T) {
	m := NewMem()
	require.NoError(t, m.MkdirAll("/repo", 0755))
	require.NoError(t, m.MkdirAll("/home", 0755))
	require.NoError(t, m.WriteFile("/repo/bashrc", []byte("repo\n"), 0644))
	require.NoError(t, m.Symlink("/repo/bashrc", "/home/.bashrc"))

	target, err := m.Readlink("/home/.bashrc")
	require.NoError(t, err)
	assert.Equal(t, "/repo/bashrc", target)

	// Stat follows the link, Lstat does not
	info, err := m.Stat("/home/.bashrc")
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())

	linfo, err := m.Lstat("/home/.bashrc")
	require.NoError(t, err)
	assert.NotZero(t, linfo.Mode()&fs.ModeSymlink)

	data, err := m.ReadFile("/home/.bashrc")
	require.NoError(t, err)
	assert.Equal(t, "repo\n", string(data))
}

func TestMemSymlinkRefusesOccupiedPath(t *testing.T) {
	m := NewMem()
	require.NoError(t, m.MkdirAll("/home", 0755))
	require.NoError(t, m.WriteFile("/home/.bashrc", []byte("local\n"), 0644))

	err := m.Symlink("/repo/bashrc", "/home/.bashrc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrExist))
}

func TestMemRenameMovesFile(t *testing.T) {
	m := NewMem()
	require.NoError(t, m.MkdirAll("/home", 0755))
	require.NoError(t, m.MkdirAll("/repo", 0755))
	require.NoError(t, m.WriteFile("/home/.gitconfig", []byte("cfg\n"), 0644))

	require.NoError(t, m.Rename("/home/.gitconfig", "/repo/gitconfig"))

	_, err := m.Lstat("/home/.gitconfig")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	data, err := m.ReadFile("/repo/gitconfig")
	require.NoError(t, err)
	assert.Equal(t, "cfg\n", string(data))
}

func TestMemRemoveRefusesNonEmptyDir(t *testing.T) {
	m := NewMem()
	require.NoError(t, m.MkdirAll("/home/dir", 0755))
	require.NoError(t, m.WriteFile("/home/dir/file", []byte("x"), 0644))

	err := m.Remove("/home/dir")
	require.Error(t, err)

	require.NoError(t, m.Remove("/home/dir/file"))
	require.NoError(t, m.Remove("/home/dir"))
}

func TestMemFailWithInjectsErrors(t *testing.T) {
	m := NewMem()
	require.NoError(t, m.MkdirAll("/home", 0755))

	boom := errors.New("disk on fire")
	m.FailWith("Symlink", "/home/.bashrc", boom)

	err := m.Symlink("/repo/bashrc", "/home/.bashrc")
	assert.ErrorIs(t, err, boom)

	// Other paths keep working
	require.NoError(t, m.Symlink("/repo/other", "/home/.other"))
}
