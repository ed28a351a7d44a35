package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_CreatesRelativeDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir("keystore")
	require.NoError(t, err)

	// t.TempDir may sit behind a symlink (macOS), so compare after resolving.
	want, err := filepath.EvalSymlinks(filepath.Join(tmp, "keystore"))
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	require.Equal(t, want, gotResolved)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	first, err := EnsureDir(dir)
	require.NoError(t, err)

	second, err := EnsureDir(dir)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := EnsureDir(path)
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestRemoveIfExists_MissingIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.db")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0o600))

	err := RemoveIfExists(present, filepath.Join(dir, "absent.db"))
	require.NoError(t, err)

	_, err = os.Stat(present)
	require.True(t, os.IsNotExist(err))
}

func TestRemoveIfExists_ReportsFailures(t *testing.T) {
	dir := t.TempDir()
	nonEmpty := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(filepath.Join(nonEmpty, "child"), 0o700))

	err := RemoveIfExists(nonEmpty)
	require.Error(t, err)
	require.Contains(t, err.Error(), "remove "+nonEmpty)
}
