package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/lmtodo/internal/store"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestMoveDatabaseCarriesSideFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "todo.db")
	dst := filepath.Join(dir, "elsewhere", "moved.db")

	writeFile(t, src, "main")
	writeFile(t, src+"-wal", "wal")

	require.NoError(t, store.MoveDatabase(src, dst))

	assert.Equal(t, "main", readFile(t, dst))
	assert.Equal(t, "wal", readFile(t, dst+"-wal"))
	assert.NoFileExists(t, src)
	assert.NoFileExists(t, src+"-wal")
	assert.NoFileExists(t, dst+"-shm")
}

func TestMoveDatabaseKeepsData(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "todo.db")
	dst := filepath.Join(dir, "new", "todo.db")

	s, err := store.NewSQLiteStore(src)
	require.NoError(t, err)
	_, err = s.AddProject(context.Background(), "Travel", "")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	require.NoError(t, store.MoveDatabase(src, dst))

	s, err = store.NewSQLiteStore(dst)
	require.NoError(t, err)
	defer s.Close()

	projects, err := s.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Travel", projects[0].Name)
}

func TestMoveDatabaseRollsBack(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "todo.db")
	dst := filepath.Join(dir, "moved.db")

	writeFile(t, src, "main")
	writeFile(t, src+"-wal", "wal")
	// A directory in the way of the WAL file makes the second move fail.
	require.NoError(t, os.Mkdir(dst+"-wal", 0o755))

	err := store.MoveDatabase(src, dst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrStorageUnavailable), "got %v", err)

	assert.Equal(t, "main", readFile(t, src))
	assert.Equal(t, "wal", readFile(t, src+"-wal"))
	assert.NoFileExists(t, dst)
	assert.DirExists(t, dst+"-wal")
}

func TestMoveDatabaseRefusals(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "todo.db")
	dst := filepath.Join(dir, "taken.db")

	err := store.MoveDatabase(src, dst)
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)

	writeFile(t, src, "main")
	writeFile(t, dst, "someone else's")

	err = store.MoveDatabase(src, dst)
	assert.True(t, errors.Is(err, store.ErrInvalidInput), "got %v", err)
	assert.Equal(t, "someone else's", readFile(t, dst))
	assert.Equal(t, "main", readFile(t, src))

	assert.NoError(t, store.MoveDatabase(src, src))
}
