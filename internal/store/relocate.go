package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// sideFileSuffixes are the SQLite files that travel with a database in WAL
// mode. The main file comes first.
var sideFileSuffixes = []string{"", "-wal", "-shm"}

// MoveDatabase moves the database at src, with its WAL side files, to dst.
// The store using src must be closed first. dst must not exist. If any file
// fails to move, the files already moved are put back and src is left as it
// was.
func MoveDatabase(src, dst string) error {
	src = filepath.Clean(src)
	dst = filepath.Clean(dst)
	if src == dst {
		return nil
	}

	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("%w: database %s: %w", ErrNotFound, src, err)
	}
	if _, err := os.Stat(dst); err == nil {
		return invalidf("%s already exists", dst)
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating directory %s: %w", ErrStorageUnavailable, dir, err)
	}

	type move struct{ from, to string }
	var done []move

	for _, suffix := range sideFileSuffixes {
		from, to := src+suffix, dst+suffix
		if suffix != "" {
			if _, err := os.Stat(from); errors.Is(err, fs.ErrNotExist) {
				continue
			}
		}

		if err := moveFile(from, to); err != nil {
			for i := len(done) - 1; i >= 0; i-- {
				// Best effort; err is what gets reported.
				_ = moveFile(done[i].to, done[i].from)
			}
			return fmt.Errorf("%w: moving %s to %s: %w", ErrStorageUnavailable, from, to, err)
		}
		done = append(done, move{from: from, to: to})
	}

	return nil
}

// moveFile renames from to to, falling back to copy and remove when the
// two paths are on different filesystems.
func moveFile(from, to string) error {
	if err := os.Rename(from, to); err == nil {
		return nil
	}

	if err := copyFile(from, to); err != nil {
		return err
	}
	if err := os.Remove(from); err != nil {
		os.Remove(to)
		return fmt.Errorf("removing %s after copy: %w", from, err)
	}
	return nil
}

func copyFile(from, to string) error {
	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(to)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(to)
		return err
	}
	return nil
}
