// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"fmt"
	"os"
	"path/filepath"
)

// IOError wraps a filesystem failure with the path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// BackupSuffix is appended to a descriptor's filename when a backup copy is
// requested before write-back.
const BackupSuffix = ".bumpwise-backup"

// Read loads and parses the descriptor at path.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return Parse(path, data)
}

// Write flushes the document back to its origin path. With backup enabled
// the prior content is first copied aside atomically (write to a temp file,
// then rename), so the original survives a failed write.
func (d *Document) Write(backup bool) error {
	if backup {
		if err := backupFile(d.path); err != nil {
			return err
		}
	}
	data, err := d.Marshal()
	if err != nil {
		return &IOError{Op: "write", Path: d.path, Err: err}
	}
	if err := os.WriteFile(d.path, data, 0o644); err != nil {
		return &IOError{Op: "write", Path: d.path, Err: err}
	}
	return nil
}

// backupFile copies path to path+BackupSuffix via a temp file and rename.
func backupFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &IOError{Op: "backup", Path: path, Err: err}
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return &IOError{Op: "backup", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "backup", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "backup", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path+BackupSuffix); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "backup", Path: path, Err: err}
	}
	return nil
}
