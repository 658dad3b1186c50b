package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileExists checks if a file exists
func FileExists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return !os.IsNotExist(err)
}

// AtomicWrite replaces filePath with content through a temporary file and a rename,
// so readers never observe a partial write. The parent directory is created if missing.
func AtomicWrite(fs afero.Fs, filePath string, content []byte, perm os.FileMode) error {
	dir := filepath.Dir(filePath)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpFile, err := afero.TempFile(fs, dir, "."+filepath.Base(filePath)+".tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer fs.Remove(tmpName) // Clean up on failure

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temporary file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := fs.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}

	// Atomic rename - this is guaranteed to be atomic on all POSIX systems
	if err := fs.Rename(tmpName, filePath); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// AtomicFileUpdate is AtomicWrite with an optional rotated backup of the previous content.
// A failed write is rolled back from the backup it just took.
func AtomicFileUpdate(fs afero.Fs, filePath string, content []byte, perm os.FileMode, createBackup bool) error {
	bm := NewBackupManager(fs, DefaultBackupRetention)
	backedUp := false

	if createBackup && FileExists(fs, filePath) {
		if _, err := bm.CreateBackup(filePath); err != nil {
			return fmt.Errorf("failed to create backup file: %w", err)
		}
		backedUp = true
	}

	if err := AtomicWrite(fs, filePath, content, perm); err != nil {
		if backedUp {
			if restoreErr := bm.RestoreFromLatestBackup(filePath); restoreErr != nil {
				return fmt.Errorf("failed to write %s and restore from backup: update error=%v, restore error=%v", filePath, err, restoreErr)
			}
		}
		return err
	}

	if backedUp {
		// Non-fatal, the update itself succeeded
		_ = bm.CleanupOldBackups(filePath)
	}

	return nil
}
