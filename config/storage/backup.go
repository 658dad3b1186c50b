package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
)

// Backup constants
const (
	// DefaultBackupRetention is the default number of backups to keep
	DefaultBackupRetention = 3

	// backupFileMode is used for every backup whatever the source's mode
	backupFileMode os.FileMode = 0600
)

// BackupManager manages rotated backups of externally owned documents
type BackupManager struct {
	fs afero.Fs
	// MaxBackups is the maximum number of backups to retain
	MaxBackups int

	now func() time.Time
	pid func() int
}

// NewBackupManager creates a new BackupManager on fs
func NewBackupManager(fs afero.Fs, maxBackups int) *BackupManager {
	if maxBackups <= 0 {
		maxBackups = DefaultBackupRetention
	}
	return &BackupManager{
		fs:         fs,
		MaxBackups: maxBackups,
		now:        time.Now,
		pid:        os.Getpid,
	}
}

// CreateBackup copies filePath to original.backup-YYYYMMDDHHMMSS-PID, readable by the owner only
func (bm *BackupManager) CreateBackup(filePath string) (string, error) {
	timestamp := bm.now().Format("20060102150405")
	backupPath := fmt.Sprintf("%s.backup-%s-%d", filePath, timestamp, bm.pid())

	if err := bm.copyFile(filePath, backupPath, backupFileMode); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	return backupPath, nil
}

// ListBackups returns all backups of filePath, oldest first
func (bm *BackupManager) ListBackups(filePath string) ([]string, error) {
	pattern := fmt.Sprintf("%s.backup-*", filePath)

	backupFiles, err := afero.Glob(bm.fs, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	// The fixed-width timestamp in the name sorts lexically
	sort.Strings(backupFiles)

	return backupFiles, nil
}

// CleanupOldBackups removes old backup files, retaining only the most recent MaxBackups
func (bm *BackupManager) CleanupOldBackups(filePath string) error {
	backupFiles, err := bm.ListBackups(filePath)
	if err != nil {
		return err
	}

	numToRemove := len(backupFiles) - bm.MaxBackups
	if numToRemove <= 0 {
		return nil
	}

	for _, oldBackup := range backupFiles[:numToRemove] {
		if err := bm.fs.Remove(oldBackup); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", oldBackup, err)
		}
	}

	return nil
}

// RestoreFromBackup restores the file from a specific backup path
func (bm *BackupManager) RestoreFromBackup(filePath string, backupPath string) error {
	pattern := fmt.Sprintf("%s.backup-*", filePath)
	match, err := filepath.Match(pattern, backupPath)
	if err != nil {
		return fmt.Errorf("invalid backup path: %w", err)
	}
	if !match {
		return fmt.Errorf("backup path %s is not a valid backup for %s", backupPath, filePath)
	}

	mode := backupFileMode
	if info, err := bm.fs.Stat(filePath); err == nil {
		mode = info.Mode().Perm()
	}
	if err := bm.copyFile(backupPath, filePath, mode); err != nil {
		return fmt.Errorf("failed to restore from backup: %w", err)
	}
	return nil
}

// RestoreFromLatestBackup restores the file from the most recent backup
func (bm *BackupManager) RestoreFromLatestBackup(filePath string) error {
	backupFiles, err := bm.ListBackups(filePath)
	if err != nil {
		return err
	}

	if len(backupFiles) == 0 {
		return fmt.Errorf("no backup files found for %s", filePath)
	}

	return bm.RestoreFromBackup(filePath, backupFiles[len(backupFiles)-1])
}

// copyFile copies src to dst with mode
func (bm *BackupManager) copyFile(src, dst string, mode os.FileMode) error {
	data, err := afero.ReadFile(bm.fs, src)
	if err != nil {
		return err
	}

	if err := afero.WriteFile(bm.fs, dst, data, mode); err != nil {
		return err
	}
	return bm.fs.Chmod(dst, mode)
}
