package storage

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// Lock takes the advisory exclusive lock that serialises mutating invocations.
// On filesystems other than the OS filesystem it is a no-op.
func (s *Store) Lock() (func(), error) {
	if _, ok := s.fs.(*afero.OsFs); !ok {
		return func() {}, nil
	}

	if err := os.MkdirAll(s.layout.ConfigDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(s.layout.LockPath(), os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := lockFileExclusive(file); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to lock profile store: %w", err)
	}

	return func() {
		if err := unlockFile(file); err != nil {
			s.logger.Warn().Err(err).Msg("failed to unlock profile store")
		}
		file.Close()
	}, nil
}
