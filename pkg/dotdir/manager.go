// Package dotdir manages the .strobe/ and ~/.strobe/ directories that
// hold the persistent configuration and the session history database.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the strobe directory.
	dirName = ".strobe"

	// historyFile is the SQLite session history database.
	historyFile = "history.db"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .strobe/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.strobe/ dir
//  3. Home ~/.strobe/ dir
//  4. If none found, attempt to create ~/.strobe/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating strobe directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// HistoryDBPath resolves the path of the session history database inside
// the target .strobe/ directory.
func (m *Manager) HistoryDBPath(overrideDir string) (string, error) {
	target, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(target, historyFile), nil
}

// localDirExists checks whether a .strobe/ directory exists in the
// current working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
