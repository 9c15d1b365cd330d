// Package safefile provides hardened file opening for user-supplied paths.
package safefile

import (
	"errors"
	"os"
)

// ErrNotRegularFile is returned for paths that do not name a regular file:
// symlinks, FIFOs, devices, sockets and directories. Reading such files can
// block forever, so loaders reject them up front.
var ErrNotRegularFile = errors.New("not a regular file")

// OpenRegular opens path and verifies it is a regular file.
//
// The path is lstat-ed first to reject symlinks, then the opened descriptor
// is stat-ed again to catch the file being swapped in between. A small
// TOCTOU window remains (the standard library exposes no portable
// O_NOFOLLOW), but the descriptor check covers the common races.
//
// The caller must close the returned file.
func OpenRegular(path string) (*os.File, os.FileInfo, error) {
	linkInfo, err := os.Lstat(path)
	if err != nil {
		return nil, nil, err
	}
	if !linkInfo.Mode().IsRegular() {
		return nil, nil, ErrNotRegularFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotRegularFile
	}

	return f, info, nil
}
