package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"syscall"
)

// fingerprintWindow is how much of the file tail is hashed.
const fingerprintWindow = 2048

// FileState identifies one version of a data file.
type FileState struct {
	ModTime     int64  `json:"mod_time"`
	Size        int64  `json:"size"`
	Inode       uint64 `json:"inode"`
	Fingerprint string `json:"fingerprint"`
}

// Equal reports whether both states describe the same file content.
func (s FileState) Equal(other FileState) bool {
	return s == other
}

// StatFile reads size, modification time and inode of path and fingerprints its
// tail. Supported on Linux and macOS.
func StatFile(path string) (FileState, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return FileState{}, err
	}
	sys, ok := stat.Sys().(*syscall.Stat_t)
	if !ok {
		return FileState{}, fmt.Errorf("failed to get file system information: %s", path)
	}

	fp, err := FileFingerprint(path)
	if err != nil {
		return FileState{}, err
	}

	return FileState{
		ModTime:     stat.ModTime().UnixNano(),
		Size:        stat.Size(),
		Inode:       uint64(sys.Ino),
		Fingerprint: fp,
	}, nil
}

// FileFingerprint returns the CRC32 of the last 2KB of the file as hex. CSV
// histories grow by appending, so the tail changes with every new row.
func FileFingerprint(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}

	n := stat.Size()
	if n > fingerprintWindow {
		n = fingerprintWindow
	}
	if _, err := file.Seek(-n, io.SeekEnd); err != nil {
		return "", err
	}

	data := make([]byte, n)
	if _, err := io.ReadFull(file, data); err != nil {
		return "", err
	}
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data)), nil
}
