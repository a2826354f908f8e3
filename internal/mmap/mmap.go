//go:build unix

package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MmapFile is a read-only mapping of a whole file.
type MmapFile struct {
	Data []byte   // The memory-mapped byte slice
	File *os.File // The underlying opened file
}

// Open maps the file at filePath. Empty files are not mapped: Data is nil
// and Close only closes the file.
func Open(filePath string) (*MmapFile, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to get file info for %q: %w", filePath, err)
	}

	size := fi.Size()
	if size == 0 {
		return &MmapFile{File: f}, nil
	}
	if int64(int(size)) != size {
		f.Close()
		return nil, fmt.Errorf("file %q is too large to map", filePath)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to mmap file %q: %w", filePath, err)
	}

	return &MmapFile{
		Data: data,
		File: f,
	}, nil
}

// Len returns the length of the mapped region.
func (mf *MmapFile) Len() int {
	return len(mf.Data)
}

// Close unmaps the memory region and closes the underlying file.
func (mf *MmapFile) Close() error {
	var err error
	if mf.Data != nil {
		err = unix.Munmap(mf.Data)
		if err != nil {
			err = fmt.Errorf("failed to munmap: %w", err)
		}
		mf.Data = nil
	}

	if mf.File != nil {
		closeErr := mf.File.Close()
		mf.File = nil
		if closeErr != nil {
			if err != nil {
				return fmt.Errorf("%w (close: %v)", err, closeErr)
			}
			return fmt.Errorf("failed to close file: %w", closeErr)
		}
	}
	return err
}
