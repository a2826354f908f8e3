//go:build !unix

package mmap

import "os"

// MmapFile holds the file content read into memory on platforms without mmap.
type MmapFile struct {
	Data []byte
	File *os.File
}

func Open(filePath string) (*MmapFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return &MmapFile{Data: data}, nil
}

func (mf *MmapFile) Len() int {
	return len(mf.Data)
}

func (mf *MmapFile) Close() error {
	mf.Data = nil
	return nil
}
