package format

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var partmapMagics = map[uint32]string{
	0x20110729: "m1",
	0x20120716: "m2",
}

const maxPartitions = 64

type partmapHeader struct {
	Magic        uint32
	CurEPKVer    uint32
	OldEPKVer    uint32
	NMap         uint8
	NPartition   uint8
	NSwPartition uint8
	_            uint8
}

type partmapEntry struct {
	Name     [32]byte
	Offset   uint32
	Size     uint32
	FileName [32]byte
	FileSize uint32
	SwVer    uint32
	Used     uint8
	Valid    uint8
	_        [2]byte
	Mask     uint32
}

var (
	partmapHeaderSize = binary.Size(partmapHeader{})
	partmapEntrySize  = binary.Size(partmapEntry{})
)

// PartitionInfo is the dump of a partition map blob.
type PartitionInfo struct {
	Layout            string      `yaml:"layout"`
	CurrentEPKVersion string      `yaml:"current_epk_version"`
	OldEPKVersion     string      `yaml:"old_epk_version"`
	Partitions        []Partition `yaml:"partitions"`
}

type Partition struct {
	Name      string `yaml:"name"`
	Offset    string `yaml:"offset"`
	Size      uint32 `yaml:"size"`
	FileName  string `yaml:"filename,omitempty"`
	FileSize  uint32 `yaml:"filesize"`
	SwVersion string `yaml:"sw_version"`
	Used      bool   `yaml:"used"`
	Valid     bool   `yaml:"valid"`
	Mask      string `yaml:"mask"`
}

func DetectPartInfo(path string) (bool, error) {
	buf, size, err := readHeaderSize(path, partmapHeaderSize)
	if err != nil {
		return false, err
	}
	if len(buf) < partmapHeaderSize {
		return false, nil
	}

	hdr := parsePartmapHeader(buf)
	if _, ok := partmapMagics[hdr.Magic]; !ok {
		return false, nil
	}
	if hdr.NPartition == 0 || hdr.NPartition > maxPartitions {
		return false, nil
	}
	return size >= int64(partmapHeaderSize+int(hdr.NPartition)*partmapEntrySize), nil
}

func parsePartmapHeader(buf []byte) partmapHeader {
	var hdr partmapHeader
	_ = binary.Read(bytes.NewReader(buf), binary.LittleEndian, &hdr)
	return hdr
}

// ReadPartitionInfo decodes a partition map blob.
func ReadPartitionInfo(path string) (*PartitionInfo, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < partmapHeaderSize {
		return nil, fmt.Errorf("partition map %s is truncated", path)
	}

	r := bytes.NewReader(data)

	var hdr partmapHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, err
	}

	layout, ok := partmapMagics[hdr.Magic]
	if !ok {
		return nil, fmt.Errorf("unknown partition map magic %08x", hdr.Magic)
	}

	info := &PartitionInfo{
		Layout:            layout,
		CurrentEPKVersion: fmt.Sprintf("%08x", hdr.CurEPKVer),
		OldEPKVersion:     fmt.Sprintf("%08x", hdr.OldEPKVer),
		Partitions:        make([]Partition, 0, hdr.NPartition),
	}

	for i := 0; i < int(hdr.NPartition); i++ {
		var e partmapEntry
		if err := binary.Read(r, binary.LittleEndian, &e); err != nil {
			return nil, fmt.Errorf("partition %d: %w", i, err)
		}

		info.Partitions = append(info.Partitions, Partition{
			Name:      cString(e.Name[:]),
			Offset:    fmt.Sprintf("0x%08x", e.Offset),
			Size:      e.Size,
			FileName:  cString(e.FileName[:]),
			FileSize:  e.FileSize,
			SwVersion: fmt.Sprintf("%08x", e.SwVer),
			Used:      e.Used != 0,
			Valid:     e.Valid != 0,
			Mask:      fmt.Sprintf("0x%08x", e.Mask),
		})
	}
	return info, nil
}

// ExtractPartInfo writes the partition map as YAML to dst.
func ExtractPartInfo(src, dst string) (string, error) {
	info, err := ReadPartitionInfo(src)
	if err != nil {
		return "", err
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create file %q: %w", dst, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(info); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return dst, f.Close()
}

func cString(b []byte) string {
	s, _, _ := bytes.Cut(b, []byte{0})
	return string(s)
}
