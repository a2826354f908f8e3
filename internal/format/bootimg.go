package format

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// BootImageMagic identifies a u-boot legacy image header.
const BootImageMagic uint32 = 0x27051956

// BootImageHeader is the legacy u-boot image header. All fields are stored
// in network byte order.
type BootImageHeader struct {
	Magic       uint32
	HeaderCRC   uint32
	Time        uint32
	Size        uint32 // payload size
	LoadAddr    uint32
	EntryPoint  uint32
	DataCRC     uint32
	OS          uint8
	Arch        uint8
	Type        uint8
	Compression uint8
	Name        [32]byte
}

// BootImageHeaderSize is the on-disk size of BootImageHeader (64 bytes).
var BootImageHeaderSize = binary.Size(BootImageHeader{})

func (h *BootImageHeader) ImageName() string {
	name, _, _ := bytes.Cut(h.Name[:], []byte{0})
	return string(name)
}

// ParseBootImageHeader decodes a header from the start of buf.
func ParseBootImageHeader(buf []byte) (*BootImageHeader, error) {
	if len(buf) < BootImageHeaderSize {
		return nil, fmt.Errorf("boot image header needs %d bytes, got %d", BootImageHeaderSize, len(buf))
	}

	var hdr BootImageHeader
	if err := binary.Read(bytes.NewReader(buf[:BootImageHeaderSize]), binary.BigEndian, &hdr); err != nil {
		return nil, err
	}
	return &hdr, nil
}

// ReadBootImageHeader reads the header of the file at path.
func ReadBootImageHeader(path string) (*BootImageHeader, error) {
	buf, err := readHeader(path, BootImageHeaderSize)
	if err != nil {
		return nil, err
	}
	return ParseBootImageHeader(buf)
}

// DetectBootImage reports whether the file starts with a boot image header.
// Files shorter than the header are not boot images.
func DetectBootImage(path string) (bool, error) {
	buf, err := readHeader(path, BootImageHeaderSize)
	if err != nil {
		return false, err
	}
	if len(buf) < BootImageHeaderSize {
		return false, nil
	}
	return binary.BigEndian.Uint32(buf) == BootImageMagic, nil
}

// ExtractBootImage writes the payload following the header to dst. The
// payload is copied unchanged.
func ExtractBootImage(src, dst string) (string, error) {
	if err := stripHeader(src, dst, BootImageHeaderSize); err != nil {
		return "", err
	}
	return dst, nil
}

// VerifyBootImage checks the declared payload size and data checksum
// against the payload that follows the header.
func VerifyBootImage(hdr *BootImageHeader, payload []byte) error {
	if int(hdr.Size) != len(payload) {
		return fmt.Errorf("declared payload size %d, found %d", hdr.Size, len(payload))
	}
	if sum := crc32.ChecksumIEEE(payload); sum != hdr.DataCRC {
		return fmt.Errorf("data crc mismatch: header %08x, computed %08x", hdr.DataCRC, sum)
	}
	return nil
}

// CheckBootImage reads the boot image at path and verifies its payload.
// The header is returned whenever it could be decoded, even if the payload
// does not match it.
func CheckBootImage(path string) (*BootImageHeader, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	hdr, err := ParseBootImageHeader(data)
	if err != nil {
		return nil, err
	}
	return hdr, VerifyBootImage(hdr, data[BootImageHeaderSize:])
}
