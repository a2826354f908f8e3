package format

import (
	"bytes"
	"encoding/binary"
)

// LZHSHeader precedes every LZHS stream.
type LZHSHeader struct {
	UncompressedSize uint32
	CompressedSize   uint32
	Checksum         uint8 // sum of the decoded bytes, modulo 256
	Spare            [7]byte
}

const LZHSHeaderSize = 16

const (
	lzhsMaxSize    = 256 << 20
	lzhsMaxPadding = 4096
)

func ParseLZHSHeader(buf []byte) (*LZHSHeader, bool) {
	if len(buf) < LZHSHeaderSize {
		return nil, false
	}

	var hdr LZHSHeader
	if err := binary.Read(bytes.NewReader(buf[:LZHSHeaderSize]), binary.LittleEndian, &hdr); err != nil {
		return nil, false
	}
	return &hdr, hdr.valid()
}

func (h *LZHSHeader) valid() bool {
	if h.CompressedSize < LZHSHeaderSize || h.UncompressedSize == 0 {
		return false
	}
	if h.CompressedSize > lzhsMaxSize || h.UncompressedSize > lzhsMaxSize {
		return false
	}
	if h.UncompressedSize < h.CompressedSize/2 {
		return false
	}
	return h.Spare == [7]byte{}
}

// StreamSize is the size of the header plus the compressed data.
func (h *LZHSHeader) StreamSize() int64 {
	return LZHSHeaderSize + int64(h.CompressedSize)
}

// DetectLZHS accepts files holding a single stream, optionally followed by
// alignment padding.
func DetectLZHS(path string) (bool, error) {
	buf, size, err := readHeaderSize(path, LZHSHeaderSize)
	if err != nil {
		return false, err
	}

	hdr, ok := ParseLZHSHeader(buf)
	if !ok {
		return false, nil
	}

	streamSize := hdr.StreamSize()
	return streamSize <= size && size-streamSize < lzhsMaxPadding, nil
}

// LZHSCodec decodes LZHS streams with an external decoder invoked as
// "<command> <src> <dst>".
type LZHSCodec struct {
	Command string
}

func (c LZHSCodec) Extract(src, dst string) (string, error) {
	if err := runTool(c.Command, nil, src, dst); err != nil {
		return "", err
	}
	return dst, nil
}
