package format_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/ostafen/fwunpack/internal/format"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func readTestFile(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func bootImage(t *testing.T, name string, payload []byte) []byte {
	t.Helper()

	hdr := format.BootImageHeader{
		Magic:      format.BootImageMagic,
		Time:       1700000000,
		Size:       uint32(len(payload)),
		LoadAddr:   0x80008000,
		EntryPoint: 0x80008000,
		DataCRC:    crc32IEEE(payload),
		OS:         5,
		Arch:       2,
		Type:       2,
	}
	copy(hdr.Name[:], name)

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, &hdr))
	buf.Write(payload)
	return buf.Bytes()
}

func lzhsHeader(uncompressed, compressed uint32) []byte {
	buf := make([]byte, format.LZHSHeaderSize)
	binary.LittleEndian.PutUint32(buf, uncompressed)
	binary.LittleEndian.PutUint32(buf[4:], compressed)
	return buf
}
