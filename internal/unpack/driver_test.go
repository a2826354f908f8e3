package unpack_test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/ostafen/fwunpack/internal/format"
	"github.com/ostafen/fwunpack/internal/unpack"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

var plainPayload = []byte(strings.Repeat("plain root filesystem bytes ", 64))

func lz4Data(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func gzipData(t *testing.T, name string, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Name = name
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func bootImage(t *testing.T, payload []byte) []byte {
	t.Helper()

	hdr := format.BootImageHeader{
		Magic:   format.BootImageMagic,
		Size:    uint32(len(payload)),
		DataCRC: crc32.ChecksumIEEE(payload),
	}
	copy(hdr.Name[:], "kernel")

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, &hdr))
	buf.Write(payload)
	return buf.Bytes()
}

func writeInput(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func stepFormats(steps []format.Step) []string {
	formats := make([]string, len(steps))
	for i, s := range steps {
		formats[i] = s.Format
	}
	return formats
}

func TestDriver_NestedChain(t *testing.T) {
	src := writeInput(t, "kernel.bin", bootImage(t, lz4Data(t, plainPayload)))
	out := t.TempDir()

	d := unpack.NewDriver(format.BuildRegistry(format.DefaultTools()), nil, 0)
	steps, err := d.Run(src, out, "kernel.bin")
	require.NoError(t, err)
	require.Equal(t, []string{"bootimg", "lz4"}, stepFormats(steps))

	for _, s := range steps {
		require.Equal(t, format.Extracted, s.Status)
	}

	require.Equal(t, filepath.Join(out, "kernel.bin.unpaked"), steps[0].Output)
	require.Equal(t, filepath.Join(out, "kernel.bin.unlz4"), steps[1].Output)

	data, err := os.ReadFile(steps[1].Output)
	require.NoError(t, err)
	require.Equal(t, plainPayload, data)
}

func TestDriver_TerminalStops(t *testing.T) {
	// the decompressed file is itself an lz4 stream, but gzip is terminal
	src := writeInput(t, "fw.bin", gzipData(t, "inner.lz4", lz4Data(t, plainPayload)))
	out := t.TempDir()

	d := unpack.NewDriver(format.BuildRegistry(format.DefaultTools()), nil, 0)
	steps, err := d.Run(src, out, "fw.bin")
	require.NoError(t, err)
	require.Equal(t, []string{"gzip"}, stepFormats(steps))
	require.Equal(t, filepath.Join(out, "inner.lz4"), steps[0].Output)

	require.NoFileExists(t, filepath.Join(out, "fw.bin.unlz4"))
}

func TestDriver_UnknownInput(t *testing.T) {
	src := writeInput(t, "fw.bin", plainPayload)
	out := t.TempDir()

	d := unpack.NewDriver(format.BuildRegistry(format.DefaultTools()), nil, 0)
	steps, err := d.Run(src, out, "fw.bin")
	require.NoError(t, err)
	require.Empty(t, steps)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDriver_MissingInput(t *testing.T) {
	out := t.TempDir()

	d := unpack.NewDriver(format.BuildRegistry(format.DefaultTools()), nil, 0)
	_, err := d.Run(filepath.Join(out, "missing.bin"), out, "missing.bin")
	require.ErrorIs(t, err, format.ErrOpen)
}

func TestDriver_SoftFailureEndsBranch(t *testing.T) {
	// lz4 magic followed by garbage
	data := append([]byte{0x04, 0x22, 0x4D, 0x18}, bytes.Repeat([]byte{0xFF}, 64)...)
	src := writeInput(t, "fw.bin", bootImage(t, data))
	out := t.TempDir()

	d := unpack.NewDriver(format.BuildRegistry(format.DefaultTools()), nil, 0)
	steps, err := d.Run(src, out, "fw.bin")
	require.NoError(t, err)
	require.Equal(t, []string{"bootimg", "lz4"}, stepFormats(steps))
	require.Equal(t, format.Failed, steps[1].Status)
	require.Error(t, steps[1].Err)
}

// chainRegistry holds a single recursive format producing a new file on
// every extraction.
func chainRegistry(t *testing.T) *format.Registry {
	t.Helper()

	n := 0
	r := format.NewRegistry()
	require.NoError(t, r.Add(format.Descriptor{
		ID:     "chain",
		Naming: format.Naming{Suffix: ".chain"},
		Policy: format.Recurse,
		Detect: func(path string) (bool, error) { return true, nil },
		Extract: func(src, dst string) (string, error) {
			n++
			out := fmt.Sprintf("%s.%d", dst, n)
			return out, os.WriteFile(out, []byte("x"), 0644)
		},
	}))
	return r
}

func TestDriver_MaxDepth(t *testing.T) {
	src := writeInput(t, "fw.bin", []byte("x"))
	out := t.TempDir()

	d := unpack.NewDriver(chainRegistry(t), nil, 3)

	var depths []int
	d.OnStep = func(depth int, step format.Step) {
		depths = append(depths, depth)
	}

	steps, err := d.Run(src, out, "fw.bin")
	require.NoError(t, err)
	require.Len(t, steps, 3)
	require.Equal(t, []int{0, 1, 2}, depths)
}

func TestDriver_Cycle(t *testing.T) {
	src := writeInput(t, "fw.bin", []byte("x"))
	out := t.TempDir()

	r := format.NewRegistry()
	require.NoError(t, r.Add(format.Descriptor{
		ID:     "loop",
		Naming: format.Naming{Suffix: ".loop"},
		Policy: format.Recurse,
		Detect: func(path string) (bool, error) { return true, nil },
		Extract: func(src, dst string) (string, error) {
			return src, nil
		},
	}))

	steps, err := unpack.NewDriver(r, nil, 0).Run(src, out, "fw.bin")
	require.NoError(t, err)
	require.Len(t, steps, 1)
}

func TestDriver_GzipNeverReplacesInput(t *testing.T) {
	// the gzip header stores the name of the image being unpacked
	data := bootImage(t, gzipData(t, "kernel.bin", plainPayload))
	src := writeInput(t, "kernel.bin", data)
	folder := filepath.Dir(src)

	d := unpack.NewDriver(format.BuildRegistry(format.DefaultTools()), nil, 0)
	steps, err := d.Run(src, folder, "kernel.bin")
	require.NoError(t, err)
	require.Equal(t, []string{"bootimg", "gzip"}, stepFormats(steps))
	require.Equal(t, format.Failed, steps[1].Status)
	require.ErrorIs(t, steps[1].Err, format.ErrPathCollision)

	got, err := os.ReadFile(src)
	require.NoError(t, err)
	require.Equal(t, data, got)
}
