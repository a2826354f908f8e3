package unpack_test

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/ostafen/fwunpack/internal/format"
	"github.com/ostafen/fwunpack/internal/unpack"
	"github.com/ostafen/fwunpack/pkg/dfxml"
	"github.com/stretchr/testify/require"
)

func TestUnpack(t *testing.T) {
	src := writeInput(t, "kernel.bin", bootImage(t, lz4Data(t, plainPayload)))
	outDir := filepath.Join(t.TempDir(), "out")

	var console bytes.Buffer
	summary, err := unpack.Unpack(src, unpack.Options{
		OutputDir:  outDir,
		DisableLog: true,
		Stdout:     &console,
	})
	require.NoError(t, err)
	require.Equal(t, 2, summary.Extracted)
	require.Zero(t, summary.Failed)
	require.Empty(t, summary.LogFile)

	require.FileExists(t, filepath.Join(outDir, "kernel.bin.unpaked"))
	require.FileExists(t, filepath.Join(outDir, "kernel.bin.unlz4"))
	require.Contains(t, console.String(), "[INFO] Unpack completed!")

	f, err := os.Open(summary.ReportFile)
	require.NoError(t, err)
	defer f.Close()

	report, err := dfxml.ReadReport(f)
	require.NoError(t, err)
	require.Len(t, report.Objects, 2)
	require.Equal(t, "bootimg", report.Objects[0].Format)
	require.Equal(t, "lz4", report.Objects[1].Format)
	require.Equal(t, 1, report.Objects[1].Depth)
	require.Equal(t, uint64(len(plainPayload)), report.Objects[1].FileSize)

	digest, err := unpack.FileDigest(filepath.Join(outDir, "kernel.bin.unlz4"))
	require.NoError(t, err)
	require.Equal(t, []dfxml.HashDigest{{Type: unpack.DigestType, Value: digest}}, report.Objects[1].Digests)
}

func TestFileDigest(t *testing.T) {
	a := writeInput(t, "a.bin", []byte("payload"))
	b := writeInput(t, "b.bin", []byte("payload"))
	c := writeInput(t, "c.bin", []byte("other"))

	da, err := unpack.FileDigest(a)
	require.NoError(t, err)
	require.Len(t, da, 64)

	db, err := unpack.FileDigest(b)
	require.NoError(t, err)
	require.Equal(t, da, db)

	dc, err := unpack.FileDigest(c)
	require.NoError(t, err)
	require.NotEqual(t, da, dc)

	_, err = unpack.FileDigest(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestUnpack_BaseNameAndFormats(t *testing.T) {
	src := writeInput(t, "kernel.bin", bootImage(t, lz4Data(t, plainPayload)))
	outDir := t.TempDir()

	summary, err := unpack.Unpack(src, unpack.Options{
		OutputDir:  outDir,
		BaseName:   "uImage",
		DisableLog: true,
		Formats:    []string{"bootimg"},
		Stdout:     &bytes.Buffer{},
	})
	require.NoError(t, err)
	require.Len(t, summary.Steps, 1)
	require.Equal(t, filepath.Join(outDir, "uImage.unpaked"), summary.Steps[0].Output)
}

func TestUnpack_UnknownFormatFilter(t *testing.T) {
	src := writeInput(t, "kernel.bin", plainPayload)

	_, err := unpack.Unpack(src, unpack.Options{
		OutputDir: t.TempDir(),
		Formats:   []string{"zip"},
		Stdout:    &bytes.Buffer{},
	})
	require.Error(t, err)
}

func TestUnpack_MissingInput(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	_, err := unpack.Unpack(filepath.Join(dir, "missing.bin"), unpack.Options{
		OutputDir: outDir,
		Stdout:    &bytes.Buffer{},
	})
	require.ErrorIs(t, err, format.ErrOpen)
	require.True(t, format.IsFatal(err))
	require.NoDirExists(t, outDir)
}

func TestUnpack_WritesLog(t *testing.T) {
	src := writeInput(t, "kernel.bin", bootImage(t, plainPayload))
	outDir := t.TempDir()

	summary, err := unpack.Unpack(src, unpack.Options{
		OutputDir: outDir,
		Stdout:    &bytes.Buffer{},
	})
	require.NoError(t, err)
	require.NotEmpty(t, summary.LogFile)

	data, err := os.ReadFile(summary.LogFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "format=bootimg")
}

func TestFormatDurationHMS(t *testing.T) {
	require.Equal(t, "00:00:01", unpack.FormatDurationHMS(time.Second))
	require.Equal(t, "01:01:01", unpack.FormatDurationHMS(time.Hour+time.Minute+time.Second))
	require.Equal(t, "0.50s", unpack.FormatDurationHMS(500*time.Millisecond))
}

func TestUnpack_DefaultOutputDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	src := writeInput(t, "rootfs.bin", append([]byte("hsqs"), make([]byte, 60)...))

	// stands in for unsquashfs -n -d <dst> <src>
	unsquashfs := filepath.Join(t.TempDir(), "unsquashfs")
	script := "#!/bin/sh\nmkdir \"$3\" && echo extracted > \"$3\"/marker\n"
	require.NoError(t, os.WriteFile(unsquashfs, []byte(script), 0755))

	tools := format.DefaultTools()
	tools.Unsquashfs = unsquashfs

	summary, err := unpack.Unpack(src, unpack.Options{
		DisableLog: true,
		Tools:      tools,
		Stdout:     &bytes.Buffer{},
	})
	require.NoError(t, err)

	outDir := filepath.Join(filepath.Dir(src), "rootfs.bin_extracted")
	require.Equal(t, outDir, summary.OutputDir)
	require.Equal(t, 1, summary.Extracted)
	require.Zero(t, summary.Failed)
	require.Equal(t, "squashfs", summary.Steps[0].Format)
	require.FileExists(t, filepath.Join(outDir, "rootfs.bin", "marker"))

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.Equal(t, []byte("hsqs"), data[:4])
}

func TestUnpack_OutputDirIsInputDir(t *testing.T) {
	src := writeInput(t, "rootfs.bin", append([]byte("hsqs"), make([]byte, 60)...))
	dir := filepath.Dir(src)

	_, err := unpack.Unpack(src, unpack.Options{
		OutputDir: dir,
		Stdout:    &bytes.Buffer{},
	})
	require.ErrorIs(t, err, unpack.ErrOutputDir)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestUnpack_InvalidBaseName(t *testing.T) {
	src := writeInput(t, "kernel.bin", bootImage(t, plainPayload))

	for _, name := range []string{".", "..", "a/b", "../kernel.bin", `a\b`} {
		outDir := filepath.Join(t.TempDir(), "out")

		_, err := unpack.Unpack(src, unpack.Options{
			OutputDir: outDir,
			BaseName:  name,
			Stdout:    &bytes.Buffer{},
		})
		require.ErrorIs(t, err, unpack.ErrBaseName, name)
		require.NoDirExists(t, outDir)
	}
}

func TestDefaultOutputDir(t *testing.T) {
	require.Equal(t, filepath.Join("fw", "rootfs.bin_extracted"), unpack.DefaultOutputDir(filepath.Join("fw", "rootfs.bin")))
}
