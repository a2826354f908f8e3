package format_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ostafen/fwunpack/internal/format"
	"github.com/stretchr/testify/require"
)

// prefixDetector matches files starting with prefix.
func prefixDetector(prefix string) format.DetectFunc {
	return func(path string) (bool, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return false, &format.FatalError{Kind: format.ErrOpen, Path: path, Err: err}
		}
		return bytes.HasPrefix(data, []byte(prefix)), nil
	}
}

// copyExtractor writes content to dst, creating a directory first when dir is set.
func copyExtractor(content string, dir bool) format.ExtractFunc {
	return func(src, dst string) (string, error) {
		if dir {
			if err := os.MkdirAll(dst, 0755); err != nil {
				return "", err
			}
			return dst, os.WriteFile(filepath.Join(dst, "content"), []byte(content), 0644)
		}
		return dst, os.WriteFile(dst, []byte(content), 0644)
	}
}

func newTestRegistry(t *testing.T, descriptors ...format.Descriptor) *format.Registry {
	t.Helper()

	r := format.NewRegistry()
	for _, d := range descriptors {
		require.NoError(t, r.Add(d))
	}
	return r
}

func TestRegistry_Add(t *testing.T) {
	r := format.NewRegistry()

	d := format.Descriptor{
		ID:      "a",
		Detect:  prefixDetector("A"),
		Extract: copyExtractor("", false),
	}
	require.NoError(t, r.Add(d))
	require.Error(t, r.Add(d))

	require.Error(t, r.Add(format.Descriptor{Detect: d.Detect, Extract: d.Extract}))
	require.Error(t, r.Add(format.Descriptor{ID: "b", Detect: d.Detect}))

	require.Equal(t, 1, r.Len())

	found, ok := r.Lookup("a")
	require.True(t, ok)
	require.Equal(t, "a", found.ID)

	_, ok = r.Lookup("b")
	require.False(t, ok)
}

func TestRegistry_Filter(t *testing.T) {
	r := format.BuildRegistry(format.DefaultTools())

	filtered, err := r.Filter("xz", "lz4")
	require.NoError(t, err)
	require.Equal(t, 2, filtered.Len())

	// registration order is preserved
	ids := []string{}
	for _, d := range filtered.Descriptors() {
		ids = append(ids, d.ID)
	}
	require.Equal(t, []string{"lz4", "xz"}, ids)

	_, err = r.Filter("zip")
	require.Error(t, err)

	all, err := r.Filter()
	require.NoError(t, err)
	require.Equal(t, r.Len(), all.Len())
}

func TestDefaultDescriptors_Order(t *testing.T) {
	var ids []string
	for _, d := range format.DefaultDescriptors(format.DefaultTools()) {
		ids = append(ids, d.ID)
	}

	require.Equal(t, []string{
		"lz4", "lzo", "gzip", "xz", "mtk-boot", "cramfs-be", "cramfs-le",
		"bootimg", "nfsb", "squashfs", "partinfo", "jffs2", "lzhs", "tzfw",
	}, ids)
}

func TestDispatch_FirstMatchWins(t *testing.T) {
	dir := t.TempDir()
	src := writeTestFile(t, dir, "fw.bin", []byte("AB payload"))

	r := newTestRegistry(t,
		format.Descriptor{
			ID:      "first",
			Naming:  format.Naming{Suffix: ".first"},
			Policy:  format.Recurse,
			Detect:  prefixDetector("A"),
			Extract: copyExtractor("first", false),
		},
		format.Descriptor{
			ID:      "second",
			Naming:  format.Naming{Suffix: ".second"},
			Policy:  format.Recurse,
			Detect:  prefixDetector("AB"),
			Extract: copyExtractor("second", false),
		},
	)

	d := format.NewDispatcher(r, nil)
	step, err := d.Dispatch(src, dir, "fw.bin")
	require.NoError(t, err)
	require.Equal(t, "first", step.Format)
	require.Equal(t, format.Extracted, step.Status)
	require.Equal(t, filepath.Join(dir, "fw.bin.first"), step.Output)
	require.Equal(t, int64(len("first")), step.Size)
	require.True(t, step.Continue())

	require.NoFileExists(t, filepath.Join(dir, "fw.bin.second"))
}

func TestDispatch_NoMatch(t *testing.T) {
	dir := t.TempDir()
	src := writeTestFile(t, dir, "fw.bin", []byte("plain data"))

	d := format.NewDispatcher(format.BuildRegistry(format.DefaultTools()), nil)
	step, err := d.Dispatch(src, dir, "fw.bin")
	require.NoError(t, err)
	require.Equal(t, format.NotApplicable, step.Status)
	require.Empty(t, step.Format)
	require.False(t, step.Continue())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDispatch_MissingInput(t *testing.T) {
	dir := t.TempDir()

	d := format.NewDispatcher(format.BuildRegistry(format.DefaultTools()), nil)
	_, err := d.Dispatch(filepath.Join(dir, "missing.bin"), dir, "missing.bin")
	require.Error(t, err)
	require.True(t, format.IsFatal(err))
	require.ErrorIs(t, err, format.ErrOpen)
}

func TestDispatch_TerminalPolicy(t *testing.T) {
	dir := t.TempDir()
	src := writeTestFile(t, dir, "fw.bin", []byte("T"))

	r := newTestRegistry(t, format.Descriptor{
		ID:      "terminal",
		Naming:  format.Naming{Suffix: ".out"},
		Policy:  format.Terminal,
		Detect:  prefixDetector("T"),
		Extract: copyExtractor("T", false),
	})

	step, err := format.NewDispatcher(r, nil).Dispatch(src, dir, "fw.bin")
	require.NoError(t, err)
	require.Equal(t, format.Extracted, step.Status)
	require.False(t, step.Continue())
}

func TestDispatch_PathCollision(t *testing.T) {
	dir := t.TempDir()
	src := writeTestFile(t, dir, "fw.bin", []byte("C"))

	extracted := false
	r := newTestRegistry(t, format.Descriptor{
		ID:     "same-name",
		Naming: format.Naming{Dir: true},
		Policy: format.Terminal,
		Detect: prefixDetector("C"),
		Extract: func(src, dst string) (string, error) {
			extracted = true
			return dst, nil
		},
	})

	step, err := format.NewDispatcher(r, nil).Dispatch(src, dir, "fw.bin")
	require.NoError(t, err)
	require.Equal(t, format.Failed, step.Status)
	require.ErrorIs(t, step.Err, format.ErrPathCollision)
	require.False(t, extracted)

	require.Equal(t, []byte("C"), readTestFile(t, src))
}

func TestDispatch_ClearDest(t *testing.T) {
	dir := t.TempDir()
	src := writeTestFile(t, dir, "fw.bin", []byte("D"))

	dst := filepath.Join(dir, "fw.bin.d")
	require.NoError(t, os.MkdirAll(dst, 0755))
	writeTestFile(t, dst, "stale", []byte("left over"))

	r := newTestRegistry(t, format.Descriptor{
		ID:        "dir",
		Naming:    format.Naming{Suffix: ".d", Dir: true},
		Policy:    format.Terminal,
		ClearDest: true,
		Detect:    prefixDetector("D"),
		Extract:   copyExtractor("fresh", true),
	})

	step, err := format.NewDispatcher(r, nil).Dispatch(src, dir, "fw.bin")
	require.NoError(t, err)
	require.Equal(t, format.Extracted, step.Status)
	require.Equal(t, dst, step.Output)
	require.Zero(t, step.Size)

	require.NoFileExists(t, filepath.Join(dst, "stale"))
	require.Equal(t, []byte("fresh"), readTestFile(t, filepath.Join(dst, "content")))
}

func TestDispatch_SoftFailure(t *testing.T) {
	dir := t.TempDir()
	src := writeTestFile(t, dir, "fw.bin", []byte("F"))

	cause := errors.New("corrupted stream")
	r := newTestRegistry(t, format.Descriptor{
		ID:     "broken",
		Naming: format.Naming{Suffix: ".out"},
		Policy: format.Recurse,
		Detect: prefixDetector("F"),
		Extract: func(src, dst string) (string, error) {
			return "", cause
		},
	})

	step, err := format.NewDispatcher(r, nil).Dispatch(src, dir, "fw.bin")
	require.NoError(t, err)
	require.Equal(t, format.Failed, step.Status)
	require.ErrorIs(t, step.Err, cause)
	require.False(t, step.Continue())
}

func TestDispatch_FatalExtractError(t *testing.T) {
	dir := t.TempDir()
	src := writeTestFile(t, dir, "fw.bin", []byte("S"))

	r := newTestRegistry(t, format.Descriptor{
		ID:     "short",
		Naming: format.Naming{Suffix: ".out"},
		Policy: format.Recurse,
		Detect: prefixDetector("S"),
		Extract: func(src, dst string) (string, error) {
			return "", &format.FatalError{Kind: format.ErrShortRead, Path: src}
		},
	})

	step, err := format.NewDispatcher(r, nil).Dispatch(src, dir, "fw.bin")
	require.ErrorIs(t, err, format.ErrShortRead)
	require.Equal(t, format.Failed, step.Status)
}

func TestDispatch_BaseNameCondition(t *testing.T) {
	dir := t.TempDir()
	data := testELF(t, 0x1000, []byte("secure world"))

	r := format.BuildRegistry(format.DefaultTools())
	d := format.NewDispatcher(r, nil)

	other := writeTestFile(t, dir, "kernel.elf", data)
	step, err := d.Dispatch(other, dir, "kernel.elf")
	require.NoError(t, err)
	require.Equal(t, format.NotApplicable, step.Status)

	tzfw := writeTestFile(t, dir, format.TrustFirmwareName, data)
	step, err = d.Dispatch(tzfw, dir, format.TrustFirmwareName)
	require.NoError(t, err)
	require.Equal(t, "tzfw", step.Format)
	require.Equal(t, format.Extracted, step.Status)
	require.Equal(t, filepath.Join(dir, "tzfw.pak.split"), step.Output)
	require.False(t, step.Continue())

	require.Equal(t, []byte("secure world"), readTestFile(t, filepath.Join(step.Output, "seg0_00001000.bin")))
}
