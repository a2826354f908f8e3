package format

import (
	"debug/elf"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var elfMagic = []byte(elf.ELFMAG)

var DetectELF = signatureDetector(elfMagic)

// SplitELF writes every loadable segment of src to its own file inside the
// directory dstDir.
func SplitELF(src, dstDir string) (string, error) {
	f, err := elf.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to parse elf %q: %w", src, err)
	}
	defer f.Close()

	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return "", err
	}

	written := 0
	for i, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD || prog.Filesz == 0 {
			continue
		}

		name := fmt.Sprintf("seg%d_%08x.bin", i, prog.Paddr)
		if err := writeSegment(filepath.Join(dstDir, name), prog.Open()); err != nil {
			return "", err
		}
		written++
	}

	if written == 0 {
		return "", fmt.Errorf("elf %q has no loadable segments", src)
	}
	return dstDir, nil
}

func writeSegment(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", path, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return err
	}
	return out.Close()
}
