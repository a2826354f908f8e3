package format

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// readHeader returns up to n bytes from the start of the file. A file shorter
// than n yields a short slice, not an error: being too short to hold a format
// is a negative detection. Failing to open the file is fatal.
func readHeader(path string, n int) ([]byte, error) {
	buf, _, err := readHeaderSize(path, n)
	return buf, err
}

// readHeaderSize is like readHeader and also returns the file size.
func readHeaderSize(path string, n int) ([]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, openError(path, err)
	}
	defer f.Close()

	finfo, err := f.Stat()
	if err != nil {
		return nil, 0, openError(path, err)
	}

	buf := make([]byte, n)
	read, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, 0, err
	}
	return buf[:read], finfo.Size(), nil
}

// readFile reads the whole file into memory. A byte count different from
// the file length is fatal.
func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()

	finfo, err := f.Stat()
	if err != nil {
		return nil, openError(path, err)
	}
	size := finfo.Size()

	data := make([]byte, size)
	n, err := io.ReadFull(f, data)
	if err != nil || int64(n) != size {
		return nil, shortReadError(path, int64(n), size)
	}
	return data, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

// stripHeader writes every byte of src after the first size bytes to dst.
func stripHeader(src, dst string, size int) error {
	data, err := readFile(src)
	if err != nil {
		return err
	}
	if len(data) < size {
		return fmt.Errorf("%s is smaller than its %d byte header", src, size)
	}
	return writeFile(dst, data[size:])
}

// decodeStream pipes src through the reader returned by newReader and writes
// the decoded bytes to dst.
func decodeStream(src, dst string, newReader func(io.Reader) (io.Reader, error)) error {
	in, err := os.Open(src)
	if err != nil {
		return openError(src, err)
	}
	defer in.Close()

	r, err := newReader(bufio.NewReader(in))
	if err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", dst, err)
	}
	defer out.Close()

	w := bufio.NewWriterSize(out, 1024*1024)
	if _, err := io.Copy(w, r); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return out.Close()
}

func hasPrefixAt(buf []byte, off int, magic []byte) bool {
	if off+len(magic) > len(buf) {
		return false
	}
	return bytes.Equal(buf[off:off+len(magic)], magic)
}

// signatureDetector builds a DetectFunc matching any of the given magic
// byte sequences at offset 0.
func signatureDetector(signatures ...[]byte) DetectFunc {
	maxLen := 0
	for _, sig := range signatures {
		maxLen = max(maxLen, len(sig))
	}

	return func(path string) (bool, error) {
		hdr, err := readHeader(path, maxLen)
		if err != nil {
			return false, err
		}
		for _, sig := range signatures {
			if hasPrefixAt(hdr, 0, sig) {
				return true, nil
			}
		}
		return false, nil
	}
}
