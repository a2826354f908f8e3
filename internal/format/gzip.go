package format

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// gzip magic followed by the deflate method byte
var gzipMagic = []byte{0x1F, 0x8B, 0x08}

var DetectGzip = signatureDetector(gzipMagic)

// ExtractGzip decompresses src into the folder dstDir, restoring the
// original file name stored in the gzip header. Without a stored name the
// source name is used with its .gz extension removed. An existing file with
// the same name is a path collision.
func ExtractGzip(src, dstDir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", openError(src, err)
	}
	defer in.Close()

	zr, err := gzip.NewReader(bufio.NewReader(in))
	if err != nil {
		return "", err
	}
	defer zr.Close()

	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return "", err
	}

	// the stored name is not trusted: an existing file, such as the input
	// or an earlier artifact, is never overwritten
	dst := filepath.Join(dstDir, gzipOutputName(src, zr.Name))
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("%w: %s", ErrPathCollision, dst)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create file %q: %w", dst, err)
	}
	defer out.Close()

	w := bufio.NewWriterSize(out, 1024*1024)
	if _, err := io.Copy(w, zr); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return dst, out.Close()
}

func gzipOutputName(src, origName string) string {
	// the stored name may carry a path; only keep its last element
	name := filepath.Base(filepath.FromSlash(strings.ReplaceAll(origName, "\\", "/")))
	if origName != "" && name != "." && name != ".." && name != string(filepath.Separator) {
		return name
	}

	base := filepath.Base(src)
	switch ext := filepath.Ext(base); ext {
	case ".gz", ".tgz", ".gzip":
		if trimmed := strings.TrimSuffix(base, ext); trimmed != "" {
			return trimmed
		}
	}
	return base + ".ungz"
}
