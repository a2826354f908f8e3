package unpack

import (
	"bufio"
	"encoding/hex"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// DigestType names the algorithm of the digests recorded in the report.
const DigestType = "blake3"

// FileDigest returns the hex encoded BLAKE3-256 digest of the file at path.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, bufio.NewReader(f)); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
