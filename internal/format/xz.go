package format

import (
	"io"

	"github.com/ulikunitz/xz"
)

var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

var DetectXZ = signatureDetector(xzMagic)

func ExtractXZ(src, dst string) (string, error) {
	err := decodeStream(src, dst, func(r io.Reader) (io.Reader, error) {
		return xz.NewReader(r)
	})
	if err != nil {
		return "", err
	}
	return dst, nil
}
