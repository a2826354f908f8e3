package format

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

var (
	lz4FrameMagic  = []byte{0x04, 0x22, 0x4D, 0x18}
	lz4LegacyMagic = []byte{0x02, 0x21, 0x4C, 0x18}
)

var DetectLZ4 = signatureDetector(lz4FrameMagic, lz4LegacyMagic)

// ExtractLZ4 decodes an LZ4 frame or legacy stream.
func ExtractLZ4(src, dst string) (string, error) {
	err := decodeStream(src, dst, func(r io.Reader) (io.Reader, error) {
		return lz4.NewReader(r), nil
	})
	if err != nil {
		return "", err
	}
	return dst, nil
}
