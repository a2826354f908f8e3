package format

import "encoding/binary"

const cramfsMagic uint32 = 0x28CD3D45

var cramfsSignature = []byte("Compressed ROMFS")

const cramfsSignatureOffset = 16

func detectCramfs(path string, order binary.ByteOrder) (bool, error) {
	hdr, err := readHeader(path, cramfsSignatureOffset+len(cramfsSignature))
	if err != nil {
		return false, err
	}
	if len(hdr) < cramfsSignatureOffset+len(cramfsSignature) {
		return false, nil
	}
	if order.Uint32(hdr) != cramfsMagic {
		return false, nil
	}
	return hasPrefixAt(hdr, cramfsSignatureOffset, cramfsSignature), nil
}

func DetectCramfsBE(path string) (bool, error) {
	return detectCramfs(path, binary.BigEndian)
}

func DetectCramfsLE(path string) (bool, error) {
	return detectCramfs(path, binary.LittleEndian)
}

// CramfsCodec converts big endian images to little endian and unpacks
// little endian images.
type CramfsCodec struct {
	SwapCommand    string
	ExtractCommand string
}

// Swap writes a little endian copy of a big endian image to dst.
func (c CramfsCodec) Swap(src, dst string) (string, error) {
	if err := runTool(c.SwapCommand, nil, src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// Extract unpacks a little endian image into the directory dstDir, which
// must not exist.
func (c CramfsCodec) Extract(src, dstDir string) (string, error) {
	if err := runTool(c.ExtractCommand, nil, "-x", dstDir, src); err != nil {
		return "", err
	}
	return dstDir, nil
}
