package format

import (
	"bytes"
	"encoding/binary"
)

// NFSB images carry a fixed size header with the name of the hash
// algorithm and the size of the signing key, followed by the payload.
const (
	nfsbHeaderSize   = 0x1000
	nfsbAlgoOffset   = 0x0E
	nfsbKeyBitOffset = 0x28
)

var nfsbHashAlgos = [][]byte{
	[]byte("md5"),
	[]byte("sha1"),
	[]byte("sha256"),
}

func DetectNFSB(path string) (bool, error) {
	hdr, err := readHeader(path, nfsbKeyBitOffset+4)
	if err != nil {
		return false, err
	}
	if len(hdr) < nfsbKeyBitOffset+4 {
		return false, nil
	}

	algo, _, _ := bytes.Cut(hdr[nfsbAlgoOffset:nfsbKeyBitOffset], []byte{0})

	known := false
	for _, a := range nfsbHashAlgos {
		if bytes.Equal(algo, a) {
			known = true
			break
		}
	}
	if !known {
		return false, nil
	}

	switch binary.LittleEndian.Uint32(hdr[nfsbKeyBitOffset:]) {
	case 1024, 2048:
		return true, nil
	}
	return false, nil
}

// ExtractNFSB strips the NFSB header. Encrypted payloads are copied as is.
func ExtractNFSB(src, dst string) (string, error) {
	if err := stripHeader(src, dst, nfsbHeaderSize); err != nil {
		return "", err
	}
	return dst, nil
}
