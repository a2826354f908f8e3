package format

import "encoding/binary"

const jffs2Magic uint16 = 0x1985

var jffs2NodeTypes = map[uint16]bool{
	0xE001: true, // dirent
	0xE002: true, // inode
	0x2003: true, // clean marker
	0x2004: true, // padding
	0x2006: true, // summary
	0xE008: true, // xattr
	0xE009: true, // xattr ref
}

func DetectJFFS2(path string) (bool, error) {
	hdr, err := readHeader(path, 4)
	if err != nil {
		return false, err
	}
	if len(hdr) < 4 {
		return false, nil
	}

	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		if order.Uint16(hdr) == jffs2Magic && jffs2NodeTypes[order.Uint16(hdr[2:])] {
			return true, nil
		}
	}
	return false, nil
}

type JFFS2Codec struct {
	Command string
}

func (c JFFS2Codec) Extract(src, dstDir string) (string, error) {
	if err := runTool(c.Command, nil, "-d", dstDir, src); err != nil {
		return "", err
	}
	return dstDir, nil
}
