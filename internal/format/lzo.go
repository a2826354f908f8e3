package format

var lzopMagic = []byte{0x89, 'L', 'Z', 'O', 0x00, 0x0D, 0x0A, 0x1A, 0x0A}

var DetectLZO = signatureDetector(lzopMagic)

// LZOCodec decompresses lzop files with the lzop command.
type LZOCodec struct {
	Command string
}

func (c LZOCodec) Extract(src, dst string) (string, error) {
	if err := runToolToFile(c.Command, dst, "-d", "-c", src); err != nil {
		return "", err
	}
	return dst, nil
}
