package format

var (
	squashfsMagicLE = []byte("hsqs")
	squashfsMagicBE = []byte("sqsh")
)

var DetectSquashfs = signatureDetector(squashfsMagicLE, squashfsMagicBE)

type SquashfsCodec struct {
	Command string
}

// Extract unpacks the image into dstDir. unsquashfs refuses to write into
// an existing directory without -f, so dstDir is expected to be cleared.
func (c SquashfsCodec) Extract(src, dstDir string) (string, error) {
	if err := runTool(c.Command, nil, "-n", "-d", dstDir, src); err != nil {
		return "", err
	}
	return dstDir, nil
}
