package format

// TrustFirmwareName is the base name of the artifact carrying the MediaTek
// trust firmware ELF. Other ELF files are left alone.
const TrustFirmwareName = "tzfw.pak"

// DefaultDescriptors returns the built-in descriptors in evaluation order.
func DefaultDescriptors(tools Tools) []Descriptor {
	lzhs := LZHSCodec{Command: tools.LZHS}
	cramfs := CramfsCodec{SwapCommand: tools.CramfsSwap, ExtractCommand: tools.Cramfsck}

	return []Descriptor{
		{
			ID:          "lz4",
			Description: "LZ4 frame or legacy stream",
			Signatures:  [][]byte{lz4FrameMagic, lz4LegacyMagic},
			Naming:      Naming{Suffix: ".unlz4"},
			Policy:      Recurse,
			Detect:      DetectLZ4,
			Extract:     ExtractLZ4,
		},
		{
			ID:          "lzo",
			Description: "lzop compressed file",
			Signatures:  [][]byte{lzopMagic},
			Naming:      Naming{Suffix: ".unpacked"},
			Policy:      Recurse,
			Detect:      DetectLZO,
			Extract:     LZOCodec{Command: tools.Lzop}.Extract,
		},
		{
			ID:          "gzip",
			Description: "gzip stream, restored under its original name",
			Signatures:  [][]byte{gzipMagic},
			Naming:      Naming{Folder: true},
			Policy:      Terminal,
			Detect:      DetectGzip,
			Extract:     ExtractGzip,
		},
		{
			ID:          "xz",
			Description: "xz stream",
			Signatures:  [][]byte{xzMagic},
			Naming:      Naming{Suffix: ".unxz"},
			Policy:      Recurse,
			Detect:      DetectXZ,
			Extract:     ExtractXZ,
		},
		{
			ID:          "mtk-boot",
			Description: "MediaTek primary bootloader with embedded LZHS streams",
			Signatures:  [][]byte{mtkBootMagic},
			Naming:      Naming{Name: "mtk_pbl.bin"},
			Policy:      Terminal,
			Detect:      DetectMTKBoot,
			Extract:     MTKBootCodec{LZHS: lzhs}.Extract,
		},
		{
			ID:          "cramfs-be",
			Description: "big endian CramFS image, converted to little endian",
			Signatures:  [][]byte{{0x28, 0xCD, 0x3D, 0x45}},
			Naming:      Naming{Suffix: ".cramswap"},
			Policy:      Recurse,
			Detect:      DetectCramfsBE,
			Extract:     cramfs.Swap,
		},
		{
			ID:          "cramfs-le",
			Description: "little endian CramFS image",
			Signatures:  [][]byte{{0x45, 0x3D, 0xCD, 0x28}},
			Naming:      Naming{Dir: true},
			Policy:      Terminal,
			ClearDest:   true,
			Detect:      DetectCramfsLE,
			Extract:     cramfs.Extract,
		},
		{
			ID:          "bootimg",
			Description: "u-boot legacy image, header stripped",
			Signatures:  [][]byte{{0x27, 0x05, 0x19, 0x56}},
			Naming:      Naming{Suffix: ".unpaked"},
			Policy:      Recurse,
			Detect:      DetectBootImage,
			Extract:     ExtractBootImage,
		},
		{
			ID:          "nfsb",
			Description: "NFSB signed container, header stripped",
			Naming:      Naming{Suffix: ".unnfsb"},
			Policy:      Recurse,
			Detect:      DetectNFSB,
			Extract:     ExtractNFSB,
		},
		{
			ID:          "squashfs",
			Description: "SquashFS image",
			Signatures:  [][]byte{squashfsMagicLE, squashfsMagicBE},
			Naming:      Naming{Dir: true},
			Policy:      Terminal,
			ClearDest:   true,
			Detect:      DetectSquashfs,
			Extract:     SquashfsCodec{Command: tools.Unsquashfs}.Extract,
		},
		{
			ID:          "partinfo",
			Description: "partition map, dumped as YAML",
			Signatures:  [][]byte{{0x29, 0x07, 0x11, 0x20}, {0x16, 0x07, 0x12, 0x20}},
			Naming:      Naming{Suffix: ".txt"},
			Policy:      Terminal,
			Detect:      DetectPartInfo,
			Extract:     ExtractPartInfo,
		},
		{
			ID:          "jffs2",
			Description: "JFFS2 image",
			Signatures:  [][]byte{{0x85, 0x19}, {0x19, 0x85}},
			Naming:      Naming{Dir: true},
			Policy:      Terminal,
			ClearDest:   true,
			Detect:      DetectJFFS2,
			Extract:     JFFS2Codec{Command: tools.Jefferson}.Extract,
		},
		{
			ID:          "lzhs",
			Description: "LZHS stream",
			Naming:      Naming{Suffix: ".unlzhs"},
			Policy:      Recurse,
			Detect:      DetectLZHS,
			Extract:     lzhs.Extract,
		},
		{
			ID:          "tzfw",
			Description: "trust firmware ELF, split into loadable segments",
			Signatures:  [][]byte{elfMagic},
			Naming:      Naming{Suffix: ".split", Dir: true},
			Policy:      Terminal,
			BaseName:    TrustFirmwareName,
			Detect:      DetectELF,
			Extract:     SplitELF,
		},
	}
}

// BuildRegistry returns a registry holding the default descriptors.
func BuildRegistry(tools Tools) *Registry {
	r := NewRegistry()
	for _, d := range DefaultDescriptors(tools) {
		if err := r.Add(d); err != nil {
			panic(err)
		}
	}
	return r
}
