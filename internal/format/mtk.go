// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package format

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ostafen/fwunpack/internal/mmap"
)

var mtkBootMagic = []byte("MTK/DTV/ROMCODE/NANDBOOT")

const mtkChunkAlign = 4

var DetectMTKBoot = signatureDetector(mtkBootMagic)

// LZHSChunk locates an LZHS stream embedded in a larger image.
type LZHSChunk struct {
	Offset int64
	Header LZHSHeader
}

// FindLZHSChunks scans data from start for embedded LZHS streams. Chunks
// are aligned to 4 bytes and never overlap.
func FindLZHSChunks(data []byte, start int) []LZHSChunk {
	var chunks []LZHSChunk

	off := alignUp(start, mtkChunkAlign)
	for off+LZHSHeaderSize <= len(data) {
		hdr, ok := ParseLZHSHeader(data[off:])
		if !ok || int64(off)+hdr.StreamSize() > int64(len(data)) {
			off += mtkChunkAlign
			continue
		}

		chunks = append(chunks, LZHSChunk{Offset: int64(off), Header: *hdr})
		off = alignUp(off+int(hdr.StreamSize()), mtkChunkAlign)
	}
	return chunks
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}

// MTKBootCodec splits a MediaTek primary bootloader image. The bootloader
// runs up to the first embedded LZHS stream; every stream is saved next to
// it and decoded when an LZHS decoder is available.
type MTKBootCodec struct {
	LZHS LZHSCodec
}

func (c MTKBootCodec) Extract(src, dst string) (string, error) {
	mf, err := mmap.Open(src)
	if err != nil {
		return "", openError(src, err)
	}
	defer mf.Close()

	data := mf.Data
	chunks := FindLZHSChunks(data, len(mtkBootMagic))

	pblEnd := len(data)
	if len(chunks) > 0 {
		pblEnd = int(chunks[0].Offset)
	}
	if err := writeFile(dst, data[:pblEnd]); err != nil {
		return "", err
	}

	folder := filepath.Dir(dst)
	for _, chunk := range chunks {
		name := fmt.Sprintf("mtk_%08x", chunk.Offset)
		chunkPath := filepath.Join(folder, name+".lzhs")

		end := chunk.Offset + chunk.Header.StreamSize()
		if err := writeFile(chunkPath, data[chunk.Offset:end]); err != nil {
			return "", err
		}

		// chunks that fail to decode are kept compressed
		if _, err := c.LZHS.Extract(chunkPath, filepath.Join(folder, name+".unlzhs")); err != nil {
			os.Remove(filepath.Join(folder, name+".unlzhs"))
		}
	}
	return dst, nil
}
