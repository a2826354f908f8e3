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
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Tools holds the commands used by the codecs delegating to external
// unpackers. An empty command disables the corresponding codec.
type Tools struct {
	Lzop       string `yaml:"lzop"`
	CramfsSwap string `yaml:"cramfsswap"`
	Cramfsck   string `yaml:"cramfsck"`
	Unsquashfs string `yaml:"unsquashfs"`
	Jefferson  string `yaml:"jefferson"`
	LZHS       string `yaml:"lzhs"`
}

func DefaultTools() Tools {
	return Tools{
		Lzop:       "lzop",
		CramfsSwap: "cramfsswap",
		Cramfsck:   "cramfsck",
		Unsquashfs: "unsquashfs",
		Jefferson:  "jefferson",
	}
}

// runTool runs command with args. When stdout is not nil the command output
// is written to it. Failures carry the command's stderr.
func runTool(command string, stdout io.Writer, args ...string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return fmt.Errorf("%w: no command configured", ErrToolUnavailable)
	}

	bin, err := exec.LookPath(fields[0])
	if err != nil {
		return fmt.Errorf("%w: %s", ErrToolUnavailable, err)
	}

	var stderr bytes.Buffer
	cmd := exec.Command(bin, append(fields[1:], args...)...)
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return toolError(fields[0], stderr.Bytes(), err)
	}
	return nil
}

func toolError(name string, output []byte, err error) error {
	output = bytes.TrimSpace(output)
	if len(output) == 0 {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return fmt.Errorf("%s failed: %w: %s", name, err, output)
}

// runToolToFile runs command with stdout redirected to dst.
func runToolToFile(command, dst string, args ...string) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", dst, err)
	}
	defer out.Close()

	if err := runTool(command, out, args...); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
