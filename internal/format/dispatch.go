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
	"log/slog"
	"os"
	"path/filepath"

	logpkg "github.com/ostafen/fwunpack/internal/logger"
	osutils "github.com/ostafen/fwunpack/pkg/util/os"
)

type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
}

func NewDispatcher(registry *Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logpkg.Discard()
	}
	return &Dispatcher{
		registry: registry,
		logger:   logger,
	}
}

// Dispatch runs the first descriptor matching path. At most one descriptor
// fires per call. The returned error is non-nil only for fatal failures.
func (d *Dispatcher) Dispatch(path, folder, baseName string) (Step, error) {
	step := Step{Source: path, Status: NotApplicable}

	desc, err := d.registry.Match(path, baseName)
	if err != nil {
		return step, err
	}
	if desc == nil {
		d.logger.Debug("no format matched", "file", path)
		return step, nil
	}

	dst := desc.Naming.Path(folder, baseName)

	step.Format = desc.ID
	step.Policy = desc.Policy
	step.Output = dst

	if samePath(path, dst) {
		step.Status = Failed
		step.Err = fmt.Errorf("%w: %s", ErrPathCollision, dst)
		d.logger.Warn("refusing to overwrite source", "format", desc.ID, "file", path)
		return step, nil
	}

	if desc.ClearDest {
		if err := osutils.ClearDir(dst); err != nil {
			step.Status = Failed
			step.Err = err
			d.logger.Error("unable to clear destination", "format", desc.ID, "dst", dst, "err", err)
			return step, nil
		}
	}

	d.logger.Info("extracting", "format", desc.ID, "src", path, "dst", dst)

	out, err := desc.Extract(path, dst)
	if IsFatal(err) {
		step.Status = Failed
		step.Err = err
		return step, err
	}
	if err != nil {
		step.Status = Failed
		step.Err = err
		d.logger.Warn("extraction failed", "format", desc.ID, "src", path, "err", err)
		return step, nil
	}

	step.Status = Extracted
	step.Output = out

	if finfo, err := os.Stat(out); err == nil && finfo.Mode().IsRegular() {
		step.Size = finfo.Size()
	}
	return step, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
