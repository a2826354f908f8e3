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
package unpack

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/ostafen/fwunpack/internal/format"
	logpkg "github.com/ostafen/fwunpack/internal/logger"
)

var (
	ErrMaxDepth = errors.New("maximum extraction depth reached")
	ErrCycle    = errors.New("artifact already visited")
)

// Driver repeatedly dispatches the artifacts produced by recursive formats
// until a terminal format, an unknown format or a failure is reached.
type Driver struct {
	dispatcher *format.Dispatcher
	logger     *slog.Logger

	// MaxDepth bounds the number of dispatches of a single run; 0 disables the bound.
	MaxDepth int

	// OnStep, if set, is called for every recorded step.
	OnStep func(depth int, step format.Step)
}

func NewDriver(registry *format.Registry, logger *slog.Logger, maxDepth int) *Driver {
	if logger == nil {
		logger = logpkg.Discard()
	}
	return &Driver{
		dispatcher: format.NewDispatcher(registry, logger),
		logger:     logger,
		MaxDepth:   maxDepth,
	}
}

// Run unpacks path into folder. Every artifact derived from path is named
// after baseName. It returns the extraction attempts in order; a file no
// format matches ends the run without a step. A non-nil error is always fatal.
func (d *Driver) Run(path, folder, baseName string) ([]format.Step, error) {
	var steps []format.Step

	seen := map[string]bool{key(path): true}
	current := path

	for depth := 0; ; depth++ {
		if d.MaxDepth > 0 && depth >= d.MaxDepth {
			d.logger.Warn("stopping extraction", "file", current, "err", ErrMaxDepth, "depth", depth)
			return steps, nil
		}

		step, err := d.dispatcher.Dispatch(current, folder, baseName)
		if step.Format != "" || err != nil {
			steps = append(steps, step)
			if d.OnStep != nil {
				d.OnStep(depth, step)
			}
		}
		if err != nil {
			return steps, err
		}

		if !step.Continue() {
			d.logger.Debug("extraction finished", "file", current, "status", step.Status, "policy", step.Policy)
			return steps, nil
		}

		next := key(step.Output)
		if seen[next] {
			d.logger.Warn("stopping extraction", "file", step.Output, "err", ErrCycle)
			return steps, nil
		}
		seen[next] = true
		current = step.Output
	}
}

func key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
