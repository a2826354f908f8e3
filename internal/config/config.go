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
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ostafen/fwunpack/internal/format"
	"gopkg.in/yaml.v3"
)

const DefaultMaxDepth = 32

type Config struct {
	// MaxDepth bounds the number of chained extractions, 0 disables the bound.
	MaxDepth int          `yaml:"max_depth"`
	LogLevel string       `yaml:"log_level"`
	Formats  []string     `yaml:"formats"`
	Tools    format.Tools `yaml:"tools"`
}

func Default() Config {
	return Config{
		MaxDepth: DefaultMaxDepth,
		LogLevel: "INFO",
		Tools:    format.DefaultTools(),
	}
}

// Load reads a YAML configuration file on top of the defaults. An empty
// path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config %q: %w", path, err)
	}
	defer f.Close()

	if err := Decode(f, &cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Decode overlays the YAML document read from r on cfg. Unknown keys are rejected.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative: %d", c.MaxDepth)
	}

	tools := map[string]string{
		"lzop":       c.Tools.Lzop,
		"cramfsswap": c.Tools.CramfsSwap,
		"cramfsck":   c.Tools.Cramfsck,
		"unsquashfs": c.Tools.Unsquashfs,
		"jefferson":  c.Tools.Jefferson,
		"lzhs":       c.Tools.LZHS,
	}
	for name, command := range tools {
		// an empty command disables the codec, a blank one is a typo
		if command != "" && strings.TrimSpace(command) == "" {
			return fmt.Errorf("tools.%s must not be blank", name)
		}
	}
	return nil
}
