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
package cmd

import (
	"github.com/ostafen/fwunpack/internal/config"
	"github.com/ostafen/fwunpack/internal/logger"
	"github.com/ostafen/fwunpack/internal/unpack"
	"github.com/spf13/cobra"
)

func DefineUnpackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack <file>",
		Short: "Recursively unpack a firmware image",
		Long: `The 'unpack' command identifies the format of the given file, extracts it and keeps
extracting the produced artifact until a terminal format or an unknown file is reached.
Every artifact is written to the output directory and named after the input file.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunUnpack,
	}

	cmd.Flags().StringP("output", "o", "", "directory receiving the extracted artifacts, must differ from the input directory (defaults to <file>_extracted)")
	cmd.Flags().String("name", "", "base name of the extracted artifacts (defaults to the input file name)")
	cmd.Flags().Int("max-depth", config.DefaultMaxDepth, "maximum number of chained extractions, 0 for no limit")
	cmd.Flags().String("config", "", "path of a YAML configuration file")
	cmd.Flags().StringSlice("formats", nil, "restrict detection to the given format ids")
	cmd.Flags().String("report", "", "path of the DFXML report")
	cmd.Flags().Bool("no-log", false, "disable logging")
	cmd.Flags().String("log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")

	return cmd
}

func RunUnpack(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions(cmd)
	if err != nil {
		return err
	}

	_, err = unpack.Unpack(args[0], opts)
	return err
}

// parseOptions merges the configuration file with the flags set on the
// command line, which take precedence.
func parseOptions(cmd *cobra.Command) (unpack.Options, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return unpack.Options{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		cfg.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("formats") {
		cfg.Formats, _ = flags.GetStringSlice("formats")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return unpack.Options{}, err
	}

	outputDir, _ := flags.GetString("output")
	baseName, _ := flags.GetString("name")
	reportFile, _ := flags.GetString("report")
	disableLog, _ := flags.GetBool("no-log")

	return unpack.Options{
		OutputDir:  outputDir,
		BaseName:   baseName,
		ReportFile: reportFile,
		MaxDepth:   cfg.MaxDepth,
		DisableLog: disableLog,
		LogLevel:   logger.ParseLevel(cfg.LogLevel),
		Formats:    cfg.Formats,
		Tools:      cfg.Tools,
	}, nil
}
