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
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ostafen/fwunpack/internal/env"
	"github.com/ostafen/fwunpack/internal/format"
	"github.com/ostafen/fwunpack/internal/logger"
	"github.com/ostafen/fwunpack/pkg/dfxml"
	osutils "github.com/ostafen/fwunpack/pkg/util/os"
)

var (
	ErrOutputDir = errors.New("output directory must differ from the input directory")
	ErrBaseName  = errors.New("invalid artifact base name")
)

type Options struct {
	OutputDir  string // defaults to <input>_extracted next to the input
	BaseName   string // defaults to the input file name
	ReportFile string // defaults to report_<session>.xml inside OutputDir
	MaxDepth   int
	DisableLog bool
	LogLevel   slog.Level
	Formats    []string
	Tools      format.Tools
	Stdout     io.Writer // console output, defaults to os.Stdout
}

// Summary describes a completed unpack session.
type Summary struct {
	Steps      []format.Step
	Extracted  int
	Failed     int
	OutputDir  string
	ReportFile string
	LogFile    string
	Duration   time.Duration
}

// Unpack extracts the firmware image at filePath into opts.OutputDir.
// The input is checked before anything is written.
func Unpack(filePath string, opts Options) (*Summary, error) {
	imgInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, &format.FatalError{Kind: format.ErrOpen, Path: filePath, Err: err}
	}
	if imgInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	baseName := opts.BaseName
	if baseName == "" {
		baseName = filepath.Base(filePath)
	}
	if err := validateBaseName(baseName); err != nil {
		return nil, err
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = DefaultOutputDir(filePath)
	}
	// artifacts are named after the input, writing them next to it could
	// replace it
	if absPath(outputDir) == absPath(filepath.Dir(filePath)) {
		return nil, fmt.Errorf("%w: %s", ErrOutputDir, outputDir)
	}

	registry, err := format.BuildRegistry(opts.Tools).Filter(opts.Formats...)
	if err != nil {
		return nil, err
	}

	if _, err := osutils.EnsureDir(outputDir, false); err != nil {
		return nil, err
	}

	session := GenSessionID()

	var logFilePath string
	if !opts.DisableLog {
		logFilePath = absPath(filepath.Join(outputDir, session+".log"))
	}

	log, logFile, err := logger.Setup(logFilePath, opts.LogLevel)
	if err != nil {
		return nil, err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	reportFileName := opts.ReportFile
	if reportFileName == "" {
		reportFileName = filepath.Join(outputDir, fmt.Sprintf("report_%s.xml", session))
	}

	reportFile, err := os.Create(reportFileName)
	if err != nil {
		return nil, err
	}
	defer reportFile.Close()

	reportWriter := dfxml.NewDFXMLWriter(reportFile)

	err = reportWriter.WriteHeader(dfxml.DFXMLHeader{
		XmlOutput: dfxml.XmlOutputVersion,
		Metadata:  dfxml.DefaultMetadata,
		Creator: dfxml.Creator{
			Package:              env.AppName,
			Version:              env.Version,
			ExecutionEnvironment: dfxml.GetExecEnv(),
		},
		Source: dfxml.Source{
			ImageFilename: absPath(filePath),
			ImageSize:     uint64(imgInfo.Size()),
			OutputDir:     absPath(outputDir),
		},
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out, "[INFO] Starting unpack operation...")
	fmt.Fprintf(out, "[INFO] Source: \t%s (%s)\n", absPath(filePath), humanize.IBytes(uint64(imgInfo.Size())))
	fmt.Fprintf(out, "[INFO] Destination: \t%s\n", absPath(outputDir))
	fmt.Fprintf(out, "[INFO] Formats: \t%d\n", registry.Len())

	outLog := "disabled"
	if !opts.DisableLog {
		outLog = logFilePath
	}
	fmt.Fprintf(out, "[INFO] Output Log: \t%s\n", outLog)

	start := time.Now()
	summary := &Summary{
		OutputDir:  absPath(outputDir),
		ReportFile: absPath(reportFileName),
		LogFile:    logFilePath,
	}

	driver := NewDriver(registry, log, opts.MaxDepth)
	driver.OnStep = func(depth int, step format.Step) {
		printStep(out, step)

		switch step.Status {
		case format.Extracted:
			summary.Extracted++
		case format.Failed:
			summary.Failed++
		}

		obj := dfxml.FileObject{
			Filename: step.Output,
			FileSize: uint64(step.Size),
			Parent:   step.Source,
			Format:   step.Format,
			Status:   step.Status.String(),
			Depth:    depth,
		}
		if step.Err != nil {
			obj.Error = step.Err.Error()
		}
		if step.Status == format.Extracted && step.Size > 0 {
			digest, err := FileDigest(step.Output)
			if err != nil {
				log.Warn("unable to hash artifact", "file", step.Output, "err", err)
			} else {
				obj.Digests = []dfxml.HashDigest{{Type: DigestType, Value: digest}}
			}
		}
		if err := reportWriter.WriteFileObject(obj); err != nil {
			log.Error("unable to write report entry", "err", err)
		}
	}

	steps, runErr := driver.Run(filePath, outputDir, baseName)
	summary.Steps = steps
	summary.Duration = time.Since(start)

	if err := reportWriter.Close(); err != nil {
		log.Error("unable to finalize report", "err", err)
	}

	if runErr != nil {
		log.Error("unpack aborted", "err", runErr)
		fmt.Fprintf(out, "[ERROR] Unpack aborted: %s\n", runErr)
		return summary, runErr
	}

	fmt.Fprintln(out, "[INFO] Unpack completed!")
	fmt.Fprintf(out, "[INFO] Extractions: \t%d (%d failed)\n", summary.Extracted, summary.Failed)
	fmt.Fprintf(out, "[INFO] Duration: \t%s\n", FormatDurationHMS(summary.Duration))
	fmt.Fprintf(out, "[INFO] Report saved to: \t%s\n", summary.ReportFile)
	return summary, nil
}

func printStep(out io.Writer, step format.Step) {
	switch step.Status {
	case format.Extracted:
		size := ""
		if step.Size > 0 {
			size = " (" + humanize.IBytes(uint64(step.Size)) + ")"
		}
		fmt.Fprintf(out, "[INFO] %s: %s -> %s%s\n", step.Format, step.Source, step.Output, size)
	case format.Failed:
		fmt.Fprintf(out, "[WARN] %s: %s: %s\n", step.Format, step.Source, step.Err)
	}
}

// DefaultOutputDir returns the folder receiving the artifacts of filePath
// when no output directory is given.
func DefaultOutputDir(filePath string) string {
	return filepath.Join(filepath.Dir(filePath), filepath.Base(filePath)+"_extracted")
}

// validateBaseName rejects names that would place artifacts outside of, or
// on top of, the output directory.
func validateBaseName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrBaseName, name)
	}
	return nil
}

func absPath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

// GenSessionID creates a unique name for an unpack session,
// formatted as "unpack_YYYYMMDD_HHMMSS".
func GenSessionID() string {
	return "unpack_" + time.Now().Format("20060102_150405")
}

// FormatDurationHMS formats a time.Duration into HH:MM:SS string.
func FormatDurationHMS(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	totalSeconds := int64(d.Seconds())

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
