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
	"bufio"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/ostafen/fwunpack/pkg/dfxml"
	"github.com/spf13/cobra"
)

func DefineReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <report_file>",
		Short: "Print the extraction chain recorded in an unpack report",
		Long: `The 'report' command reads a DFXML report written by 'unpack' and prints
the source image followed by every extraction step, in the order it was performed.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunReport,
	}
	return cmd
}

func RunReport(cmd *cobra.Command, args []string) error {
	reportFile, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer reportFile.Close()

	report, err := dfxml.ReadReport(bufio.NewReader(reportFile))
	if err != nil {
		return fmt.Errorf("invalid report %q: %w", args[0], err)
	}

	fmt.Printf("Image:   %s (%s)\n", report.Source.ImageFilename, humanize.IBytes(report.Source.ImageSize))
	fmt.Printf("Output:  %s\n", report.Source.OutputDir)
	fmt.Printf("Creator: %s %s\n\n", report.Creator.Package, report.Creator.Version)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEPTH\tFORMAT\tSTATUS\tSIZE\tOUTPUT\tDIGEST\tERROR")
	for _, obj := range report.Objects {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			obj.Depth,
			obj.Format,
			obj.Status,
			humanize.IBytes(obj.FileSize),
			obj.Filename,
			shortDigest(obj.Digests),
			obj.Error,
		)
	}
	return w.Flush()
}

func shortDigest(digests []dfxml.HashDigest) string {
	if len(digests) == 0 {
		return "-"
	}
	d := digests[0]
	if len(d.Value) > 16 {
		return d.Type + ":" + d.Value[:16]
	}
	return d.Type + ":" + d.Value
}
