package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ostafen/fwunpack/internal/config"
	"github.com/ostafen/fwunpack/internal/format"
	"github.com/spf13/cobra"
)

func DefineDetectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "detect <file>...",
		Short:        "Identify the format of one or more files without extracting them",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunDetect,
	}

	cmd.Flags().String("config", "", "path of a YAML configuration file")
	cmd.Flags().StringSlice("formats", nil, "restrict detection to the given format ids")
	return cmd
}

func RunDetect(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("formats") {
		cfg.Formats, _ = cmd.Flags().GetStringSlice("formats")
	}

	registry, err := format.BuildRegistry(cfg.Tools).Filter(cfg.Formats...)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tSIZE\tFORMAT\tPOLICY\tOUTPUT")

	var bootImages []string
	for _, path := range args {
		d, size, err := detect(registry, path)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\terror: %s\t\t\n", path, err)
			continue
		}
		if d == nil {
			fmt.Fprintf(w, "%s\t%s\tunknown\t\t\n", path, humanize.IBytes(uint64(size)))
			continue
		}

		baseName := filepath.Base(path)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			path,
			humanize.IBytes(uint64(size)),
			d.ID,
			d.Policy,
			d.Naming.Path(filepath.Dir(path), baseName),
		)

		if d.ID == "bootimg" {
			bootImages = append(bootImages, path)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, path := range bootImages {
		printBootImage(os.Stdout, path)
	}
	return nil
}

func detect(registry *format.Registry, path string) (*format.Descriptor, int64, error) {
	finfo, err := os.Stat(path)
	if err != nil {
		return nil, 0, err
	}
	if finfo.IsDir() {
		return nil, 0, fmt.Errorf("is a directory")
	}

	d, err := registry.Match(path, filepath.Base(path))
	return d, finfo.Size(), err
}

func printBootImage(w io.Writer, path string) {
	hdr, err := format.CheckBootImage(path)
	if hdr == nil {
		fmt.Fprintf(w, "\n%s: unable to read boot image header: %s\n", path, err)
		return
	}

	fmt.Fprintf(w, "\n%s:\n", path)
	fmt.Fprintf(w, "  Name:        %s\n", hdr.ImageName())
	fmt.Fprintf(w, "  Created:     %s\n", time.Unix(int64(hdr.Time), 0).UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "  Data Size:   %s\n", humanize.IBytes(uint64(hdr.Size)))
	fmt.Fprintf(w, "  Load Addr:   0x%08x\n", hdr.LoadAddr)
	fmt.Fprintf(w, "  Entry Point: 0x%08x\n", hdr.EntryPoint)
	fmt.Fprintf(w, "  Data CRC:    0x%08x\n", hdr.DataCRC)

	if err != nil {
		fmt.Fprintf(w, "  Verify:      FAILED (%s)\n", err)
	} else {
		fmt.Fprintf(w, "  Verify:      OK\n")
	}
}
