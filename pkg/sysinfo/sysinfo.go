package sysinfo

import (
	"bufio"
	"os"
	"runtime"
	"strings"
)

// SysUnknown is a pre-defined SysInfo struct representing unknown system information.
var SysUnknown = SysInfo{
	Name:    runtime.GOOS,
	Release: "unknown",
	Version: "unknown",
}

// SysInfo holds the basic operating system details.
type SysInfo struct {
	Name    string // The name of the operating system (e.g., "linux", "darwin", "windows").
	Release string // The distribution or kernel release (e.g., "Ubuntu 24.04", "6.8.0-31-generic").
	Version string // The specific build or kernel version of the OS.
}

// Stat gathers and returns detailed operating system information.
func Stat() (*SysInfo, error) {
	release, version, err := platformInfo()
	if err != nil {
		return nil, err
	}

	if runtime.GOOS == "linux" {
		if distro := osReleaseName("/etc/os-release"); distro != "" {
			release = distro + " (" + release + ")"
		}
	}

	return &SysInfo{
		Name:    runtime.GOOS,
		Release: release,
		Version: version,
	}, nil
}

// osReleaseName returns PRETTY_NAME, or NAME when missing, from an os-release file.
func osReleaseName(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	var name, prettyName string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)

		switch key {
		case "NAME":
			name = value
		case "PRETTY_NAME":
			prettyName = value
		}
	}

	if prettyName != "" {
		return prettyName
	}
	return name
}
