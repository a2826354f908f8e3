//go:build windows

package sysinfo

import (
	"os/exec"
	"strings"
)

// platformInfo executes 'cmd /c ver' and returns its output as the version.
func platformInfo() (string, string, error) {
	output, err := exec.Command("cmd", "/c", "ver").Output()
	if err != nil {
		return "Windows", "unknown", nil
	}
	return "Windows", strings.TrimSpace(string(output)), nil
}
