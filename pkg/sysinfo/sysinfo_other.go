//go:build !unix && !windows

package sysinfo

func platformInfo() (string, string, error) {
	return "unknown", "unknown", nil
}
