//go:build unix

package sysinfo

import "golang.org/x/sys/unix"

// platformInfo returns the kernel release and version reported by uname(2).
func platformInfo() (string, string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", "", err
	}
	return unix.ByteSliceToString(uts.Release[:]), unix.ByteSliceToString(uts.Version[:]), nil
}
