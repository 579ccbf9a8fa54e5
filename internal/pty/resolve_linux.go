//go:build linux

package pty

import (
	"fmt"
	"os"
)

// resolvePath returns the device path behind f by reading the process's
// fd table. Without /proc the name the file was opened with is used.
func resolvePath(f *os.File) (string, error) {
	path, err := os.Readlink(fmt.Sprintf("/proc/self/fd/%d", f.Fd()))
	if err != nil {
		if os.IsNotExist(err) {
			return f.Name(), nil
		}
		return "", err
	}
	return path, nil
}
