//go:build windows

package search

import (
	"os"
	"syscall"
	"time"
)

func creationTime(_ string, info os.FileInfo) (time.Time, error) {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime(), nil
	}
	return time.Unix(0, data.CreationTime.Nanoseconds()), nil
}
