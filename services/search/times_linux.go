//go:build linux

package search

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// creationTime returns the birth time, or the inode change time on
// filesystems that do not record one.
func creationTime(path string, _ os.FileInfo) (time.Time, error) {
	var stat unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME|unix.STATX_CTIME, &stat); err != nil {
		return time.Time{}, err
	}
	if stat.Mask&unix.STATX_BTIME != 0 {
		return time.Unix(stat.Btime.Sec, int64(stat.Btime.Nsec)), nil
	}
	return time.Unix(stat.Ctime.Sec, int64(stat.Ctime.Nsec)), nil
}
