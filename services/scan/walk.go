package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// walk enumerates every file and folder below root, root itself excluded.
// Entries that cannot be read are left out; only a missing or unreadable
// root fails the walk.
func (s *Service) walk(ctx context.Context, root string) (*Snapshot, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	snapshot := newSnapshot(root)
	omitted := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root && d == nil {
				return err
			}
			omitted++
			s.logger.Debug("could not walk through file or directory", "path", path, "err", err.Error())
			return nil
		}
		if path == root {
			return nil
		}

		kind := KindFile
		if d.IsDir() {
			kind = KindFolder
		}
		snapshot.add(path, kind)

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("walked directory tree", "root", root, "entries", snapshot.Len(), "omitted", omitted)
	return snapshot, nil
}
