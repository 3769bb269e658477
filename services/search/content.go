package search

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"unicode/utf8"

	"github.com/meghashyamc/filefind/services/scan"
	"golang.org/x/sync/errgroup"
)

// maxLineBytes caps the memory one content check may hold. A longer line
// (a file of NUL bytes has no newline at all) makes the file unreadable as text.
const maxLineBytes = 1 << 20

var (
	errNotText     = errors.New("file is not valid utf-8 text")
	errLineTooLong = errors.New("line too long")
)

// filterByContent keeps the files holding the content pattern on some line.
// Folders and files that cannot be read as text are dropped.
func (f *filters) filterByContent(ctx context.Context, candidates []string) ([]string, error) {
	matches := make([]bool, len(candidates))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())

	for i, path := range candidates {
		if f.snapshot.Kind(path) == scan.KindFolder {
			continue
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			found, err := containsText(path, f.contentPattern)
			matches[i] = err == nil && found
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(candidates))
	for i, path := range candidates {
		if matches[i] {
			kept = append(kept, path)
		}
	}
	return kept, nil
}

// containsText scans path line by line for pattern, case-sensitively.
func containsText(path string, pattern []byte) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if !utf8.Valid(line) {
			return false, errNotText
		}
		if bytes.Contains(line, pattern) {
			return true, nil
		}
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return false, fmt.Errorf("%w: over %d bytes in %s", errLineTooLong, maxLineBytes, path)
		}
		return false, err
	}
	return false, nil
}
