package search

import (
	"runtime"
	"strings"
)

var protectedPrefixes = map[string][]string{
	"darwin":  {"/System"},
	"linux":   {"/proc", "/sys", "/dev", "/boot", "/lib", "/lib64", "/usr/lib", "/var/lib"},
	"windows": {`c:\windows`, `c:\program files`, `c:\program files (x86)`, `c:\programdata`},
}

// noiseBasenames are platform metadata files that never show up in results.
var noiseBasenames = map[string]struct{}{
	".ds_store":   {},
	".localized":  {},
	"desktop.ini": {},
	"thumbs.db":   {},
}

func isProtectedPath(path string) bool {
	return isProtectedPathFor(runtime.GOOS, path)
}

func isProtectedPathFor(goos string, path string) bool {
	separator := "/"
	if goos == "windows" {
		separator = `\`
		path = strings.ToLower(path)
	}

	if goos == "darwin" && (strings.Contains(path, "/Library/") || strings.HasSuffix(path, "/Library")) {
		return true
	}

	for _, prefix := range protectedPrefixes[goos] {
		if path == prefix || strings.HasPrefix(path, prefix+separator) {
			return true
		}
	}
	return false
}

func isNoise(lowerBasename string) bool {
	_, ok := noiseBasenames[lowerBasename]
	return ok
}
