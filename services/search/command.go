package search

import (
	"fmt"
	"strings"
)

// TerminalCommand renders the name filters of spec as a find(1) invocation
// for display. An exact name wins over a glob, which wins over name contains
// and extension combined.
func TerminalCommand(root string, spec FilterSpec) string {
	command := fmt.Sprintf("find %s", root)

	var pattern string
	switch {
	case spec.Name != "":
		pattern = spec.Name
	default:
		if spec.NameContains != "" {
			pattern += "*" + spec.NameContains + "*"
		}
		if ext := strings.TrimPrefix(spec.Extension, "."); ext != "" {
			pattern += "*." + ext
		}
	}

	if pattern != "" {
		command += fmt.Sprintf(" -name %q", pattern)
	}

	return command
}
