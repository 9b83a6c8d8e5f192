package internal

import (
	"fmt"
)

// Overridden at link time via -ldflags.
var (
	version   = "1.0.0"
	gitCommit = ""
)

func Version() string {
	if gitCommit == "" {
		return version
	}
	return fmt.Sprintf("%s (%s)", version, gitCommit)
}
