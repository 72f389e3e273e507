// Package pmon invokes the platform's process monitor binary for the one
// query this module is allowed: which exact version an installation
// reports. Starting, stopping or monitoring projects stays with the real
// management tools.
package pmon

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"
)

// DefaultTimeout bounds a version query. The monitor hangs on half-broken
// installations, and a viewer must not hang with it.
const DefaultTimeout = 5 * time.Second

const binaryName = "WCCILpmon"

var versionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)*`)

// Client runs version queries against platform installations.
type Client struct {
	Timeout time.Duration
}

// QueryVersion runs the installation's process monitor with -version and
// extracts the version it reports. The run is bounded by the client timeout
// on top of whatever deadline ctx already carries.
func (c Client) QueryVersion(ctx context.Context, installDir string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	bin := filepath.Join(installDir, "bin", binaryName+exeSuffix())
	cmd := exec.CommandContext(ctx, bin, "-version")
	cmd.Dir = installDir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run %s: %w", bin, err)
	}

	v := ParseVersionOutput(out.String())
	if v == "" {
		return "", fmt.Errorf("no version in %s output", binaryName)
	}
	return v, nil
}

// ParseVersionOutput extracts the version token from the monitor's -version
// text. The wording shifts between releases, but a dotted number always
// appears within the first lines.
func ParseVersionOutput(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if v := versionPattern.FindString(line); v != "" {
			return v
		}
	}
	return ""
}

func exeSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
