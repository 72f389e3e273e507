package registry

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultPath returns the registry file location the platform installer uses
// on this operating system. On Unix two historical locations exist; the
// first one present wins, otherwise the modern one is returned so error
// messages name a sensible path.
func DefaultPath() string {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return filepath.Join(programData, "Siemens", "WinCC_OA", "pvssInst.conf")
	}

	candidates := []string{
		"/etc/opt/WinCC_OA/pvssInst.conf",
		"/etc/opt/pvss/pvssInst.conf",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return candidates[0]
}
