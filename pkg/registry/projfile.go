package registry

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// ReadProjectVersion extracts the proj_version entry from a project's own
// config file. The read is best-effort and tolerant like the registry scan:
// a missing file, an unreadable file or a config without the key all yield
// the empty string, never an error.
func ReadProjectVersion(projectDir string) string {
	f, err := os.Open(filepath.Join(filepath.FromSlash(projectDir), filepath.FromSlash(ProjectConfig)))
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		eq := strings.Index(line, "=")
		if eq < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:eq]))
		if key != "proj_version" {
			continue
		}
		return unquote(strings.TrimSpace(line[eq+1:]))
	}
	return ""
}
