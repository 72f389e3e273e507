package install

import (
	"os"
	"path/filepath"
	"regexp"
)

var versionDirPattern = regexp.MustCompile(`^\d+(\.\d+)+$`)

// DirLocator finds installations by scanning a fixed base directory whose
// subdirectories are named after versions, e.g. /opt/WinCC_OA/3.19. It is
// the native locator on Unix and serves everywhere as the override when the
// install base is configured explicitly.
type DirLocator struct {
	Base string
}

func (l DirLocator) Lookup(version string) (string, bool, error) {
	dir := filepath.Join(l.Base, version)
	fi, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	if !fi.IsDir() {
		return "", false, nil
	}
	return dir, true, nil
}

func (l DirLocator) Enumerate() ([]string, error) {
	entries, err := os.ReadDir(l.Base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var versions []string
	for _, e := range entries {
		if e.IsDir() && versionDirPattern.MatchString(e.Name()) {
			versions = append(versions, e.Name())
		}
	}
	return versions, nil
}
