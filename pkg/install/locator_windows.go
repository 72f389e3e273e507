//go:build windows

package install

import (
	"golang.org/x/sys/windows/registry"
)

// Installations register under the ETM vendor key. 64-bit systems expose
// the 32-bit installer's writes through WOW6432Node, so both views are
// consulted.
var installKeys = []string{
	`SOFTWARE\WOW6432Node\ETM\PVSS II`,
	`SOFTWARE\ETM\PVSS II`,
}

type registryLocator struct{}

// NewLocator returns the locator native to this operating system.
func NewLocator() Locator {
	return registryLocator{}
}

func (registryLocator) Lookup(version string) (string, bool, error) {
	for _, base := range installKeys {
		k, err := registry.OpenKey(registry.LOCAL_MACHINE, base+`\`+version, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		dir, _, err := k.GetStringValue("InstallationDir")
		k.Close()
		if err == nil && dir != "" {
			return dir, true, nil
		}
	}
	return "", false, nil
}

func (registryLocator) Enumerate() ([]string, error) {
	seen := make(map[string]bool)
	var versions []string
	for _, base := range installKeys {
		k, err := registry.OpenKey(registry.LOCAL_MACHINE, base, registry.ENUMERATE_SUB_KEYS)
		if err != nil {
			continue
		}
		names, err := k.ReadSubKeyNames(-1)
		k.Close()
		if err != nil {
			continue
		}
		for _, n := range names {
			if versionDirPattern.MatchString(n) && !seen[n] {
				seen[n] = true
				versions = append(versions, n)
			}
		}
	}
	return versions, nil
}
