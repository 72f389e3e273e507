//go:build !windows

package install

// DefaultBase is where the platform installs itself on Unix systems.
const DefaultBase = "/opt/WinCC_OA"

// NewLocator returns the locator native to this operating system.
func NewLocator() Locator {
	return DirLocator{Base: DefaultBase}
}
