// Package install locates WinCC OA platform installations. The backing
// lookup differs per operating system (registry query on Windows, base
// directory scan elsewhere); the Resolver layers a process-lifetime cache
// over it so repeated categorization passes never hit the OS twice for the
// same version.
package install

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mPokornyETM/oaprojects/pkg/models"
)

// Locator answers where a platform version is installed.
type Locator interface {
	// Lookup returns the installation directory for a version. ok is false
	// when that version is not installed; err reports a backing failure.
	Lookup(version string) (dir string, ok bool, err error)

	// Enumerate lists installed versions in no particular order.
	Enumerate() ([]string, error)
}

type lookupResult struct {
	dir string
	ok  bool
}

// Resolver caches Locator answers. Misses are cached like hits so an
// uninstalled version costs one lookup per process, not one per refresh.
// The cache is never invalidated; installing a platform version mid-run
// requires a new process, same as the tooling this mirrors.
type Resolver struct {
	loc Locator
	log *logrus.Logger

	mu         sync.RWMutex
	dirs       map[string]lookupResult
	versions   []string
	enumerated bool
}

// NewResolver wraps a locator. A nil logger is replaced with a silent one.
func NewResolver(loc Locator, log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Resolver{
		loc:  loc,
		log:  log,
		dirs: make(map[string]lookupResult),
	}
}

// Resolve returns the installation directory for a version, consulting the
// backing locator at most once per version.
func (r *Resolver) Resolve(version string) (string, bool) {
	r.mu.RLock()
	res, hit := r.dirs[version]
	r.mu.RUnlock()
	if hit {
		return res.dir, res.ok
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if res, hit := r.dirs[version]; hit {
		return res.dir, res.ok
	}

	dir, ok, err := r.loc.Lookup(version)
	if err != nil {
		r.log.WithError(err).WithField("version", version).Debug("installation lookup failed")
		dir, ok = "", false
	}
	if !ok {
		dir = ""
	}
	r.dirs[version] = lookupResult{dir: dir, ok: ok}
	return dir, ok
}

// Versions returns the installed versions ordered newest first. The backing
// enumeration runs at most once per resolver lifetime.
func (r *Resolver) Versions() []string {
	r.mu.RLock()
	if r.enumerated {
		out := append([]string(nil), r.versions...)
		r.mu.RUnlock()
		return out
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.enumerated {
		vs, err := r.loc.Enumerate()
		if err != nil {
			r.log.WithError(err).Debug("installation enumeration failed")
			vs = nil
		}
		r.versions = OrderVersions(vs)
		r.enumerated = true
	}
	return append([]string(nil), r.versions...)
}

// Roots returns the installation directories of every enumerable version,
// in Versions order.
func (r *Resolver) Roots() []string {
	var roots []string
	for _, v := range r.Versions() {
		if dir, ok := r.Resolve(v); ok {
			roots = append(roots, dir)
		}
	}
	return roots
}

// IsInstallationDir reports whether path is itself one of the platform
// installation directories. Comparison happens on normalized paths.
func (r *Resolver) IsInstallationDir(path string) bool {
	norm := models.NormalizePath(path)
	if norm == "" {
		return false
	}
	for _, root := range r.Roots() {
		if models.NormalizePath(root) == norm {
			return true
		}
	}
	return false
}
