// Package discovery finds WinCC OA projects that live on disk but are
// missing from the installation registry, by walking user-chosen search
// roots for directories that carry the project config marker.
package discovery

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mPokornyETM/oaprojects/pkg/models"
	"github.com/mPokornyETM/oaprojects/pkg/registry"
)

// MaxDepth bounds how far below each search root the walk descends.
// Projects deeper than this are considered out of scope, which keeps a scan
// over a large file share cheap and predictable.
const MaxDepth = 3

const dateFormat = "2006.01.02 15:04:05"

// Directory names that never contain projects: build output, caches, logs
// and OS trash. Hidden directories are filtered separately by prefix.
var skipNames = map[string]bool{
	"node_modules":              true,
	"bin":                       true,
	"build":                     true,
	"dist":                      true,
	"out":                       true,
	"target":                    true,
	"obj":                       true,
	"cache":                     true,
	"tmp":                       true,
	"temp":                      true,
	"log":                       true,
	"logs":                      true,
	"backup":                    true,
	"$recycle.bin":              true,
	"system volume information": true,
}

type workItem struct {
	path  string
	depth int
}

// Scan walks the search roots and returns a record for every project
// directory absent from registered, a set of normalized install dirs. The
// walk is iterative: a worklist carries the pending directories with their
// depth, and a visited set keyed by the symlink-resolved path keeps link
// cycles from looping it. Directories that cannot be read are skipped, never
// fatal. Results are sorted by path.
func Scan(roots []string, registered map[string]bool, log *logrus.Logger) []*models.Project {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}

	var work []workItem
	for _, root := range roots {
		if root == "" {
			continue
		}
		work = append(work, workItem{path: root, depth: 0})
	}

	var found []*models.Project
	visited := make(map[string]bool)

	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]

		real := item.path
		if resolved, err := filepath.EvalSymlinks(item.path); err == nil {
			real = resolved
		}
		key := models.NormalizePath(real)
		if visited[key] {
			continue
		}
		visited[key] = true

		fi, err := os.Stat(item.path)
		if err != nil || !fi.IsDir() {
			continue
		}

		// Projects are leaves of the walk: never descend below one, whether
		// it is registered or not.
		if isProject(item.path) {
			if !registered[models.NormalizePath(item.path)] {
				found = append(found, synthesize(item.path, fi))
			}
			continue
		}

		if item.depth >= MaxDepth {
			continue
		}
		entries, err := os.ReadDir(item.path)
		if err != nil {
			log.WithError(err).WithField("dir", item.path).Debug("skipping unreadable directory")
			continue
		}
		for _, e := range entries {
			if !e.IsDir() && e.Type()&os.ModeSymlink == 0 {
				continue
			}
			if skipDir(e.Name()) {
				continue
			}
			work = append(work, workItem{path: filepath.Join(item.path, e.Name()), depth: item.depth + 1})
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].InstallDir < found[j].InstallDir })
	return found
}

// isProject reports whether dir carries the project marker, the config file
// every created project has.
func isProject(dir string) bool {
	fi, err := os.Stat(filepath.Join(dir, filepath.FromSlash(registry.ProjectConfig)))
	return err == nil && fi.Mode().IsRegular()
}

// synthesize builds the record for a project found only on disk. The
// registry would know an installation date; the directory mod time is the
// closest portable stand-in.
func synthesize(dir string, fi os.FileInfo) *models.Project {
	date := time.Now()
	if fi != nil {
		date = fi.ModTime()
	}
	return &models.Project{
		Name:         filepath.Base(dir),
		InstallDir:   dir,
		InstallDate:  date.Format(dateFormat),
		Runnable:     true,
		Unregistered: true,
		State:        models.StateUnknown,
	}
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return skipNames[strings.ToLower(name)]
}
