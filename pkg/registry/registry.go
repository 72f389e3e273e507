// Package registry reads the WinCC OA installation registry file
// (pvssInst.conf), an ini-like text file maintained by the platform
// installer. The parser is deliberately tolerant: real-world files contain
// stray lines, inconsistent casing and half-written sections, and a viewer
// must survive all of it.
package registry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mPokornyETM/oaprojects/pkg/models"
)

// ProjectConfig is the path of a project's config file relative to its
// installation directory. Its existence is what makes a directory a project.
const ProjectConfig = "config/config"

// Version sections are registry-style paths ending in a dotted numeric
// version, e.g. [Software\ETM\PVSS II\3.19].
var versionSectionPattern = regexp.MustCompile(`(?:^|[\\/])(\d+(?:\.\d+)+)$`)

// Document is the parsed content of a registry file.
type Document struct {
	Projects []*models.Project
	Pointers []*models.VersionPointer

	// Dropped counts sections that yielded neither a record nor a pointer.
	Dropped int
}

type section struct {
	name string
	keys map[string]string
}

// Parse scans registry text in a single forward pass. Unparseable lines are
// skipped, sections without an installation directory are dropped, duplicate
// keys within a section keep the last value. The only error returned is a
// failure of the underlying reader.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}
	var sec *section

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";"):
			continue
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			doc.flush(sec)
			sec = &section{
				name: strings.TrimSpace(line[1 : len(line)-1]),
				keys: make(map[string]string),
			}
		default:
			eq := strings.Index(line, "=")
			if eq < 0 || sec == nil {
				continue
			}
			key := strings.ToLower(strings.TrimSpace(line[:eq]))
			if key == "" {
				continue
			}
			sec.keys[key] = unquote(strings.TrimSpace(line[eq+1:]))
		}
	}
	if err := sc.Err(); err != nil {
		return &Document{}, err
	}
	doc.flush(sec)
	return doc, nil
}

// ParseFile reads and parses the registry file at path. A missing file is
// not an error: the platform may simply not be installed, and discovery can
// still run. Any other failure is fatal for the caller, which must not show
// a partial project list.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Document{}, nil
		}
		return &Document{}, fmt.Errorf("open registry %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return &Document{}, fmt.Errorf("read registry %s: %w", path, err)
	}
	doc.resolvePointers()
	return doc, nil
}

// flush converts an accumulated section into a record, a pointer, or both.
// Version sections carry the per-version current project and, when the
// platform itself is registered there, an installation-directory record that
// later categorizes as a system project.
func (d *Document) flush(sec *section) {
	if sec == nil || sec.name == "" {
		return
	}

	dir := sec.keys["installationdir"]
	produced := false

	if m := versionSectionPattern.FindStringSubmatch(sec.name); m != nil {
		ver := m[1]
		if name := sec.keys["currentproject"]; name != "" {
			d.Pointers = append(d.Pointers, &models.VersionPointer{
				Version:     ver,
				ProjectName: name,
				LastDir:     sec.keys["lastprojectdir"],
			})
			produced = true
		}
		if dir != "" {
			version := sec.keys["installationversion"]
			if version == "" {
				version = ver
			}
			d.Projects = append(d.Projects, &models.Project{
				Name:        lastSegment(sec.name),
				InstallDir:  dir,
				InstallDate: sec.keys["installationdate"],
				Version:     version,
				Company:     sec.keys["company"],
				Runnable:    !truthy(sec.keys["notrunnable"]),
				State:       models.StateUnknown,
			})
			produced = true
		}
		if !produced {
			d.Dropped++
		}
		return
	}

	if dir == "" {
		d.Dropped++
		return
	}
	d.Projects = append(d.Projects, &models.Project{
		Name:        lastSegment(sec.name),
		InstallDir:  dir,
		InstallDate: sec.keys["installationdate"],
		Version:     sec.keys["installationversion"],
		Company:     sec.keys["company"],
		Runnable:    !truthy(sec.keys["notrunnable"]),
		Current:     truthy(sec.keys["currentproject"]),
		State:       models.StateUnknown,
	})
}

// resolvePointers fills in pointer install dirs where the last-used projects
// directory still holds the named project on disk. Unresolved pointers keep
// an empty InstallDir and are matched later by name and version only.
func (d *Document) resolvePointers() {
	for _, vp := range d.Pointers {
		if vp.LastDir == "" || vp.ProjectName == "" {
			continue
		}
		cand := filepath.Join(vp.LastDir, vp.ProjectName)
		if fi, err := os.Stat(cand); err == nil && fi.IsDir() {
			vp.InstallDir = cand
		}
	}
}

func lastSegment(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// truthy applies the registry's tolerant boolean reading.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
