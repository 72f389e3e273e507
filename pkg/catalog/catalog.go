// Package catalog turns the merged project set into the categorized tree
// that presenters display. Building is a pure function of the records plus
// the installation resolver; filtering never mutates a built tree, so
// clearing a filter is a swap back to the original.
package catalog

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mPokornyETM/oaprojects/pkg/install"
	"github.com/mPokornyETM/oaprojects/pkg/models"
	"github.com/mPokornyETM/oaprojects/pkg/registry"
)

// Labels shown for the category nodes.
const (
	LabelUnregistered = "Unregistered"
	LabelCurrent      = "Current"
	LabelRunnable     = "Runnable"
	LabelSystem       = "System"
	LabelDelivered    = "Delivered sub-projects"
	LabelUser         = "User sub-projects"

	// VersionUnknown labels the version group of sub-projects whose platform
	// version could not be resolved by any rule.
	VersionUnknown = "Unknown"
)

var nameVersionPattern = regexp.MustCompile(`\d+\.\d+(?:\.\d+)*`)

type versionRoot struct {
	version string
	norm    string
}

// Build categorizes projects. Category order is fixed: Unregistered, then
// Current, Runnable, System, and the sub-project groups. Apart from
// Runnable, which is always present in an unfiltered tree, categories exist
// only when they hold projects.
func Build(projects []*models.Project, res *install.Resolver) []*models.CategoryNode {
	roots := versionRoots(res)
	rootSet := make(map[string]bool, len(roots))
	for _, r := range roots {
		rootSet[r.norm] = true
	}

	ordered := sortProjects(projects, rootSet)

	var unregistered, current, runnable, system, delivered, user []*models.Project
	for _, p := range ordered {
		key := p.Key()
		switch {
		case p.Unregistered:
			unregistered = append(unregistered, p)
		case p.Current:
			current = append(current, p)
		case p.Runnable && !rootSet[key]:
			runnable = append(runnable, p)
		case rootSet[key]:
			system = append(system, p)
		case isDescendant(key, roots):
			delivered = append(delivered, p)
		default:
			user = append(user, p)
		}
	}

	var tree []*models.CategoryNode
	if len(unregistered) > 0 {
		tree = append(tree, &models.CategoryNode{Label: LabelUnregistered, Kind: models.CategoryNotRegistered, Projects: unregistered})
	}
	if len(current) > 0 {
		tree = append(tree, &models.CategoryNode{Label: LabelCurrent, Kind: models.CategoryCurrent, Projects: current})
	}
	tree = append(tree, &models.CategoryNode{Label: LabelRunnable, Kind: models.CategoryRunnable, Projects: runnable})
	if len(system) > 0 {
		tree = append(tree, &models.CategoryNode{Label: LabelSystem, Kind: models.CategorySystem, Projects: system})
	}
	if len(delivered) > 0 {
		tree = append(tree, subprojectNode(LabelDelivered, delivered, roots))
	}
	if len(user) > 0 {
		tree = append(tree, subprojectNode(LabelUser, user, roots))
	}
	return tree
}

// sortProjects orders records by rank (current, then runnable, then system,
// then the rest) with a locale-aware, case-insensitive name tie-break. The
// sort is stable, so records that compare equal keep their incoming order.
func sortProjects(projects []*models.Project, rootSet map[string]bool) []*models.Project {
	col := collate.New(language.Und, collate.IgnoreCase)

	rank := func(p *models.Project) int {
		switch {
		case p.Current && !p.Unregistered:
			return 0
		case p.Runnable && !rootSet[p.Key()]:
			return 1
		case rootSet[p.Key()]:
			return 2
		default:
			return 3
		}
	}

	out := append([]*models.Project(nil), projects...)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri < rj
		}
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// subprojectNode groups sub-projects by resolved platform version, one child
// node per version, sorted by version string ascending. Unresolvable
// versions collect under the Unknown child.
func subprojectNode(label string, projects []*models.Project, roots []versionRoot) *models.CategoryNode {
	node := &models.CategoryNode{Label: label, Kind: models.CategorySubprojects}

	byVersion := make(map[string][]*models.Project)
	var versions []string
	for _, p := range projects {
		v := resolveVersion(p, roots)
		if _, seen := byVersion[v]; !seen {
			versions = append(versions, v)
		}
		byVersion[v] = append(byVersion[v], p)
	}

	sort.Strings(versions)
	for _, v := range versions {
		node.Children = append(node.Children, &models.CategoryNode{
			Label:    v,
			Kind:     models.CategoryVersion,
			Projects: byVersion[v],
		})
	}
	return node
}

// resolveVersion applies the fallback chain for a sub-project's platform
// version: the registry's explicit field, the project's own config file, a
// platform installation path containing the project, and finally a numeric
// token in the name. A successful resolution is written back to the record
// so later passes and filters see it.
func resolveVersion(p *models.Project, roots []versionRoot) string {
	if p.Version != "" {
		return p.Version
	}
	if v := registry.ReadProjectVersion(p.InstallDir); v != "" {
		p.Version = v
		return v
	}
	if v := versionFromPath(p.Key(), roots); v != "" {
		p.Version = v
		return v
	}
	if v := nameVersionPattern.FindString(p.Name); v != "" {
		p.Version = v
		return v
	}
	return VersionUnknown
}

func versionFromPath(key string, roots []versionRoot) string {
	for _, r := range roots {
		if strings.HasPrefix(key, r.norm+"/") {
			return r.version
		}
	}
	return ""
}

// isDescendant reports whether key sits strictly below one of the platform
// installation directories; such sub-projects were delivered with the
// product rather than created by a user.
func isDescendant(key string, roots []versionRoot) bool {
	for _, r := range roots {
		if strings.HasPrefix(key, r.norm+"/") {
			return true
		}
	}
	return false
}

func versionRoots(res *install.Resolver) []versionRoot {
	var out []versionRoot
	for _, v := range res.Versions() {
		if dir, ok := res.Resolve(v); ok {
			out = append(out, versionRoot{version: v, norm: models.NormalizePath(dir)})
		}
	}
	return out
}
