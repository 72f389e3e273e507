//go:build property
// +build property

package catalog

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/mPokornyETM/oaprojects/pkg/models"
)

// projectsFromNames derives a mixed record set from generated names so the
// partition rules all get exercised.
func projectsFromNames(names []string) []*models.Project {
	out := make([]*models.Project, 0, len(names))
	for i, n := range names {
		p := &models.Project{Name: n, InstallDir: "/projects/" + n, Runnable: i%2 == 0}
		if i%5 == 0 {
			p.Current = true
		}
		if i%7 == 3 {
			p.Unregistered = true
		}
		out = append(out, p)
	}
	return out
}

func countProjects(tree []*models.CategoryNode) int {
	total := 0
	for _, n := range tree {
		total += n.Count()
	}
	return total
}

func collectProjects(tree []*models.CategoryNode, into map[*models.Project]bool) {
	for _, n := range tree {
		for _, p := range n.Projects {
			into[p] = true
		}
		collectProjects(n.Children, into)
	}
}

func TestCatalogProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	nameGen := gen.RegexMatch(`^[A-Za-z][A-Za-z0-9_]{0,11}$`)

	properties.Property("filtering keeps only matching records from the original tree", prop.ForAll(
		func(names []string, term string) bool {
			tree := Build(projectsFromNames(names), testResolver(nil))
			filtered := Filter(tree, term)

			original := make(map[*models.Project]bool)
			collectProjects(tree, original)

			kept := make(map[*models.Project]bool)
			collectProjects(filtered, kept)

			needle := strings.ToLower(strings.TrimSpace(term))
			for p := range kept {
				if !original[p] {
					return false
				}
				if needle != "" && !Matches(p, needle) {
					return false
				}
			}
			return len(kept) <= len(original)
		},
		gen.SliceOf(nameGen),
		gen.AlphaString(),
	))

	properties.Property("clearing the filter restores every record", prop.ForAll(
		func(names []string) bool {
			tree := Build(projectsFromNames(names), testResolver(nil))
			return countProjects(Filter(tree, "")) == countProjects(tree)
		},
		gen.SliceOf(nameGen),
	))

	properties.Property("filtering twice with one term changes nothing more", prop.ForAll(
		func(names []string, term string) bool {
			tree := Build(projectsFromNames(names), testResolver(nil))
			once := Filter(tree, term)
			twice := Filter(once, term)
			return reflect.DeepEqual(once, twice)
		},
		gen.SliceOf(nameGen),
		gen.AlphaString(),
	))

	properties.Property("building is deterministic", prop.ForAll(
		func(names []string) bool {
			projects := projectsFromNames(names)
			res := testResolver(nil)
			return reflect.DeepEqual(Build(projects, res), Build(projects, res))
		},
		gen.SliceOf(nameGen),
	))

	properties.Property("no category node ever comes out empty of a filter", prop.ForAll(
		func(names []string, term string) bool {
			tree := Build(projectsFromNames(names), testResolver(nil))
			if strings.TrimSpace(term) == "" {
				return true
			}
			for _, n := range Filter(tree, term) {
				if n.Count() == 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(nameGen),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
