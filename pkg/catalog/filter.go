package catalog

import (
	"strings"

	"github.com/mPokornyETM/oaprojects/pkg/models"
)

// Filter returns the part of tree whose projects match term, leaving tree
// itself untouched so the unfiltered view can be restored without a rebuild.
// Matching is a case-insensitive substring test across project name, install
// directory, version and company. Categories left empty by the filter are
// dropped, the always-present Runnable one included; a term matching nothing
// yields an empty result, not an error.
func Filter(tree []*models.CategoryNode, term string) []*models.CategoryNode {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return tree
	}

	var out []*models.CategoryNode
	for _, node := range tree {
		if kept := filterNode(node, term); kept != nil {
			out = append(out, kept)
		}
	}
	return out
}

func filterNode(node *models.CategoryNode, term string) *models.CategoryNode {
	kept := &models.CategoryNode{Label: node.Label, Kind: node.Kind}
	for _, p := range node.Projects {
		if Matches(p, term) {
			kept.Projects = append(kept.Projects, p)
		}
	}
	for _, child := range node.Children {
		if kc := filterNode(child, term); kc != nil {
			kept.Children = append(kept.Children, kc)
		}
	}
	if len(kept.Projects) == 0 && len(kept.Children) == 0 {
		return nil
	}
	return kept
}

// Matches reports whether a record's filterable text contains term, which
// must already be lower-cased.
func Matches(p *models.Project, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.InstallDir), term) ||
		strings.Contains(strings.ToLower(p.Version), term) ||
		strings.Contains(strings.ToLower(p.Company), term)
}
