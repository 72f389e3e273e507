package models

// Category names the kind of a node in the categorized project tree.
type Category string

const (
	CategoryCurrent       Category = "current"
	CategoryRunnable      Category = "runnable"
	CategorySystem        Category = "system"
	CategorySubprojects   Category = "subprojects"
	CategoryNotRegistered Category = "not_registered"
	CategoryVersion       Category = "version"
)

// CategoryNode is one node of the categorized tree handed to presenters.
// Only subproject nodes carry children (one version node per resolved
// version); version nodes group projects and never nest further.
type CategoryNode struct {
	Label    string          `json:"label" yaml:"label"`
	Kind     Category        `json:"kind" yaml:"kind"`
	Projects []*Project      `json:"projects,omitempty" yaml:"projects,omitempty"`
	Children []*CategoryNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// Count returns the number of projects in this node and every node below it.
func (n *CategoryNode) Count() int {
	total := len(n.Projects)
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}
