package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mPokornyETM/oaprojects/pkg/models"
	"github.com/mPokornyETM/oaprojects/pkg/service"
)

func NewTreeCmd(svc **service.Service) *cobra.Command {
	var (
		treeFilter string
		treeOutput string
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show projects grouped by category",
		Long: `Show the categorized project tree: unregistered projects first,
then the current project, runnable ones, system projects, and
sub-projects grouped by platform version.

Examples:
  oaprojects tree                 # Full category tree
  oaprojects tree --filter 3.19   # Only branches matching "3.19"
  oaprojects tree -o json         # The tree as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			if _, err := s.Refresh(); err != nil {
				return fmt.Errorf("refresh inventory: %w", err)
			}
			tree := s.SetFilter(treeFilter)

			switch treeOutput {
			case "json":
				return outputJSON(tree)
			case "yaml":
				return outputYAML(tree)
			}

			if len(tree) == 0 {
				fmt.Println("No projects found")
				return nil
			}
			for _, node := range tree {
				printCategoryNode(node, 0)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&treeFilter, "filter", "", "Keep only branches matching this term")
	cmd.Flags().StringVarP(&treeOutput, "output", "o", "text", "Output format: text, json or yaml")

	return cmd
}

func printCategoryNode(node *models.CategoryNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s (%d)\n", indent, node.Label, node.Count())

	for _, p := range node.Projects {
		marker := " "
		if p.Current {
			marker = "*"
		}
		fmt.Printf("%s  %s %s  [%s]  %s\n", indent, marker, p.Name, p.State, p.InstallDir)
	}
	for _, child := range node.Children {
		printCategoryNode(child, depth+1)
	}
}
