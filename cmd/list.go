package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mPokornyETM/oaprojects/pkg/catalog"
	"github.com/mPokornyETM/oaprojects/pkg/models"
	"github.com/mPokornyETM/oaprojects/pkg/service"
)

func NewListCmd(svc **service.Service) *cobra.Command {
	var (
		listFilter    string
		listOutput    string
		listUnregOnly bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List all known projects",
		Aliases: []string{"ls"},
		Long: `List every project known to this machine: entries from the
installation registry plus projects discovered under the configured
search roots.

Examples:
  oaprojects list                   # Table of all projects
  oaprojects list --filter demo     # Only projects matching "demo"
  oaprojects list -o json           # Machine-readable output
  oaprojects list --unregistered    # Only projects missing from the registry`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			if _, err := s.Refresh(); err != nil {
				return fmt.Errorf("refresh inventory: %w", err)
			}

			projects := s.Projects()
			if listUnregOnly {
				var kept []*models.Project
				for _, p := range projects {
					if p.Unregistered {
						kept = append(kept, p)
					}
				}
				projects = kept
			}
			if term := strings.ToLower(strings.TrimSpace(listFilter)); term != "" {
				var kept []*models.Project
				for _, p := range projects {
					if catalog.Matches(p, term) {
						kept = append(kept, p)
					}
				}
				projects = kept
			}

			switch listOutput {
			case "json":
				return outputJSON(projects)
			case "yaml":
				return outputYAML(projects)
			}

			if len(projects) == 0 {
				fmt.Println("No projects found")
				return nil
			}
			printProjectsTable(projects)
			return nil
		},
	}

	cmd.Flags().StringVar(&listFilter, "filter", "", "Keep only projects matching this term")
	cmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format: table, json or yaml")
	cmd.Flags().BoolVar(&listUnregOnly, "unregistered", false, "Only projects missing from the registry")

	return cmd
}

func printProjectsTable(projects []*models.Project) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "NAME\tVERSION\tSTATE\tFLAGS\tDIRECTORY")
	fmt.Fprintln(w, "----\t-------\t-----\t-----\t---------")

	for _, p := range projects {
		version := p.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, version, p.State, projectFlags(p), p.InstallDir)
	}

	w.Flush()
}

func projectFlags(p *models.Project) string {
	var flags []string
	if p.Current {
		flags = append(flags, "current")
	}
	if p.Unregistered {
		flags = append(flags, "unregistered")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func outputYAML(v interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	return encoder.Encode(v)
}
