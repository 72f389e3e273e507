package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mPokornyETM/oaprojects/pkg/service"
)

func NewVersionsCmd(svc **service.Service) *cobra.Command {
	var versionsJSON bool

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List installed platform versions",
		Long: `List the WinCC OA platform versions installed on this machine,
newest first, with their installation directories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			type installation struct {
				Version    string `json:"version"`
				InstallDir string `json:"install_dir"`
			}

			var installations []installation
			for _, v := range s.Resolver.Versions() {
				dir, ok := s.Resolver.Resolve(v)
				if !ok {
					continue
				}
				installations = append(installations, installation{Version: v, InstallDir: dir})
			}

			if versionsJSON {
				return outputJSON(installations)
			}

			if len(installations) == 0 {
				fmt.Println("No platform installations found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tDIRECTORY")
			fmt.Fprintln(w, "-------\t---------")
			for _, inst := range installations {
				fmt.Fprintf(w, "%s\t%s\n", inst.Version, inst.InstallDir)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().BoolVar(&versionsJSON, "json", false, "Output in JSON format")

	return cmd
}
