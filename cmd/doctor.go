package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mPokornyETM/oaprojects/pkg/pmon"
	"github.com/mPokornyETM/oaprojects/pkg/registry"
	"github.com/mPokornyETM/oaprojects/pkg/service"
)

func NewDoctorCmd(svc **service.Service) *cobra.Command {
	var doctorProbe bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the project environment for common issues",
		Long: `The doctor command inspects the machine's WinCC OA setup: the
installation registry, the platform installations and the configured
search roots, and reports anything a project viewer would stumble over.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc

			fmt.Println("🩺 Checking WinCC OA environment...")
			fmt.Println()

			issues := 0

			// Registry file
			regPath := s.Config.RegistryPath
			fmt.Printf("Registry: %s\n", regPath)
			if _, err := os.Stat(regPath); os.IsNotExist(err) {
				fmt.Println("   ❗ Registry file does not exist; only discovery will find projects")
				issues++
			} else {
				doc, err := registry.ParseFile(regPath)
				if err != nil {
					fmt.Printf("   ❗ Registry cannot be read: %v\n", err)
					issues++
				} else {
					fmt.Printf("   ✅ %d project(s), %d version pointer(s)\n", len(doc.Projects), len(doc.Pointers))
					if doc.Dropped > 0 {
						fmt.Printf("   💡 %d malformed section(s) were skipped\n", doc.Dropped)
					}
				}
			}
			fmt.Println()

			// Platform installations
			versions := s.Resolver.Versions()
			if len(versions) == 0 {
				fmt.Println("Installations: none found")
				issues++
			} else {
				fmt.Printf("Installations: %d\n", len(versions))
				client := pmon.Client{Timeout: viper.GetDuration("pmon_timeout")}
				for _, v := range versions {
					dir, ok := s.Resolver.Resolve(v)
					if !ok {
						continue
					}
					if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
						fmt.Printf("   ❗ %s: directory missing: %s\n", v, dir)
						issues++
						continue
					}
					if doctorProbe {
						reported, err := client.QueryVersion(context.Background(), dir)
						if err != nil {
							fmt.Printf("   ❗ %s: %s (process monitor not answering)\n", v, dir)
							issues++
						} else {
							fmt.Printf("   ✅ %s: %s (reports %s)\n", v, dir, reported)
						}
					} else {
						fmt.Printf("   ✅ %s: %s\n", v, dir)
					}
				}
			}
			fmt.Println()

			// Search roots
			roots := s.Config.SearchRoots
			if len(roots) == 0 {
				fmt.Println("Search roots: none configured")
				fmt.Println("   💡 Set search_roots to discover unregistered projects")
			} else {
				fmt.Printf("Search roots: %d\n", len(roots))
				for _, root := range roots {
					if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
						fmt.Printf("   ❗ missing: %s\n", root)
						issues++
					} else {
						fmt.Printf("   ✅ %s\n", root)
					}
				}
			}
			fmt.Println()

			if issues == 0 {
				fmt.Println("✨ No issues found! The environment looks healthy.")
			} else {
				fmt.Printf("📊 Summary: found %d issue(s)\n", issues)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&doctorProbe, "probe", false, "Ask each installation's process monitor for its version")

	return cmd
}
