package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mPokornyETM/oaprojects/internal/tui/browser"
	"github.com/mPokornyETM/oaprojects/pkg/service"
)

// NewBrowseCmd creates the `oaprojects browse` command.
func NewBrowseCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Launch an interactive browser for the project inventory",
		Long: `Launch an interactive terminal browser for the categorized project tree.
Type to filter, expand and collapse categories, and refresh the inventory
without leaving the view.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check for TTY
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("browse mode requires an interactive terminal")
			}

			s := *svc

			if _, err := s.Refresh(); err != nil {
				return fmt.Errorf("failed to read project inventory: %w", err)
			}

			model := browser.New(s)
			p := tea.NewProgram(model, tea.WithAltScreen())

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running browser: %w", err)
			}

			return nil
		},
	}
	return cmd
}
