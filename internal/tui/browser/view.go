package browser

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mPokornyETM/oaprojects/pkg/models"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	categoryStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
	currentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	stoppedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	systemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)

func (m Model) View() string {
	if m.help.ShowAll {
		return "\n" + headerStyle.Render("Project Browser - Help") + "\n\n" + m.help.View(m.keys)
	}

	header := headerStyle.Render("WinCC OA Projects")
	if m.refreshing {
		header += faintStyle.Render("  refreshing...")
	}

	filterLine := m.filterInput.View()

	var footer string
	if m.statusMessage != "" {
		footer = m.statusMessage
	} else {
		footer = m.help.View(m.keys)
	}

	fullView := lipgloss.JoinVertical(lipgloss.Left,
		header,
		filterLine,
		"",
		m.renderTree(),
		footer,
	)

	return "\n" + fullView
}

func (m Model) renderTree() string {
	if len(m.displayNodes) == 0 {
		return faintStyle.Render("No projects found.") + "\n"
	}

	var b strings.Builder

	// Viewport calculation
	viewportHeight := m.viewportHeight()
	start := m.scrollOffset
	end := m.scrollOffset + viewportHeight
	if end > len(m.displayNodes) {
		end = len(m.displayNodes)
	}

	// Render visible nodes
	for i := start; i < end; i++ {
		node := m.displayNodes[i]
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("▶ ")
		}

		indent := strings.Repeat("  ", node.depth)

		var line string
		if node.isCategory {
			foldIndicator := "▼ "
			if m.collapsedNodes[node.id] {
				foldIndicator = "▶ "
			}
			label := fmt.Sprintf("%s (%d)", node.category.Label, node.category.Count())
			line = cursor + indent + foldIndicator + categoryStyle.Render(label)
		} else {
			line = cursor + indent + m.renderProject(node.project, i == m.cursor)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	// Scroll indicator
	if len(m.displayNodes) > viewportHeight {
		b.WriteString(faintStyle.Render(fmt.Sprintf(" (%d-%d of %d)", start+1, end, len(m.displayNodes))))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderProject(p *models.Project, selected bool) string {
	name := p.Name
	if selected {
		name = selectedStyle.Render(name)
	}

	parts := []string{stateBadge(p.State), name}
	if p.Current {
		parts = append(parts, currentStyle.Render("*"))
	}
	if p.Version != "" {
		parts = append(parts, faintStyle.Render(p.Version))
	}
	parts = append(parts, faintStyle.Render(shortenPath(p.InstallDir)))

	return strings.Join(parts, " ")
}

// stateBadge maps a run state to a colored one-character marker.
func stateBadge(state models.RunState) string {
	switch state {
	case models.StateRunning:
		return runningStyle.Render("●")
	case models.StateNotRunning:
		return stoppedStyle.Render("●")
	case models.StateNotRunnable:
		return warnStyle.Render("✗")
	case models.StateSystem:
		return systemStyle.Render("◆")
	default:
		return faintStyle.Render("○")
	}
}

// shortenPath abbreviates the home directory prefix to a tilde so long
// installation paths stay readable.
func shortenPath(p string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	if strings.HasPrefix(p, home) {
		return "~" + strings.TrimPrefix(p, home)
	}
	return p
}
