package browser

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mPokornyETM/oaprojects/pkg/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.adjustScroll()
		return m, nil

	case refreshedMsg:
		m.refreshing = false
		if msg.err != nil {
			m.statusMessage = fmt.Sprintf("Refresh failed: %v", msg.err)
			return m, nil
		}
		m.categories = msg.categories
		m.buildDisplayNodes()
		m.clampCursor()
		m.statusMessage = fmt.Sprintf("Refreshed: %d project(s)", len(m.service.Projects()))
		return m, nil

	case tea.KeyMsg:
		if m.help.ShowAll {
			m.help.ShowAll = false
			return m, nil
		}

		// Handle filtering mode
		if m.filterInput.Focused() {
			switch msg.String() {
			case "esc":
				m.filterInput.Blur()
				m.filterInput.SetValue("")
				m.applyFilter()
				return m, nil
			case "enter":
				m.filterInput.Blur()
				return m, nil
			default:
				m.filterInput, cmd = m.filterInput.Update(msg)
				m.applyFilter()
				return m, cmd
			}
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustScroll()
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.displayNodes)-1 {
				m.cursor++
				m.adjustScroll()
			}
		case key.Matches(msg, m.keys.PageUp):
			pageSize := m.viewportHeight() / 2
			if pageSize < 1 {
				pageSize = 1
			}
			m.cursor -= pageSize
			if m.cursor < 0 {
				m.cursor = 0
			}
			m.adjustScroll()
		case key.Matches(msg, m.keys.PageDown):
			pageSize := m.viewportHeight() / 2
			if pageSize < 1 {
				pageSize = 1
			}
			m.cursor += pageSize
			if m.cursor >= len(m.displayNodes) {
				m.cursor = len(m.displayNodes) - 1
			}
			m.adjustScroll()
		case key.Matches(msg, m.keys.GoToTop):
			// Handle 'gg' - go to top when g is pressed twice
			if m.lastKey == "g" {
				m.cursor = 0
				m.adjustScroll()
				m.lastKey = ""
			} else {
				m.lastKey = "g"
				return m, nil
			}
		case key.Matches(msg, m.keys.GoToBottom):
			if len(m.displayNodes) > 0 {
				m.cursor = len(m.displayNodes) - 1
				m.adjustScroll()
			}
		case key.Matches(msg, m.keys.Toggle):
			m.toggleCurrent()
		case key.Matches(msg, m.keys.ExpandAll):
			m.collapsedNodes = make(map[string]bool)
			m.buildDisplayNodes()
			m.clampCursor()
		case key.Matches(msg, m.keys.CollapseAll):
			for _, c := range m.categories {
				m.collapsedNodes["cat:"+c.Label] = true
			}
			m.buildDisplayNodes()
			m.clampCursor()
		case key.Matches(msg, m.keys.Filter):
			m.statusMessage = ""
			m.filterInput.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.ClearFilter):
			if m.filterInput.Value() != "" {
				m.filterInput.SetValue("")
				m.applyFilter()
			}
		case key.Matches(msg, m.keys.Refresh):
			if !m.refreshing {
				m.refreshing = true
				m.statusMessage = "Refreshing..."
				return m, refreshCmd(m.service)
			}
		}
		m.lastKey = msg.String()
	}

	return m, nil
}

// applyFilter pushes the current filter text into the service and
// rebuilds the visible tree from the returned view.
func (m *Model) applyFilter() {
	m.categories = m.service.SetFilter(m.filterInput.Value())
	m.buildDisplayNodes()
	m.clampCursor()
}

// toggleCurrent collapses or expands the category under the cursor.
func (m *Model) toggleCurrent() {
	if m.cursor >= len(m.displayNodes) {
		return
	}
	node := m.displayNodes[m.cursor]
	if !node.isFoldable() {
		return
	}
	m.collapsedNodes[node.id] = !m.collapsedNodes[node.id]
	m.buildDisplayNodes()
	m.clampCursor()
}

// buildDisplayNodes flattens the category tree into a list of visible
// lines, honoring the collapsed state.
func (m *Model) buildDisplayNodes() {
	m.displayNodes = m.displayNodes[:0]
	for _, c := range m.categories {
		m.appendCategory(c, "cat:"+c.Label, 0)
	}
}

func (m *Model) appendCategory(c *models.CategoryNode, id string, depth int) {
	m.displayNodes = append(m.displayNodes, &displayNode{
		isCategory: true,
		category:   c,
		id:         id,
		depth:      depth,
	})
	if m.collapsedNodes[id] {
		return
	}
	for _, p := range c.Projects {
		m.displayNodes = append(m.displayNodes, &displayNode{
			project: p,
			depth:   depth + 1,
		})
	}
	for _, child := range c.Children {
		m.appendCategory(child, id+"/"+child.Label, depth+1)
	}
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.displayNodes) {
		m.cursor = len(m.displayNodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.adjustScroll()
}

// adjustScroll keeps the cursor inside the visible window.
func (m *Model) adjustScroll() {
	viewportHeight := m.viewportHeight()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+viewportHeight {
		m.scrollOffset = m.cursor - viewportHeight + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// viewportHeight is the number of tree lines that fit between the
// header and the footer.
func (m *Model) viewportHeight() int {
	h := m.height - 6
	if h < 1 {
		return 1
	}
	return h
}
