package browser

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mPokornyETM/oaprojects/pkg/models"
	"github.com/mPokornyETM/oaprojects/pkg/service"
)

// displayNode represents a single line in the hierarchical browser view.
type displayNode struct {
	isCategory bool

	category *models.CategoryNode
	project  *models.Project

	// Pre-calculated for rendering
	id    string
	depth int
}

// isFoldable returns true if this node can be collapsed/expanded
func (n *displayNode) isFoldable() bool {
	return n.isCategory
}

// Model is the main model for the project browser TUI
type Model struct {
	service        *service.Service
	categories     []*models.CategoryNode
	displayNodes   []*displayNode
	cursor         int
	scrollOffset   int
	keys           KeyMap
	help           help.Model
	width          int
	height         int
	filterInput    textinput.Model
	lastKey        string          // For detecting 'gg' sequences
	collapsedNodes map[string]bool // Tracks collapsed categories
	statusMessage  string
	refreshing     bool
}

// New creates a new browser model. The service is expected to have been
// refreshed at least once.
func New(svc *service.Service) Model {
	ti := textinput.New()
	ti.Placeholder = "Filter projects..."
	ti.CharLimit = 100
	ti.SetValue(svc.FilterTerm())

	m := Model{
		service:        svc,
		categories:     svc.Categories(),
		keys:           keys,
		help:           help.New(),
		filterInput:    ti,
		collapsedNodes: make(map[string]bool),
	}
	m.buildDisplayNodes()
	return m
}

// Init initializes the browser. The inventory is loaded before the
// program starts, so there is nothing to do here.
func (m Model) Init() tea.Cmd {
	return nil
}

// refreshedMsg is sent when a background refresh has finished.
type refreshedMsg struct {
	categories []*models.CategoryNode
	err        error
}

// refreshCmd re-reads the environment off the Update loop.
func refreshCmd(svc *service.Service) tea.Cmd {
	return func() tea.Msg {
		categories, err := svc.Refresh()
		return refreshedMsg{categories: categories, err: err}
	}
}
