package tui

import (
	"context"
	"os"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"platenav/internal/navigator"
	"platenav/internal/plate"
	"platenav/internal/scene"
)

const (
	sidebarWidth      = 28
	headerHeight      = 1
	footerHeight      = 2
	panStep           = 8.0  // dots per arrow key
	zoomStep          = 0.2  // ZoomAt delta per +/- key
	wheelStep         = 60.0 // wheel magnitude per notch
	doubleClickWindow = 400 * time.Millisecond
	fetchTimeout      = 15 * time.Second
)

// Options configures the terminal UI.
type Options struct {
	Library   plate.Library
	ExportW   int
	ExportH   int
	ExportDir string
	Styles    *scene.Styles
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool
	sized       bool

	status   string
	warning  string
	nav      *navigator.Navigator
	events   *Events
	opts     Options
	canvas   *canvas
	now      func() time.Time
	exported string

	// plate library and file sidebar
	cwd   string
	l     list.Model
	items []list.Item

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// selected wells table
	showWells bool
	tbl       table.Model

	// hover state
	hovering     bool
	hoverOnPlate bool
	hoverPhys    r2.Vec

	// double-click detection
	lastPress time.Time
	lastCell  [2]int
}

// New returns the UI for nav. events must be the same hub whose hooks were
// handed to the navigator.
func New(nav *navigator.Navigator, events *Events, opts Options) Model {
	styles := scene.DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	if opts.Library == nil {
		opts.Library = plate.Builtin()
	}
	if opts.ExportW <= 0 || opts.ExportH <= 0 {
		opts.ExportW, opts.ExportH = 1280, 860
	}
	m := Model{
		helpVisible: true,
		status:      "platenav ready",
		nav:         nav,
		events:      events,
		opts:        opts,
		canvas:      newCanvas(80, 24, styles),
		now:         time.Now,
	}
	m.cwd, _ = os.Getwd()
	if opts.ExportDir == "" {
		m.opts.ExportDir = m.cwd
	}
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Plates & files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste well names (A01, B2; C03 ...). Enter selects, ctrl+x deselects, Esc cancels."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// selected wells table
	m.tbl = table.New(table.WithFocused(true), table.WithColumns(wellColumns()))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.events.wait(), m.fetchAreas())
}

// fetchAreas asks for the forbidden areas off the UI goroutine; the result
// comes back as an areasMsg.
func (m Model) fetchAreas() tea.Cmd {
	nav := m.nav
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		return areasMsg(nav.FetchForbiddenAreas(ctx))
	}
}
