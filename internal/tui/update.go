package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"platenav/internal/geom"
	"platenav/internal/navigator"
	"platenav/internal/plate"
	"platenav/internal/render"
	"platenav/internal/selection"
)

// layout is the screen split shared by Update (mouse hit tests) and View.
type layout struct {
	contentW, contentH int
	sidebarW           int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) layout() layout {
	var lay layout
	if m.showSidebar {
		lay.sidebarW = sidebarWidth
	}
	lay.contentH = max(4, m.height-headerHeight-footerHeight)
	lay.contentW = max(10, m.width)
	lay.mapW = max(10, lay.contentW-lay.sidebarW-1)
	lay.mapH = lay.contentH
	lay.mapX = lay.sidebarW
	if m.showSidebar {
		lay.mapX++
	}
	lay.mapY = headerHeight
	return lay
}

// resize follows the terminal or sidebar size onto the canvas and camera.
func (m *Model) resize() {
	lay := m.layout()
	m.canvas.resize(lay.mapW, lay.mapH)
	w, h := m.canvas.Size()
	m.nav.Resize(w, h)
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, lay.contentH-2)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if !m.sized {
			m.sized = true
			m.nav.Fit()
		}
	case warnMsg:
		m.warning = string(msg)
		return m, m.events.wait()
	case moveErrMsg:
		m.warning = "move rejected: " + msg.err.Error()
		return m, m.events.wait()
	case areasMsg:
		m.nav.SetForbiddenAreas([]plate.ForbiddenArea(msg))
		m.status = fmt.Sprintf("%d forbidden areas", len(msg))
		return m, nil
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if m.showWells {
			switch msg.String() {
			case "esc", "a":
				m.showWells = false
				return m, nil
			case "ctrl+c", "q":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
		m.warning = ""
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "+", "=":
			m.nav.Zoom(-zoomStep)
			m.status = zoomStatus(m.nav)
		case "-", "_":
			m.nav.Zoom(zoomStep)
			m.status = zoomStatus(m.nav)
		case "f":
			m.nav.Fit()
			m.status = "fit plate"
			if vb, ok := m.nav.VisibleBounds(); ok {
				m.status = fmt.Sprintf("fit plate: x %.1f..%.1f y %.1f..%.1f mm", vb.MinX, vb.MaxX, vb.MinY, vb.MaxY)
			}
		case "w", "s":
			t := selection.TargetSites
			if m.nav.Target() == selection.TargetSites {
				t = selection.TargetWells
			}
			m.nav.SetTarget(t)
			m.status = "selection target: " + t.String()
		case "c":
			doc := m.nav.Document()
			if doc == nil {
				break
			}
			n, err := m.nav.SelectWells(doc.SelectedWells(), selection.Deselect)
			if err != nil {
				m.status = err.Error()
				break
			}
			m.status = fmt.Sprintf("cleared %d wells", n)
		case "r":
			m.status = "fetching forbidden areas"
			return m, m.fetchAreas()
		case "e":
			m.export()
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
			}
			m.resize()
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.status = "paste mode"
			m.ta.Focus()
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showWells = true
			m.refreshWellsTable()
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.openItem(it)
				}
			}
		case "up", "down", "left", "right":
			// with the sidebar open the arrows drive the list
			if !m.showSidebar {
				m.nav.Pan(arrowDelta(msg.String()))
			}
		}
	case tea.MouseMsg:
		if m.pasteMode || m.showWells {
			return m, nil
		}
		m.handleMouse(msg)
		return m, nil
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := selection.Select
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		m.status = "view mode"
		return m, nil
	case "ctrl+x":
		mode = selection.Deselect
		fallthrough
	case "enter":
		names := plate.ParseWellList(m.ta.Value())
		if len(names) == 0 {
			m.status = "paste: no well names"
			return m, nil
		}
		n, err := m.nav.SelectWells(names, mode)
		if err != nil {
			m.status = "paste: " + err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("paste: %d names, %d wells %sed", len(names), n, mode)
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	lay := m.layout()
	cx, cy := msg.X-lay.mapX, msg.Y-lay.mapY
	if cx < 0 || cx >= lay.mapW || cy < 0 || cy >= lay.mapH {
		m.hovering = false
		if m.nav.State() != selection.Idle {
			m.nav.PointerLeave()
			m.status = "gesture abandoned"
		}
		return
	}
	px, py := dotAt(cx, cy)
	m.hover(px, py)
	p := selection.Pointer{X: px, Y: py, Modifier: msg.Alt || msg.Ctrl || msg.Shift}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.nav.Wheel(px, py, -wheelStep)
		case tea.MouseButtonWheelDown:
			m.nav.Wheel(px, py, wheelStep)
		case tea.MouseButtonLeft, tea.MouseButtonRight, tea.MouseButtonMiddle:
			now := m.now()
			cell := [2]int{cx, cy}
			if msg.Button == tea.MouseButtonLeft && !p.Modifier &&
				!m.lastPress.IsZero() && now.Sub(m.lastPress) <= doubleClickWindow && cell == m.lastCell {
				m.lastPress = now.Add(-2 * doubleClickWindow)
				m.nav.DoubleClick(px, py)
				if m.hoverOnPlate {
					m.status = fmt.Sprintf("move to %.2f, %.2f mm", m.hoverPhys.X, m.hoverPhys.Y)
				}
				return
			}
			m.lastPress, m.lastCell = now, cell
			p.Button = buttonOf(msg.Button)
			m.nav.PointerDown(p)
		}
	case tea.MouseActionMotion:
		m.nav.PointerMove(p)
	case tea.MouseActionRelease:
		r, ok := m.nav.PointerUp(p)
		if !ok {
			return
		}
		if r.Target == selection.TargetSites {
			m.status = fmt.Sprintf("%s %d sites", r.Mode, len(r.Sites))
		} else {
			m.status = fmt.Sprintf("%s %d wells: %s", r.Mode, len(r.Wells), abbreviate(r.Wells, 6))
		}
	}
}

func zoomStatus(nav *navigator.Navigator) string {
	return fmt.Sprintf("zoom: %.2f dots/mm", nav.Camera().Magnification())
}

func arrowDelta(key string) (float64, float64) {
	switch key {
	case "up":
		return 0, -panStep
	case "down":
		return 0, panStep
	case "left":
		return -panStep, 0
	}
	return panStep, 0
}

func buttonOf(b tea.MouseButton) selection.Button {
	switch b {
	case tea.MouseButtonRight:
		return selection.ButtonSecondary
	case tea.MouseButtonMiddle:
		return selection.ButtonMiddle
	}
	return selection.ButtonPrimary
}

// hover tracks the physical point under the pointer for the footer.
func (m *Model) hover(px, py float64) {
	m.hovering = true
	doc := m.nav.Document()
	if doc == nil || doc.Plate == nil {
		m.hoverOnPlate = false
		return
	}
	cam := m.nav.Camera()
	w, h := cam.SurfaceSize()
	p, _ := geom.ScreenToPhysicalUnclamped(px, py, w, h, cam.Box(), doc.Plate.Extent())
	m.hoverPhys = p
	m.hoverOnPlate = doc.Plate.Bounds().Contains(p)
}

// export writes the whole plate as a PNG next to the working directory.
func (m *Model) export() {
	doc := m.nav.Document()
	if doc == nil || doc.Plate == nil {
		m.status = "export: " + plate.ErrNoPlate.Error()
		return
	}
	snap := render.NewSnapshot(m.opts.ExportW, m.opts.ExportH)
	snap.Draw(m.nav.Scene(), render.FitBox(doc.Plate.Bounds(), m.opts.ExportW, m.opts.ExportH, 2))
	name := fmt.Sprintf("plate-%s-%s.png", doc.Plate.ModelID, m.now().Format("20060102-150405"))
	path := filepath.Join(m.opts.ExportDir, name)
	if err := snap.SavePNG(path); err != nil {
		m.status = "export: " + err.Error()
		return
	}
	m.exported = path
	m.status = "exported " + path
}

func abbreviate(names []string, n int) string {
	if len(names) <= n {
		return strings.Join(names, " ")
	}
	return strings.Join(names[:n], " ") + fmt.Sprintf(" +%d", len(names)-n)
}
