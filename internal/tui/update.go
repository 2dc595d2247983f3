package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geoplot/internal/geom"
	"geoplot/internal/job"
	"geoplot/internal/proj"
	"geoplot/internal/symbol"
)

const sidebarWidth = 28

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.height-1-2) // provisional; will be refined in View
		}
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
		if m.symbolMode {
			return m.updateSymbol(msg)
		}
		if m.showReport {
			switch msg.String() {
			case "esc", "r":
				m.showReport = false
				return m, nil
			case "ctrl+c", "q":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1":
			m.toggle(geom.KindPoints)
		case "2":
			m.toggle(geom.KindLines)
		case "3":
			m.toggle(geom.KindPolygons)
		case "4":
			m.toggle(geom.KindTable)
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "0":
			m.zoom, m.offsetX, m.offsetY = 1, 0, 0
			m.status = "view reset"
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, m.height-1-2)
			}
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.status = "paste mode"
			m.ta.Focus()
		case "s":
			m.symbolMode = true
			m.si.SetValue(m.job.Options.Symbol)
			m.si.CursorEnd()
			m.status = "symbol prompt"
			m.si.Focus()
		case "h":
			m.helpVisible = !m.helpVisible
		case "r", "a":
			m.showReport = !m.showReport
			if m.showReport {
				m.refreshReport()
			}
		case "w":
			if lines := m.warningLines(); len(lines) > 0 {
				m.inspectPopup = strings.Join(lines, "\n")
				m.status = "warnings"
			} else {
				m.inspectPopup = ""
				m.status = "no warnings"
			}
		case "i":
			m.inspect()
		case "esc":
			m.inspectPopup = ""
		case "l":
			// toggle all layers
			all := true
			for _, v := range m.show {
				all = all && v
			}
			for i := range m.show {
				m.show[i] = !all
			}
			m.status = fmt.Sprintf("layers: %v", !all)
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
			}
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		m.hover(msg.X, msg.Y)
	}
	_, _, m.mapW, m.mapH = m.layout()
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	case "ctrl+d":
		text := strings.TrimSpace(m.ta.Value())
		if text == "" {
			m.status = "paste: empty"
			return m, nil
		}
		in, err := job.Parse("<pasted>", text)
		if err != nil {
			m.status = "paste error: " + err.Error()
			return m, nil
		}
		m.selPath = ""
		m.pasteMode = false
		m.ta.Blur()
		m.setInput(in)
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m Model) updateSymbol(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.symbolMode = false
		m.si.Blur()
		return m, nil
	case "enter":
		code := strings.TrimSpace(m.si.Value())
		if _, err := symbol.Parse(code, m.job.Options.Unit); err != nil {
			m.status = "symbol error: " + err.Error()
			return m, nil
		}
		m.job.Options.Symbol = code
		m.symbolMode = false
		m.si.Blur()
		m.replot()
		return m, nil
	}
	var cmd tea.Cmd
	m.si, cmd = m.si.Update(msg)
	return m, cmd
}

func (m *Model) toggle(k geom.Kind) {
	m.show[k] = !m.show[k]
	m.status = fmt.Sprintf("%s: %v", k, m.show[k])
}

// layout returns the map origin and size on screen; it must match View.
func (m Model) layout() (x, y, w, h int) {
	side := 0
	if m.showSidebar {
		side = sidebarWidth
		x = side + 1
	}
	headerHeight, footerHeight := 1, 2
	h = max(4, m.height-headerHeight-footerHeight)
	w = max(10, max(10, m.width)-side-1)
	return x, headerHeight, w, h
}

// hover tracks the mouse over the map area.
func (m *Model) hover(sx, sy int) {
	ox, oy, w, h := m.layout()
	cx, cy := sx-ox, sy-oy
	if cx < 0 || cx >= w || cy < 0 || cy >= h {
		m.hovering = false
		return
	}
	m.hovering = true
	m.hoverCellX, m.hoverCellY = cx, cy
	_, data, _, hasData := m.cellToData(cx, cy, w, h)
	m.hoverHasGeo = hasData
	m.hoverData = data
	m.hoverAt, m.hoverHasAt = m.nearestVertex(cx, cy, w, h)
}

func (m *Model) inspect() {
	at, ok := m.inspectNearest()
	if !ok || m.input == nil {
		m.inspectPopup = "no feature nearby"
		m.status = m.inspectPopup
		return
	}
	name := m.input.Name
	path := m.selPath
	if path == "" {
		path = "<unsaved>"
	}
	meta := []string{
		fmt.Sprintf("name: %s", name),
		fmt.Sprintf("path: %s", filepath.Clean(path)),
		fmt.Sprintf("bbox: %v", m.input.BBox),
		fmt.Sprintf("layers: %d", len(m.results)),
		fmt.Sprintf("symbol: %q", m.job.Options.Symbol),
		fmt.Sprintf("nearest: x=%.1fp y=%.1fp", at.X, at.Y),
	}
	if inv, ok := m.job.Proj.(proj.Inverter); ok {
		if x, y, ok := inv.Inverse(at.X, at.Y); ok {
			meta = append(meta, fmt.Sprintf("data: %.6f %.6f", x, y))
		}
	}
	kind := "cartesian"
	if proj.IsGeographic(m.job.Proj) {
		kind = "geographic"
	}
	meta = append(meta, "projection: "+kind)
	m.inspectPopup = strings.Join(meta, "\n")
	m.status = "inspect popup"
}
