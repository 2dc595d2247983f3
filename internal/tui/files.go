package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"geoplot/internal/geom"
	"geoplot/internal/job"
	"geoplot/internal/render/dlist"
)

type fileItem struct {
	title, desc string
	path        string
	isDir       bool
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// supported lists the extensions shown in the sidebar.
var supported = map[string]bool{
	".geojson": true, ".json": true, ".csv": true, ".kml": true, ".wkt": true,
	".txt": true, ".dat": true, ".xy": true, ".xyz": true, ".gmt": true, ".dl": true,
}

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		p := filepath.Join(m.cwd, name)
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if supported[ext] {
			items = append(items, fileItem{title: name, desc: ext, path: p})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath plots p. Display lists (.dl) are shown as recorded.
func (m *Model) loadPath(p string) {
	m.selPath = p
	if strings.EqualFold(filepath.Ext(p), ".dl") {
		m.loadList(p)
		return
	}
	in, err := job.Open(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.setInput(in)
}

func (m *Model) loadList(p string) {
	f, err := os.Open(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	defer f.Close()
	l, err := dlist.Decode(f)
	if err != nil {
		m.status = "display list error: " + err.Error()
		return
	}
	m.input = &job.Input{Name: filepath.Base(p)}
	m.results = []job.Result{{Input: m.input.Name, Kind: geom.KindTable, List: l}}
	m.resetView()
	m.status = fmt.Sprintf("loaded: %s  items=%d", m.input.Name, len(l.Items))
	m.refreshReport()
}

func (m *Model) setInput(in job.Input) {
	m.input = &in
	m.resetView()
	m.replot()
}

func (m *Model) resetView() {
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.inspectPopup = ""
	for i := range m.show {
		m.show[i] = true
	}
}

// replot runs the pipeline over the current input.
func (m *Model) replot() {
	if m.input == nil || len(m.input.Layers) == 0 {
		return
	}
	results, err := m.job.Record(context.Background(), []job.Input{*m.input})
	m.results = results
	tot := job.Totals(results)
	var warn int
	for _, e := range tot.Warnings {
		warn += e.Count
	}
	m.status = fmt.Sprintf("plotted: %s  layers=%d drawn=%d warnings=%d",
		m.input.Name, len(results), tot.Drawn.Total(), warn)
	if err != nil {
		m.status = "plot error: " + err.Error()
	}
	m.refreshReport()
}
