package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"seehuhn.de/go/geom/vec"

	"geoplot/internal/geom"
	"geoplot/internal/job"
)

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Pipeline and its last output
	job     *job.Job
	input   *job.Input
	results []job.Result

	// last rendered map size (for inspect)
	mapW int
	mapH int

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// symbol prompt
	symbolMode bool
	si         textinput.Model

	// layer visibility by kind
	show [geom.KindTable + 1]bool

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverAt     vec.Vec2
	hoverHasAt  bool
	hoverData   [2]float64
	hoverHasGeo bool

	// report table
	showReport bool
	tbl        table.Model
}

// New returns a viewer plotting with j.
func New(j *job.Job) Model {
	m := Model{
		showSidebar: false,
		helpVisible: true,
		zoom:        1.0,
		status:      "geoplot ready",
		job:         j,
	}
	for i := range m.show {
		m.show[i] = true
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT or a data table. Press Ctrl+D to plot; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// symbol prompt setup
	m.si = textinput.New()
	m.si.Prompt = "symbol> "
	m.si.Placeholder = "c0.2c, t0.3c, b0.5c, f1c/0.2c, ..."
	m.si.CharLimit = 64
	// report table setup (columns fixed, rows per plotted layer)
	m.tbl = table.New(table.WithColumns(reportColumns), table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a file's data at launch.
func NewWithPath(j *job.Job, path string) Model {
	m := New(j)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }
