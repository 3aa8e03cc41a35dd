// Package ui renders the live tuner in the terminal: the current note, its
// frequency and tuning status, and the scrolling frequency trace.
package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kazzyman/groktune/internal/capture"
	"github.com/kazzyman/groktune/internal/config"
	"github.com/kazzyman/groktune/internal/trace"
	"github.com/kazzyman/groktune/internal/tuner"
)

// Monitor is the part of the tuner the UI reads from and controls.
type Monitor interface {
	Config() config.Config
	Latest() (tuner.Reading, bool)
	Trace() []trace.Point
	Device() (capture.Device, bool)
	Devices() ([]capture.Device, error)
	SwitchDevice(id int) error
}

const centsWidth = 41 // odd so the centre cell marks 0 cents

type tickMsg time.Time

// switchState carries the outcome of a debounced device switch back to the
// model, which is copied by value on every update.
type switchState struct {
	mu      sync.Mutex
	pending bool
	err     error
}

func (s *switchState) set(pending bool, err error) {
	s.mu.Lock()
	s.pending, s.err = pending, err
	s.mu.Unlock()
}

func (s *switchState) get() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending, s.err
}

// Model is the bubbletea model for the tuner screen.
type Model struct {
	mon         Monitor
	cfg         config.Config
	switchLater func(func())
	sw          *switchState

	reading  tuner.Reading
	hasRead  bool
	points   []trace.Point
	device   capture.Device
	running  bool
	devices  []capture.Device
	selected int // index into devices
	err      error
	width    int
	height   int
}

// NewModel creates a Model polling mon. Device changes are applied once
// the selection has been still for switchDelay.
func NewModel(mon Monitor, switchDelay time.Duration) Model {
	m := Model{
		mon:         mon,
		cfg:         mon.Config(),
		switchLater: debounce.New(switchDelay),
		sw:          &switchState{},
		width:       80,
		height:      24,
	}
	m.devices, m.err = mon.Devices()
	m.device, m.running = mon.Device()
	m.selected = m.indexOf(m.device.ID)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.tickCmd(), tea.WindowSize())
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.cycle(-1)
		case "right", "l":
			m.cycle(1)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.refresh()
		return m, m.tickCmd()
	}
	return m, nil
}

func (m *Model) refresh() {
	m.reading, m.hasRead = m.mon.Latest()
	m.points = m.mon.Trace()
	m.device, m.running = m.mon.Device()
	if pending, err := m.sw.get(); !pending {
		m.err = err
	}
}

// cycle moves the device selection and schedules the switch.
func (m *Model) cycle(delta int) {
	if len(m.devices) == 0 {
		return
	}
	m.selected = (m.selected + delta + len(m.devices)) % len(m.devices)
	id := m.devices[m.selected].ID
	mon, sw := m.mon, m.sw
	sw.set(true, nil)
	m.switchLater(func() {
		sw.set(false, mon.SwitchDevice(id))
	})
}

func (m Model) indexOf(id int) int {
	for i, d := range m.devices {
		if d.ID == id {
			return i
		}
	}
	return 0
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("groktune"))
	sb.WriteString("  ")
	sb.WriteString(m.deviceLine())
	sb.WriteString("\n\n")
	sb.WriteString(m.readingView())
	sb.WriteString("\n\n")
	sb.WriteString(m.traceView())
	sb.WriteString("\n")
	if m.err != nil {
		sb.WriteString(badStyle.Render("error: " + m.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render("←/→ device • q quit"))
	return sb.String()
}

func (m Model) deviceLine() string {
	if len(m.devices) == 0 {
		return labelStyle.Render("no input devices")
	}
	pending, _ := m.sw.get()
	name := m.devices[m.selected].Name
	switch {
	case pending:
		return labelStyle.Render("Mic: ") + name + labelStyle.Render(" (switching…)")
	case !m.running:
		return labelStyle.Render("Mic: ") + name + labelStyle.Render(" (stopped)")
	}
	return labelStyle.Render("Mic: ") + m.device.Name
}

func (m Model) readingView() string {
	if !m.hasRead {
		return noteStyle.Render("--") + labelStyle.Render("listening…")
	}
	r := m.reading
	status := badStyle.Render("✘ Out of tune")
	if r.InTune {
		status = goodStyle.Render("✔ In tune")
	}
	lines := []string{
		noteStyle.Render(r.Note.Name) + status,
		labelStyle.Render("Frequency: ") + fmt.Sprintf("%.2f Hz (≈ %s)", r.Frequency, r.Note.Name),
		labelStyle.Render("Note:      ") + fmt.Sprintf("%s (%.1f Hz)", r.Note.Name, r.Note.Frequency),
		centsMeter(r.Cents, centsWidth),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// centsMeter draws a -50..+50 cent scale with a marker at cents.
func centsMeter(cents float64, width int) string {
	half := width / 2
	pos := half + int(cents/50*float64(half))
	pos = max(0, min(width-1, pos))

	var sb strings.Builder
	sb.WriteString(labelStyle.Render("-50 "))
	for i := range width {
		switch {
		case i == pos:
			sb.WriteString(markerStyle.Render("┃"))
		case i == half:
			sb.WriteString(labelStyle.Render("┊"))
		default:
			sb.WriteString(labelStyle.Render("─"))
		}
	}
	sb.WriteString(labelStyle.Render(" +50"))
	return sb.String()
}

func (m Model) traceView() string {
	// title, blank, 4 reading lines, blank, help, error, frame border
	cols := max(m.width-2, 10)
	rows := max(m.height-12, 4)
	plot := renderTrace(m.points, m.cfg.CanvasWidth, m.cfg.CanvasHeight, cols, rows)
	return frameStyle.Render(traceStyle.Render(plot))
}
