package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ipcsim/internal/geometry"
	"github.com/san-kum/ipcsim/internal/metrics"
	"github.com/san-kum/ipcsim/internal/world"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	historyCapacity = 600
	tickRate        = time.Second / 30
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Watch advances a bound world once per tick until it reaches the frame
// limit or turns invalid.
type Watch struct {
	world     *world.World
	positions func() []geometry.Vector3
	observers []metrics.Observer
	frames    uint64

	canvas   *Canvas
	history  map[string][]float64
	running  bool
	dumped   []uint64
	message  string
	showHelp bool
}

// NewWatch returns a model for w. positions reads the current vertex
// positions; frames of zero means no limit.
func NewWatch(w *world.World, positions func() []geometry.Vector3, frames uint64, observers ...metrics.Observer) *Watch {
	return &Watch{
		world:     w,
		positions: positions,
		observers: observers,
		frames:    frames,
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		history:   make(map[string][]float64, len(observers)),
		running:   true,
	}
}

func (m *Watch) Init() tea.Cmd { return tick() }

func (m *Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			if !m.running {
				m.step()
			}
		case "d":
			m.dump()
		case "u":
			m.recover()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Watch) done() bool {
	return m.frames > 0 && m.world.Frame() >= m.frames
}

func (m *Watch) step() {
	if !m.world.IsValid() || m.done() {
		m.running = false
		return
	}
	if !m.world.Advance() {
		m.running = false
		m.message = "advance failed"
		return
	}
	for _, o := range m.observers {
		h := append(m.history[o.Name()], o.Value())
		if len(h) > historyCapacity {
			h = h[1:]
		}
		m.history[o.Name()] = h
	}
}

func (m *Watch) dump() {
	frame := m.world.Frame()
	if m.world.Dump() {
		m.dumped = append(m.dumped, frame)
		m.message = fmt.Sprintf("dumped frame %d", frame)
		return
	}
	m.message = "dump declined"
}

func (m *Watch) recover() {
	if len(m.dumped) == 0 {
		m.message = "nothing to recover"
		return
	}
	frame := m.dumped[len(m.dumped)-1]
	if m.world.Recover(frame) {
		m.message = fmt.Sprintf("recovered frame %d", frame)
		return
	}
	m.message = "recover declined"
}

// Running reports whether ticks advance the world.
func (m *Watch) Running() bool { return m.running }

// History returns the recorded values of the named observer.
func (m *Watch) History(name string) []float64 { return m.history[name] }

func (m *Watch) View() string {
	m.canvas.Clear()
	if m.world.IsValid() {
		points := m.positions()
		m.canvas.Plot(points, Fit(points))
	}
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("IPCSIM") + "\n")
	s.WriteString(statusLabel(m.world.State(), m.running && !m.done()) + "\n\n")

	frame := m.world.Frame()
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d", frame)) + "\n")
	if m.frames > 0 {
		s.WriteString(labelStyle.Render("Progress") + progressBar(frame, m.frames, 24) + "\n")
	}
	if m.world.IsValid() {
		s.WriteString(labelStyle.Render("Vertices") + valueStyle.Render(fmt.Sprintf("%d", len(m.positions()))) + "\n")
	}
	for _, o := range m.observers {
		s.WriteString(labelStyle.Render(o.Name()) + valueStyle.Render(fmt.Sprintf("%.4g", o.Value())) + "\n")
	}

	if len(m.observers) > 0 {
		name := m.observers[0].Name()
		if h := m.history[name]; len(h) > 1 {
			chart := asciigraph.Plot(h, asciigraph.Height(6), asciigraph.Width(34), asciigraph.Caption(name))
			s.WriteString(graphStyle.Render(chart) + "\n")
		}
	}
	if m.message != "" {
		s.WriteString("\n" + valueStyle.Render(m.message) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause S:Step D:Dump U:Recover ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space  - Pause/Resume               ║
║  S      - Advance one frame (paused) ║
║  D      - Dump the current frame     ║
║  U      - Recover the last dump      ║
║  ?      - Toggle this help           ║
║  Q      - Quit                       ║
╚══════════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}
