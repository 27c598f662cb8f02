// Package tui runs the exercises in a terminal. Scenes are painted with
// colored half blocks; clicks come from terminal mouse reporting.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/perhabs/internal/clock"
	"github.com/san-kum/perhabs/internal/config"
	"github.com/san-kum/perhabs/internal/exercise"
	"github.com/san-kum/perhabs/internal/input"
	"github.com/san-kum/perhabs/internal/render"
	"github.com/san-kum/perhabs/internal/report"
	"github.com/san-kum/perhabs/internal/stage"
)

const (
	headerRows = 2
	footerRows = 2
	trendRows  = 8
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

type state int

const (
	stateMenu state = iota
	stateExercise
)

// Options configure the terminal host. Frame must be the clock the
// exercises were built with.
type Options struct {
	Exercises []exercise.Exercise
	Frame     *clock.Frame
	// Config supplies the theme. It is followed on reload.
	Config *config.Store
	// Reports is optional; finished sessions are saved when set.
	Reports *report.Writer
	Seed    int64
	Preset  string
	Logger  *slog.Logger
}

type Model struct {
	exercises []exercise.Exercise
	frame     *clock.Frame
	config    *config.Store
	theme     Theme
	// configTheme is the last theme name taken from the config.
	configTheme string
	reports     *report.Writer
	seed        int64
	preset      string
	log         *slog.Logger

	state         state
	cursor        int
	current       exercise.Exercise
	in            input.Frame
	scene         *render.Scene
	width, height int
	saved         bool
	reportID      string
}

func NewModel(o Options) Model {
	if o.Frame == nil {
		o.Frame = clock.NewFrame(clock.System)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return Model{
		exercises: o.Exercises,
		frame:     o.Frame,
		config:    o.Config,
		theme:     ThemeMinimal,
		reports:   o.Reports,
		seed:      o.Seed,
		preset:    o.Preset,
		log:       o.Logger,
		scene:     render.NewScene(render.White),
		width:     80,
		height:    24,
	}
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case TickMsg:
		m = m.step()
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m = m.handleMouse(msg)
	}
	return m, nil
}

// step advances the running exercise by one frame with the input gathered
// since the previous tick.
func (m Model) step() Model {
	m.frame.Tick()
	if m.config != nil {
		if cfg, ok := m.config.Current(); ok && cfg.Theme != m.configTheme {
			m.configTheme = cfg.Theme
			m.theme = GetTheme(cfg.Theme)
		}
	}
	if m.state != stateExercise {
		m.in.Reset()
		return m
	}
	m.current.Tick(m.in)
	m.in.Reset()

	sum := m.current.Summary()
	if sum.Stage != stage.Finished {
		m.saved = false
		return m
	}
	if !m.saved {
		m.saved = true
		m.reportID = m.save(sum)
	}
	return m
}

func (m Model) save(sum exercise.Summary) string {
	if m.reports == nil {
		return ""
	}
	id, err := m.reports.Save(sum, m.seed, m.preset)
	if err != nil {
		m.log.Error("saving report failed", "exercise", sum.Kind, "err", err)
		return ""
	}
	m.log.Info("report saved", "id", id)
	return id
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateExercise:
		switch msg.String() {
		case "esc":
			m.current.Reset()
			m.current, m.state, m.reportID = nil, stateMenu, ""
			return m, nil
		case "t":
			m.theme = m.theme.next()
			return m, nil
		}
		if k, ok := keyFor(msg); ok {
			m.in.Press(k)
		}
	}
	return m, nil
}

func (m Model) menuKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.exercises)-1 {
			m.cursor++
		}
	case "t":
		m.theme = m.theme.next()
	case "enter", " ":
		if len(m.exercises) == 0 {
			return m, nil
		}
		m.current = m.exercises[m.cursor]
		m.state, m.saved, m.reportID = stateExercise, false, ""
		m.current.Start()
		m.log.Info("exercise selected", "exercise", m.current.Kind())
	}
	return m, nil
}

// keyFor maps terminal keys to exercise input.
func keyFor(msg tea.KeyMsg) (input.Key, bool) {
	switch msg.String() {
	case "up":
		return input.KeyUp, true
	case "down":
		return input.KeyDown, true
	case "left":
		return input.KeyLeft, true
	case "right":
		return input.KeyRight, true
	case " ", "space":
		return input.KeySpace, true
	case "enter":
		return input.KeyEnter, true
	}
	return 0, false
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if m.state != stateExercise {
		return m
	}
	p, ok := m.viewport().ToScene(msg.X, msg.Y-headerRows)
	if !ok {
		return m
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.in.Click(p)
	}
	m.in.Hover(p)
	return m
}

// viewport is the canvas area left after the header, footer and, once a
// session is finished, the trend graph.
func (m Model) viewport() Viewport {
	rows := m.height - headerRows - footerRows
	if m.showTrend() {
		rows -= trendRows
	}
	return NewViewport(m.width, rows)
}

func (m Model) showTrend() bool {
	if m.current == nil {
		return false
	}
	sum := m.current.Summary()
	return sum.Stage == stage.Finished && len(sum.Scores) > 1
}

func (m Model) View() string {
	switch m.state {
	case stateExercise:
		return m.viewExercise()
	default:
		return m.viewMenu()
	}
}

func (m Model) viewMenu() string {
	st := m.theme.styles()
	var b strings.Builder
	b.WriteString("\n\n    " + st.title.Render("PERHABS") + "\n    " + st.sub.Render("visual and auditory rehabilitation") + "\n    " + st.sub.Render("──────────────────────────────────") + "\n\n")
	for i, ex := range m.exercises {
		name := fmt.Sprintf("%-18s", ex.Name())
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", st.key.Render("▸"), st.selected.Render(name), st.desc.Render(ex.Kind().Description())))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", st.item.Render(name), st.item.Render(ex.Kind().Description())))
		}
	}
	b.WriteString("\n    " + help(st, "j/k", "navigate", "enter", "start", "t", "theme", "q", "quit") + "\n")
	return b.String()
}

func (m Model) viewExercise() string {
	st := m.theme.styles()
	m.scene.Reset(render.White)
	m.current.Draw(m.scene)

	raster := NewRaster(m.viewport())
	raster.Paint(m.scene)

	var b strings.Builder
	b.WriteString(st.title.Render(strings.ToUpper(m.current.Name())) + "  " + st.status.Render(m.scene.Status) + "\n\n")
	b.WriteString(raster.String() + "\n")

	sum := m.current.Summary()
	if m.showTrend() {
		chart := asciigraph.Plot(runningAverage(sum.Scores),
			asciigraph.Height(trendRows-2),
			asciigraph.Width(min(60, max(m.width-10, 10))),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(1),
			asciigraph.Caption("running score"))
		b.WriteString(st.graph.Render(chart) + "\n")
	}
	if m.reportID != "" {
		b.WriteString(st.good.Render("report saved: "+m.reportID) + "\n")
	} else {
		b.WriteString("\n")
	}
	b.WriteString(help(st, "arrows", "answer", "click", "pick", "space", "start", "t", "theme", "esc", "menu"))
	return b.String()
}

// help renders key and action pairs.
func help(st styles, pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(st.key.Render(pairs[i]) + st.hint.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func runningAverage(scores []float64) []float64 {
	out := make([]float64, len(scores))
	sum := 0.0
	for i, s := range scores {
		sum += s
		out[i] = sum / float64(i+1)
	}
	return out
}

// Run starts the terminal host and blocks until the user quits.
func Run(o Options) error {
	p := tea.NewProgram(NewModel(o), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
