package internal

import (
	"fmt"
	"log"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"wodtimer/internal/config"
	"wodtimer/internal/cue"
	"wodtimer/internal/engine"
	"wodtimer/internal/history"
	"wodtimer/internal/session"
)

// MsgTick is the render pump. Timing lives in the session's own clock;
// this only refreshes the snapshot the view draws from.
type MsgTick struct{}

type formField struct {
	label string
	value string
	set   func(c *engine.Config, v int)
}

type Model struct {
	session *session.Session
	repo    *history.Repository
	cfg     *config.Config

	// snap is refreshed on every MsgTick; the view never reads the
	// session directly.
	snap session.Snapshot

	SelectedIndex int // cursor into engine.Modes()

	ShowForm   bool
	fields     []formField
	InputFocus int

	ShowHistory   bool
	HistoryScroll int
	Workouts      []history.Workout

	Fullscreen bool
	Err        error
}

func NewModel(cfg *config.Config) (*Model, error) {
	repo, err := history.NewRepository(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	cues := cue.NewDispatcher(cue.Bell{W: os.Stdout}, cfg.SoundEnabled)
	mode := cfg.InitialMode()

	m := &Model{repo: repo, cfg: cfg}
	m.session = session.New(mode, cues, session.WithOnComplete(func(r session.Result) {
		w := &history.Workout{
			Mode:            string(r.Mode),
			DurationSeconds: r.DurationSeconds,
			Rounds:          r.Rounds,
			FinishedAt:      r.FinishedAt,
		}
		if err := repo.Save(w); err != nil {
			log.Printf("history: save failed: %v", err)
		}
	}))
	m.session.Apply(cfg.SessionConfig(mode))
	m.SelectedIndex = modeIndex(mode)
	m.snap = m.session.Snapshot()

	return m, nil
}

func modeIndex(mode engine.Mode) int {
	for i, d := range engine.Modes() {
		if d.Mode == mode {
			return i
		}
	}
	return 0
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		m.snap = m.session.Snapshot()
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	if m.ShowForm {
		return m.formView()
	}

	if m.ShowHistory {
		return m.historyView()
	}

	if m.Fullscreen {
		return m.fullscreenView()
	}

	return m.mainView()
}

func (m *Model) Close() error {
	m.session.Close()
	return m.repo.Close()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowForm {
		return m.handleFormInput(msg)
	}

	if m.ShowHistory {
		return m.handleHistoryInput(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "left":
		m.selectMode(m.SelectedIndex - 1)
	case "right":
		m.selectMode(m.SelectedIndex + 1)
	case "1", "2", "3", "4", "5":
		i, _ := strconv.Atoi(msg.String())
		m.selectMode(i - 1)
	case " ":
		switch m.snap.Phase {
		case session.PhaseIdle, session.PhaseFinished:
			m.session.Start()
		case session.PhaseRunning:
			if m.snap.State.Paused {
				m.session.Resume()
			} else {
				m.session.Pause()
			}
		}
	case "enter":
		// Manual round completion; the session ignores it outside a
		// running AMRAP.
		m.session.CompleteRound()
	case "r":
		m.session.Reset()
	case "e":
		if m.snap.Phase == session.PhaseIdle {
			m.openForm()
		}
	case "f":
		// Presentation only: the session clock is untouched.
		m.Fullscreen = !m.Fullscreen
	case "s":
		m.session.SetSoundEnabled(!m.session.SoundEnabled())
	case "l":
		workouts, err := m.repo.Recent(50)
		if err != nil {
			log.Printf("history: load failed: %v", err)
			workouts = nil
		}
		m.Workouts = workouts
		m.ShowHistory = true
		m.HistoryScroll = 0
	}

	m.snap = m.session.Snapshot()
	return m, nil
}

// selectMode moves the mode cursor, wrapping at the ends. Switching
// mode resets the session to the new mode's defaults plus any config
// file overrides.
func (m *Model) selectMode(i int) {
	modes := engine.Modes()
	if i < 0 {
		i = len(modes) - 1
	}
	if i >= len(modes) {
		i = 0
	}
	mode := modes[i].Mode
	m.session.ChangeMode(mode)
	m.session.Apply(m.cfg.SessionConfig(mode))
	m.SelectedIndex = i
}

func (m *Model) openForm() {
	c := m.session.Config()
	m.fields = fieldsFor(c)
	m.InputFocus = 0
	m.ShowForm = true
}

// fieldsFor builds the editable fields for the active mode: every mode
// has a duration, EMOM adds its interval count, the cycle modes add
// work/rest/rounds.
func fieldsFor(c engine.Config) []formField {
	fields := []formField{
		{label: "Minutes", value: strconv.Itoa(c.TotalSeconds / 60), set: func(c *engine.Config, v int) { c.TotalSeconds = v * 60 }},
	}
	switch c.Mode {
	case engine.ModeEMOM:
		fields = append(fields,
			formField{label: "Intervals", value: strconv.Itoa(c.Intervals), set: func(c *engine.Config, v int) { c.Intervals = v }},
		)
	case engine.ModeTabata, engine.ModeCustom:
		fields = append(fields,
			formField{label: "Work (sec)", value: strconv.Itoa(c.WorkSeconds), set: func(c *engine.Config, v int) { c.WorkSeconds = v }},
			formField{label: "Rest (sec)", value: strconv.Itoa(c.RestSeconds), set: func(c *engine.Config, v int) { c.RestSeconds = v }},
			formField{label: "Rounds", value: strconv.Itoa(c.Rounds), set: func(c *engine.Config, v int) { c.Rounds = v }},
		)
	}
	return fields
}

func (m *Model) applyForm() {
	c := m.session.Config()
	for _, f := range m.fields {
		v, err := strconv.Atoi(f.value)
		if err != nil {
			v = 0 // clamped to the minimum by the session
		}
		f.set(&c, v)
	}
	m.session.Apply(c)
	m.ShowForm = false
	m.fields = nil
}

func (m *Model) handleFormInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.ShowForm = false
		m.fields = nil
	case "enter":
		if m.InputFocus < len(m.fields)-1 {
			m.InputFocus++
		} else {
			m.applyForm()
		}
	case "tab", "down":
		m.InputFocus = (m.InputFocus + 1) % len(m.fields)
	case "shift+tab", "up":
		m.InputFocus = (m.InputFocus + len(m.fields) - 1) % len(m.fields)
	case "backspace":
		f := &m.fields[m.InputFocus]
		if len(f.value) > 0 {
			f.value = f.value[:len(f.value)-1]
		}
	default:
		runes := []rune(msg.String())
		if len(runes) == 1 && runes[0] >= '0' && runes[0] <= '9' {
			m.fields[m.InputFocus].value += string(runes[0])
		}
	}

	m.snap = m.session.Snapshot()
	return m, nil
}

func (m *Model) handleHistoryInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc", "l":
		m.ShowHistory = false
		m.Workouts = nil
	case "up", "k":
		if m.HistoryScroll > 0 {
			m.HistoryScroll--
		}
	case "down", "j":
		maxScroll := len(m.Workouts) - 1
		if maxScroll < 0 {
			maxScroll = 0
		}
		if m.HistoryScroll < maxScroll {
			m.HistoryScroll++
		}
	}
	return m, nil
}
