package internal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wodtimer/internal/engine"
	"wodtimer/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	modeItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	modeItemSelectedStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("235")).
				Bold(true).
				Padding(0, 1)

	timerDisplayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("69")).
				Bold(true)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	timerPausedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)

	workPhaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	restPhaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 0)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	inputInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	historyHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("86")).
				Bold(true)

	historyTimeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))
)

func formatSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func (m *Model) mainView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Width(80).Render("WOD Timer"))
	sb.WriteString("\n\n")

	boxes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.modeListView(),
		"  ",
		m.timerDetailView(),
	)
	sb.WriteString(boxes)
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("Mode: ←/→ or 1-5 | Start/Pause: Space | Round: Enter | Reset: r | Edit: e | Fullscreen: f | Sound: s | History: l | Quit: q"))

	return sb.String()
}

func (m *Model) modeListView() string {
	var sb strings.Builder

	sb.WriteString("Modes\n\n")

	for i, d := range engine.Modes() {
		accent := lipgloss.NewStyle().Foreground(lipgloss.Color(d.Color))
		line := fmt.Sprintf("%d %s %s", i+1, d.Icon, d.Label)

		if i == m.SelectedIndex {
			sb.WriteString(modeItemSelectedStyle.Render(accent.Render(line)))
		} else {
			sb.WriteString(modeItemStyle.Render(inactiveStyle.Render(line)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(inactiveStyle.Render(engine.Modes()[m.SelectedIndex].Description))

	return boxStyle.Width(25).Height(15).Render(sb.String())
}

func (m *Model) timerDetailView() string {
	snap := m.snap
	d := engine.Describe(snap.Config.Mode)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s — %s\n\n", d.Label, formatSeconds(snap.Config.TotalSeconds)))
	sb.WriteString(m.clockLine(snap))
	sb.WriteString("\n\n")
	sb.WriteString(m.statusLine(snap))
	sb.WriteString("\n")

	switch snap.Config.Mode {
	case engine.ModeAMRAP:
		sb.WriteString(fmt.Sprintf("Rounds completed: %d\n", snap.State.CompletedRounds))
	case engine.ModeEMOM:
		sb.WriteString(fmt.Sprintf("Interval %d / %d\n", snap.State.CurrentInterval, snap.Config.Intervals))
	case engine.ModeTabata, engine.ModeCustom:
		phase := restPhaseStyle.Render("REST")
		if snap.State.WorkPhase {
			phase = workPhaseStyle.Render("WORK")
		}
		sb.WriteString(fmt.Sprintf("Round %d / %d  %s\n", snap.State.CurrentRound, snap.Config.Rounds, phase))
		sb.WriteString(inactiveStyle.Render(fmt.Sprintf("%ds on / %ds off", snap.Config.WorkSeconds, snap.Config.RestSeconds)))
		sb.WriteString("\n")
	}

	sound := "off"
	if m.session.SoundEnabled() {
		sound = "on"
	}
	sb.WriteString("\n")
	sb.WriteString(inactiveStyle.Render(fmt.Sprintf("Sound: %s", sound)))

	return boxStyle.Width(45).Height(15).Render(sb.String())
}

// clockLine renders the big time readout: the pre-start count while
// counting down, otherwise the session clock (remaining or elapsed,
// depending on the mode's count direction).
func (m *Model) clockLine(snap session.Snapshot) string {
	if snap.Phase == session.PhaseCountdown {
		return timerPausedStyle.Render(fmt.Sprintf("Starting in %d...", snap.Countdown))
	}

	text := formatSeconds(snap.State.CurrentSeconds)
	if snap.Config.CountUp {
		text += inactiveStyle.Render(" / " + formatSeconds(snap.Config.TotalSeconds))
	}

	switch {
	case snap.State.Paused:
		return timerPausedStyle.Render(text)
	case snap.Phase == session.PhaseRunning:
		return timerRunningStyle.Render(text)
	default:
		return timerDisplayStyle.Render(text)
	}
}

func (m *Model) statusLine(snap session.Snapshot) string {
	switch {
	case snap.Phase == session.PhaseFinished:
		return workPhaseStyle.Render("Finished!")
	case snap.State.Paused:
		return timerPausedStyle.Render("Paused")
	case snap.Phase == session.PhaseRunning:
		return timerRunningStyle.Render("Running")
	case snap.Phase == session.PhaseCountdown:
		return timerPausedStyle.Render("Get ready")
	default:
		return inactiveStyle.Render("Ready")
	}
}

func (m *Model) fullscreenView() string {
	snap := m.snap

	body := m.clockLine(snap) + "\n\n" + m.statusLine(snap)
	if snap.Config.Mode == engine.ModeAMRAP {
		body += "\n" + inactiveStyle.Render(fmt.Sprintf("Rounds: %d", snap.State.CompletedRounds))
	}

	return lipgloss.Place(
		80, 24,
		lipgloss.Center, lipgloss.Center,
		titleStyle.Render(engine.Describe(snap.Config.Mode).Label)+"\n\n"+body,
	)
}

func (m *Model) formView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Width(80).Render("Edit " + engine.Describe(m.snap.Config.Mode).Label))
	sb.WriteString("\n\n")

	for i, f := range m.fields {
		marker := "  "
		if i == m.InputFocus {
			marker = "→ "
		}
		label := fmt.Sprintf("%s%s: ", marker, f.label)
		value := f.value
		if i == m.InputFocus {
			label = inputStyle.Render(label)
			value = inputStyle.Render(value + "█")
		} else {
			label = inputInactiveStyle.Render(label)
		}
		sb.WriteString(label + value + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Next: Tab/Enter | Save: Enter on last field | Cancel: Esc"))

	return sb.String()
}

func (m *Model) historyView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Width(80).Render("Workout History"))
	sb.WriteString("\n\n")

	if len(m.Workouts) == 0 {
		sb.WriteString(inactiveStyle.Render("No finished workouts yet."))
	} else {
		sb.WriteString(historyHeaderStyle.Render(fmt.Sprintf("%-10s %-10s %-8s %s", "Mode", "Duration", "Rounds", "Finished")))
		sb.WriteString("\n")

		visible := 15
		end := m.HistoryScroll + visible
		if end > len(m.Workouts) {
			end = len(m.Workouts)
		}
		for _, w := range m.Workouts[m.HistoryScroll:end] {
			label := engine.Describe(engine.Mode(w.Mode)).Label
			sb.WriteString(fmt.Sprintf("%-10s %-10s %-8d %s\n",
				label,
				formatSeconds(w.DurationSeconds),
				w.Rounds,
				historyTimeStyle.Render(w.FinishedAt.Format("Jan 2 15:04")),
			))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Scroll: Up/Down | Close: Esc or l"))

	return sb.String()
}
