package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/IhabMohamed/mppic/internal/recorder"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2)
)

type watchTickMsg time.Time

// watchModel replays a recorded run's tick log one row at a time, the
// same TickMsg-driven playback loop the teacher's viz.Model uses for a
// live simulation, just fed from a file instead of a running model.
type watchModel struct {
	runID   string
	ticks   []recorder.Tick
	index   int
	running bool
	fps     int
}

func newWatchModel(runID string, ticks []recorder.Tick, fps int) watchModel {
	return watchModel{runID: runID, ticks: ticks, running: true, fps: fps}
}

func (m watchModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m watchModel) tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return watchTickMsg(t) })
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.index = 0
		case "left", "h":
			if m.index > 0 {
				m.index--
			}
		case "right", "l":
			if m.index < len(m.ticks)-1 {
				m.index++
			}
		}
		return m, nil
	case watchTickMsg:
		if m.running && m.index < len(m.ticks)-1 {
			m.index++
		}
		return m, m.tickCmd()
	}
	return m, nil
}

func (m watchModel) View() string {
	if len(m.ticks) == 0 {
		return "no ticks recorded\n"
	}
	t := m.ticks[m.index]

	row := func(label string, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	cost := valueStyle.Render(fmt.Sprintf("%.4f", t.MinCost))
	if t.FailFlag {
		cost = failStyle.Render(fmt.Sprintf("%.4f (fail_flag)", t.MinCost))
	}

	body := headerStyle.Render(fmt.Sprintf("run %s  tick %d/%d", m.runID, m.index+1, len(m.ticks))) + "\n" +
		row("time", fmt.Sprintf("%.3f s", t.Time)) + "\n" +
		row("pose (x,y,yaw)", fmt.Sprintf("%.3f, %.3f, %.3f", t.Pose[0], t.Pose[1], t.Pose[2])) + "\n" +
		row("command (vx,vy,wz)", fmt.Sprintf("%.3f, %.3f, %.3f", t.Command[0], t.Command[1], t.Command[2])) + "\n" +
		labelStyle.Render("min cost") + cost

	help := helpStyle.Render("space: pause/resume  ←/→: step  r: restart  q: quit")

	return panelStyle.Render(body) + "\n" + help + "\n"
}

func watchRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	ticks, err := recorder.LoadTicks(dataDir, runID)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newWatchModel(runID, ticks, fps))
	_, err = p.Run()
	return err
}
