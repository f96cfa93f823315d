package tui

import (
	"fmt"
	"io/fs"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-stepper/debug"
	"go-stepper/input"
	"go-stepper/midi"
	"go-stepper/motor"
	"go-stepper/sequencer"
	"go-stepper/theme"
	"go-stepper/widgets"
)

// pollRate is how often the shared input state is checked
const pollRate = time.Second / 30

type Model struct {
	Player    *sequencer.Player
	Monitor   *motor.Monitor
	DeviceMgr *midi.DeviceManager
	Input     *input.State
	Theme     *theme.Theme

	fsys       fs.FS
	browser    *Browser
	lastPlayed string
	status     string
	devices    int
	quitting   bool
	now        func() time.Time
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

type tickMsg time.Time

// NewModel builds the browser over fsys and restores lastSelection if it
// still exists.
func NewModel(fsys fs.FS, player *sequencer.Player, monitor *motor.Monitor, deviceMgr *midi.DeviceManager, state *input.State, th *theme.Theme, lastSelection string) (Model, error) {
	b, err := NewBrowser(fsys)
	if err != nil {
		return Model{}, err
	}
	m := Model{
		Player:    player,
		Monitor:   monitor,
		DeviceMgr: deviceMgr,
		Input:     state,
		Theme:     th,
		fsys:      fsys,
		browser:   b,
		now:       time.Now,
	}

	idx := b.Locate(lastSelection)
	if idx < 0 {
		// Locate may have moved elsewhere
		if err := b.Open("."); err != nil {
			return Model{}, err
		}
	}
	state.SetLimit(len(b.Entries()))
	if idx > 0 {
		state.Select(idx)
	}
	return m, nil
}

// LastPlayed returns the path of the last file started
func (m Model) LastPlayed() string {
	return m.lastPlayed
}

func ListenForUpdates(player *sequencer.Player) tea.Cmd {
	return func() tea.Msg {
		<-player.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func tick() tea.Cmd {
	return tea.Tick(pollRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick(), ListenForUpdates(m.Player)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Player.Stop()
			return m, tea.Quit

		case "up", "k":
			m.Input.Rotate(-1, m.now())

		case "down", "j":
			m.Input.Rotate(1, m.now())

		case "pgup":
			m.Input.Rotate(-m.Input.LinesPerScreen(), m.now())

		case "pgdown":
			m.Input.Rotate(m.Input.LinesPerScreen(), m.now())

		case "enter", " ":
			m.Input.Press(m.now())

		case "s":
			m.Player.Stop()
		}

	case tickMsg:
		m.Input.TakeRedraw()
		if m.Input.TakePress() {
			m.activate()
		}
		return m, tick()

	case UpdateMsg:
		if name, playing, stats, err := m.Player.State(); !playing {
			switch {
			case err != nil:
				m.status = fmt.Sprintf("%s: %v", name, err)
			case name != "":
				m.status = fmt.Sprintf("finished %s (%d notes, %d dropped)", name, stats.Drives, stats.Dropped)
			}
		}
		return m, ListenForUpdates(m.Player)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		switch event.Type {
		case midi.DeviceConnected:
			m.devices++
			m.status = "connected " + event.ID
		case midi.DeviceDisconnected:
			m.devices--
			m.status = "disconnected " + event.ID
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

// activate handles a button press: stop what is playing, otherwise enter
// the selected directory or start the selected file.
func (m *Model) activate() {
	if _, playing, _, _ := m.Player.State(); playing {
		m.Player.Stop()
		m.status = "stopped"
		return
	}

	file, changed, err := m.browser.Activate(m.Input.Selection())
	switch {
	case err != nil:
		m.status = err.Error()
	case changed:
		m.Input.SetLimit(len(m.browser.Entries()))
		m.status = ""
	case file != "":
		if err := m.Player.PlayFS(m.fsys, file); err != nil {
			debug.Log("tui", "play %s: %v", file, err)
			m.status = err.Error()
			return
		}
		m.lastPlayed = file
		m.status = "playing " + file
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	name, playing, stats, _ := m.Player.State()

	// Styles
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	textStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	selStyle := lipgloss.NewStyle().Foreground(m.Theme.Selection()).Bold(true)

	playState := "STOP"
	if playing {
		playState = "PLAY"
	}
	header := headerStyle.Render(fmt.Sprintf("go-stepper  %s  %s", playState, name))
	if m.devices > 0 {
		header += dimStyle.Render(fmt.Sprintf("  enc:%d", m.devices))
	}

	// One page of the listing
	entries := m.browser.Entries()
	sel := m.Input.Selection()
	page := m.Input.Page()
	var list []string
	for i := page; i < page+m.Input.LinesPerScreen() && i < len(entries); i++ {
		e := entries[i]
		sym := m.Theme.Symbols.File
		if e.Dir {
			sym = m.Theme.Symbols.Dir
		}
		line := fmt.Sprintf("%c %s", sym, e.Name)
		if i == sel {
			list = append(list, selStyle.Render(fmt.Sprintf("%c %s", m.Theme.Symbols.Selected, line)))
		} else {
			list = append(list, textStyle.Render("  "+line))
		}
	}
	if len(entries) == 0 {
		list = append(list, dimStyle.Render("  (empty)"))
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(dimStyle.Render("/" + strings.TrimPrefix(m.browser.Dir(), ".")))
	out.WriteString("\n\n")
	out.WriteString(strings.Join(list, "\n"))
	out.WriteString("\n\n")

	if m.Monitor != nil {
		out.WriteString(widgets.RenderChannelStrip(m.Monitor.Snapshot(), m.Theme))
		out.WriteString("\n")
	}
	if !playing && stats.Drives > 0 {
		out.WriteString(dimStyle.Render(fmt.Sprintf("last run: %d notes, %d dropped", stats.Drives, stats.Dropped)))
		out.WriteString("\n")
	}
	if m.status != "" {
		out.WriteString(textStyle.Render(m.status))
		out.WriteString("\n")
	}

	help := dimStyle.Render("j/k:select  enter:open/play/stop  s:stop  q:quit")
	out.WriteString("\n")
	out.WriteString(help)

	return out.String()
}
