// Package tui provides a terminal user interface for melodygen
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/james-see/melodygen/pkg/generator"
	"github.com/james-see/melodygen/pkg/midigen"
	"github.com/james-see/melodygen/pkg/theory"
)

var (
	acidGreen  = lipgloss.Color("#39FF14")
	acidYellow = lipgloss.Color("#FFFF00")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(acidGreen).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(acidGreen).
			Bold(true).
			PaddingLeft(2)

	valueStyle = lipgloss.NewStyle().
			Foreground(acidYellow)

	statusStyle = lipgloss.NewStyle().
			Foreground(acidYellow).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(acidGreen).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(acidGreen).
			Padding(1, 2)
)

// State represents the current TUI screen
type State int

const (
	StateMenu State = iota
	StateForm
	StateFilePicker
	StateWorking
	StateResult
)

// action is what a menu entry starts
type action int

const (
	actionMelody action = iota
	actionChords
	actionArpeggio
	actionInspect
	actionExit
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	action      action
}

var menuItems = []MenuItem{
	{Title: "Melody", Description: "Generate a melody over a scale", action: actionMelody},
	{Title: "Chord progression", Description: "Generate a chord progression", action: actionChords},
	{Title: "Arpeggio", Description: "Run the scale up, down or at random", action: actionArpeggio},
	{Title: "Inspect MIDI file", Description: "Decode a .mid file and list its notes", action: actionInspect},
	{Title: "Exit", Description: "Exit the application", action: actionExit},
}

// Model represents the TUI model
type Model struct {
	state      State
	menuIndex  int
	fieldIndex int
	kind       generator.Kind
	fields     []field
	filePicker filepicker.Model
	spinner    spinner.Model
	outputDir  string

	selectedFile string
	outputFile   string
	result       midigen.Result
	summary      *midigen.Summary
	err          error
	width        int
	height       int
}

// generateDoneMsg signals that a file was generated and saved
type generateDoneMsg struct {
	result midigen.Result
	path   string
	err    error
}

// inspectDoneMsg carries a decoded file
type inspectDoneMsg struct {
	summary *midigen.Summary
	err     error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a TUI model that saves generated files into outputDir
func New(outputDir string) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mid", ".midi"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(acidGreen)

	if outputDir == "" {
		outputDir = "."
	}
	return Model{
		state:      StateMenu,
		filePicker: fp,
		spinner:    s,
		outputDir:  outputDir,
	}
}

// State returns the current screen
func (m Model) State() State {
	return m.state
}

// Params returns the request the form currently describes
func (m Model) Params() generator.Params {
	return buildParams(m.kind, m.fields)
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs every message while it is open
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateWorking
			return m, tea.Batch(m.spinner.Tick, inspect(path))
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateForm:
			return m.updateForm(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generateDoneMsg:
		m.state = StateResult
		m.result = msg.result
		m.outputFile = msg.path
		m.err = msg.err
		return m, nil

	case inspectDoneMsg:
		m.state = StateResult
		m.summary = msg.summary
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		switch menuItems[m.menuIndex].action {
		case actionMelody:
			m.kind, m.fields = generator.KindMelody, melodyFields()
		case actionChords:
			m.kind, m.fields = generator.KindChords, chordFields()
		case actionArpeggio:
			m.kind, m.fields = generator.KindArpeggio, arpeggioFields()
		case actionInspect:
			m.state = StateFilePicker
			return m, m.filePicker.Init()
		default:
			return m, tea.Quit
		}
		m.fieldIndex = 0
		m.state = StateForm
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.fieldIndex > 0 {
			m.fieldIndex--
		}
	case "down", "j", "tab":
		if m.fieldIndex < len(m.fields)-1 {
			m.fieldIndex++
		}
	case "right", "l", " ":
		m.fields[m.fieldIndex].next()
	case "left", "h":
		m.fields[m.fieldIndex].prev()
	case "enter":
		m.state = StateWorking
		return m, tea.Batch(m.spinner.Tick, generate(m.Params(), m.outputDir))
	case "esc":
		m.state = StateMenu
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		if m.fields != nil && m.selectedFile == "" {
			m.state = StateForm
		} else {
			m.state = StateMenu
		}
		m.err = nil
		m.summary = nil
		m.selectedFile = ""
		m.outputFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func generate(p generator.Params, dir string) tea.Cmd {
	return func() tea.Msg {
		res, err := midigen.Generate(p)
		if err != nil {
			return generateDoneMsg{err: err}
		}
		path, err := midigen.Save(dir, res)
		if err != nil {
			return generateDoneMsg{err: err}
		}
		return generateDoneMsg{result: res, path: path}
	}
}

func inspect(path string) tea.Cmd {
	return func() tea.Msg {
		sum, err := midigen.InspectFile(path)
		return inspectDoneMsg{summary: sum, err: err}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	help := "↑/↓: navigate • enter: select • q: quit"
	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateForm:
		s.WriteString(m.viewForm())
		help = "↑/↓: field • ←/→: change value • enter: generate • esc: back"
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateWorking:
		s.WriteString(m.viewWorking())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(help))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" GENERATE "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(acidYellow).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewForm() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf(" %s ", strings.ToUpper(string(m.kind)))))
	s.WriteString("\n\n")

	for i, f := range m.fields {
		line := fmt.Sprintf("%-12s ‹ %s ›", f.label, valueStyle.Render(f.value()))
		if i == m.fieldIndex {
			s.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			s.WriteString(menuStyle.Render("  " + line))
		}
		s.WriteString("\n")
	}
	s.WriteString(statusStyle.Render("Saving to " + m.outputDir))

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT MIDI FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewWorking() string {
	var s strings.Builder

	if m.selectedFile != "" {
		s.WriteString(titleStyle.Render(" INSPECTING "))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("%s Reading %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	} else {
		s.WriteString(titleStyle.Render(" GENERATING "))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("%s Generating %s...\n", m.spinner.View(), m.kind))
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	switch {
	case m.err != nil:
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s", m.err.Error())))
	case m.summary != nil:
		s.WriteString(titleStyle.Render(" MIDI FILE "))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("File:       %s\n", filepath.Base(m.selectedFile)))
		s.WriteString(fmt.Sprintf("Format:     %d (%d track)\n", m.summary.Format, m.summary.Tracks))
		s.WriteString(fmt.Sprintf("Resolution: %d ticks/quarter\n", m.summary.Resolution))
		s.WriteString(fmt.Sprintf("Tempo:      %.1f bpm\n", m.summary.BPM))
		s.WriteString(fmt.Sprintf("Notes:      %d", len(m.summary.Notes)))
		for i, n := range m.summary.Notes {
			if i == 8 {
				s.WriteString("\n  ...")
				break
			}
			s.WriteString(fmt.Sprintf("\n  %6d  %-4s vel %3d  len %d", n.Start, pitchName(n.Pitch), n.Velocity, n.Duration))
		}
	default:
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Generation complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Notes:  %d\n", m.result.Notes))
		s.WriteString(fmt.Sprintf("Seed:   %d\n", m.result.Seed))
		s.WriteString(fmt.Sprintf("Output: %s", m.outputFile))
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func pitchName(p uint8) string {
	return fmt.Sprintf("%s%d", theory.NoteName(int(p)%12), int(p)/12-1)
}

func asciiLogo() string {
	logo := `
   __  __ _____ _     ___  ______   ______ _____ _   _
  |  \/  | ____| |   / _ \|  _ \ \ / / ___| ____| \ | |
  | |\/| |  _| | |  | | | | | | \ V / |  _|  _| |  \| |
  | |  | | |___| |__| |_| | |_| || || |_| | |___| |\  |
  |_|  |_|_____|_____\___/|____/ |_| \____|_____|_| \_|
`
	return lipgloss.NewStyle().Foreground(acidGreen).Render(logo)
}

// Run starts the TUI application
func Run(outputDir string) error {
	p := tea.NewProgram(New(outputDir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
