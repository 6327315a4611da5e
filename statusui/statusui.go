// Package statusui renders ephemeral per-entry statuses and persistent log
// lines inline in the terminal while an extraction runs. It is purely
// cosmetic: extraction correctness never depends on it.
package statusui

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	program     *tea.Program
	programLock sync.Mutex
)

type setStatusMsg struct {
	key    string
	status Status
}

type clearStatusMsg struct {
	key string
}

type logMsg struct {
	message string
}

type model struct {
	statuses map[string]Status
	keys     []string // ordered for consistent rendering
	logs     []string // persistent lines above the status area
}

func initialModel() model {
	return model{
		statuses: make(map[string]Status),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case setStatusMsg:
		m.statuses[msg.key] = msg.status
		if !slices.Contains(m.keys, msg.key) {
			m.keys = append(m.keys, msg.key)
		}

	case clearStatusMsg:
		delete(m.statuses, msg.key)
		m.keys = slices.DeleteFunc(slices.Clone(m.keys), func(k string) bool {
			return k == msg.key
		})

	case logMsg:
		trimmed := strings.TrimRight(msg.message, " \t\n\r")
		if trimmed != "" {
			m.logs = append(m.logs, trimmed)
		}
	}

	return m, nil
}

func (m model) View() string {
	var output strings.Builder

	for i, log := range m.logs {
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString(log)
	}

	for _, key := range m.keys {
		if status, ok := m.statuses[key]; ok {
			if output.Len() > 0 {
				output.WriteString("\n")
			}
			output.WriteString(status.Render())
		}
	}

	return output.String()
}

// Start launches the inline renderer. Safe to skip entirely; Set/Clear/Log
// degrade to stderr printing when no program runs.
func Start() error {
	programLock.Lock()
	defer programLock.Unlock()

	if program != nil {
		return fmt.Errorf("TUI already running")
	}

	program = tea.NewProgram(
		initialModel(),
		tea.WithOutput(os.Stderr),
		tea.WithoutSignalHandler(),
		tea.WithInput(nil),
		tea.WithFPS(10),
	)

	go func() {
		if _, err := program.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		}
	}()

	return nil
}

// Stop terminates the renderer and flushes collected log lines to stderr.
func Stop() {
	programLock.Lock()
	defer programLock.Unlock()

	if program != nil {
		program.Quit()
		program = nil
		time.Sleep(100 * time.Millisecond)
		fmt.Print(printAfterTuiClose.String())
		printAfterTuiClose.Reset()
	}
}

// Set updates or creates the status for key.
func Set(key string, status Status) bool {
	programLock.Lock()
	p := program
	programLock.Unlock()

	if p == nil {
		return false
	}

	p.Send(setStatusMsg{key: key, status: status})
	return true
}

// Clear removes the status for key.
func Clear(key string) {
	programLock.Lock()
	p := program
	programLock.Unlock()

	if p == nil {
		return
	}

	p.Send(clearStatusMsg{key: key})
}

type logLevel uint8

const (
	LogLevelInfo logLevel = iota
	LogLevelWarn
	LogLevelError
)

var (
	logInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4"))
	logWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))
	logErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))
)

var printAfterTuiClose = strings.Builder{}

// Log writes a persistent line above the status area. When the TUI is not
// running the line goes straight to stderr.
func Log(message string, level logLevel) {
	programLock.Lock()
	p := program
	defer programLock.Unlock()

	var style lipgloss.Style
	switch level {
	case LogLevelInfo:
		style = logInfoStyle
	case LogLevelWarn:
		style = logWarnStyle
	case LogLevelError:
		style = logErrorStyle
	}
	message = style.Render(message)

	if p == nil {
		fmt.Fprintln(os.Stderr, message)
		return
	}

	printAfterTuiClose.WriteString(message)
	printAfterTuiClose.WriteRune('\n')

	p.Send(logMsg{message: message})
}
