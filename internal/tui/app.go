// Package tui provides the terminal user interface for Hearth: a request
// input, a live run timeline fed by engine events, and the final response.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/engine"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

// App modes.
const (
	modeInput = iota
	modeRunning
	modeDone
)

// EngineEventMsg wraps an engine event for the TUI.
type EngineEventMsg struct {
	Event engine.Event
}

// RunDoneMsg signals that the run has terminated.
type RunDoneMsg struct {
	Result *models.RunResult
	Err    error
}

// App is the main bubbletea model for the Hearth TUI.
type App struct {
	header     *Header
	timeline   *Timeline
	inputField *InputField
	spin       spinner.Model

	mode     int
	input    string
	result   *models.RunResult
	runErr   error
	width    int
	height   int
	quitting bool

	// showHeader controls whether the logo block is displayed.
	showHeader bool

	// onSubmit is called when the user submits a request in input mode.
	// It must not block; start the run in a goroutine.
	onSubmit func(input string)

	promptStyle  lipgloss.Style
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	partialStyle lipgloss.Style
	hintStyle    lipgloss.Style
}

// New creates a new App. A non-empty input starts the app in running mode;
// the caller is expected to have launched the run already. An empty input
// shows the request prompt first.
func New(input string) *App {
	mode := modeInput
	if input != "" {
		mode = modeRunning
	}

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("214"))),
	)

	return &App{
		header:     NewHeader(),
		timeline:   NewTimeline(),
		inputField: NewInputField(),
		spin:       spin,
		mode:       mode,
		input:      input,
		showHeader: true,

		promptStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true),

		successStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")).
			Bold(true),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		partialStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),

		hintStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}

// SetSubmitHandler sets the callback for request submissions.
func (a *App) SetSubmitHandler(handler func(input string)) {
	a.onSubmit = handler
}

// SetShowHeader controls whether the logo block is displayed.
func (a *App) SetShowHeader(show bool) {
	a.showHeader = show
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	if a.mode == modeRunning {
		return a.spin.Tick
	}
	return a.inputField.Focus()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.quitting = true
			return a, tea.Quit
		case "q":
			// In input mode "q" is just a letter.
			if a.mode != modeInput {
				a.quitting = true
				return a, tea.Quit
			}
		}
		if a.mode == modeInput {
			var cmd tea.Cmd
			a.inputField, cmd = a.inputField.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.header.SetWidth(msg.Width)
		a.timeline.SetWidth(msg.Width)
		a.inputField.SetWidth(msg.Width)
		return a, nil

	case RequestSubmittedMsg:
		a.input = msg.Input
		a.mode = modeRunning
		a.inputField.Blur()
		if a.onSubmit != nil {
			a.onSubmit(msg.Input)
		}
		return a, a.spin.Tick

	case spinner.TickMsg:
		if a.mode != modeRunning {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case EngineEventMsg:
		a.timeline.Apply(msg.Event)
		return a, nil

	case RunDoneMsg:
		a.mode = modeDone
		a.result = msg.Result
		a.runErr = msg.Err
		a.timeline.SetResult(msg.Result)
		return a, nil
	}

	if a.mode == modeInput {
		var cmd tea.Cmd
		a.inputField, cmd = a.inputField.Update(msg)
		return a, cmd
	}
	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	var content string
	switch a.mode {
	case modeInput:
		content = a.inputField.View()
	default:
		prompt := a.promptStyle.Render("> ") + a.input
		content = fmt.Sprintf(" %s\n\n%s", prompt, a.timeline.View())
	}

	if a.showHeader {
		return fmt.Sprintf("%s\n%s\n\n%s", a.header.View(), content, a.viewFooter())
	}
	return fmt.Sprintf("%s\n\n%s", content, a.viewFooter())
}

// viewFooter renders the status line and keyboard hints.
func (a *App) viewFooter() string {
	switch a.mode {
	case modeInput:
		return " " + a.hintStyle.Render("Enter to send │ ctrl+c to quit")

	case modeRunning:
		done, failed, _ := a.timeline.TaskCounts()
		counts := ""
		if done+failed > 0 {
			counts = fmt.Sprintf(" ✓%d", done)
			if failed > 0 {
				counts += a.errorStyle.Render(fmt.Sprintf(" ✗%d", failed))
			}
		}
		return fmt.Sprintf(" %s orchestrating devices...%s %s",
			a.spin.View(), counts, a.hintStyle.Render("│ q to quit"))

	default:
		status := a.statusLine()
		hints := a.hintStyle.Render("Press q to exit")
		if a.result != nil && (a.result.InputTokens > 0 || a.result.OutputTokens > 0) {
			usage := fmt.Sprintf("tokens %d in / %d out · %.1fs",
				a.result.InputTokens, a.result.OutputTokens, a.result.Duration().Seconds())
			return fmt.Sprintf(" %s │ %s │ %s", status, a.hintStyle.Render(usage), hints)
		}
		return fmt.Sprintf(" %s │ %s", status, hints)
	}
}

// statusLine summarizes the terminal state of the run.
func (a *App) statusLine() string {
	if a.runErr != nil {
		return a.errorStyle.Render("✗ " + a.runErr.Error())
	}
	if a.result == nil {
		return a.errorStyle.Render("✗ run produced no result")
	}
	switch a.result.Status {
	case models.RunComplete:
		return a.successStyle.Render("✓ Run complete")
	case models.RunPartial:
		return a.partialStyle.Render(fmt.Sprintf("◐ Run partial (%d of %d tasks done)",
			a.result.DoneCount(), len(a.result.Tasks)))
	default:
		return a.errorStyle.Render("✗ Run failed")
	}
}

// NewProgram creates a Bubbletea program wrapping app. The returned program
// receives engine events via Send().
func NewProgram(app *App) *tea.Program {
	return tea.NewProgram(app, tea.WithAltScreen())
}
