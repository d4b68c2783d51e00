package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/engine"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

// Status icons shared across the timeline.
const (
	iconRunning = "[●]"
	iconWaiting = "[◐]"
	iconDone    = "[✓]"
	iconFailed  = "[✗]"
	iconPending = "[○]"
)

// collabLine is one collaboration round-trip shown under its task.
type collabLine struct {
	target   models.DeviceType
	query    string
	response string
	failed   bool
	errText  string
}

// taskLine is one task row in the timeline.
type taskLine struct {
	id      string
	device  models.DeviceType
	action  string
	status  models.TaskStatus
	result  string
	errText string
	collabs []collabLine
}

// Timeline renders the run as it unfolds: the pipeline stages, one row per
// task with collaboration round-trips nested underneath, and the final
// response once the run terminates.
type Timeline struct {
	width int

	started     bool
	intents     string
	planned     string
	tasks       []*taskLine
	aggregating bool
	result      *models.RunResult
	fatal       bool

	stageStyle   lipgloss.Style
	pendingStyle lipgloss.Style
	runningStyle lipgloss.Style
	doneStyle    lipgloss.Style
	failedStyle  lipgloss.Style
	waitingStyle lipgloss.Style
	dimStyle     lipgloss.Style
	deviceStyle  lipgloss.Style
	outputStyle  lipgloss.Style
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{
		width: 80,

		stageStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),

		pendingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")), // Gray

		runningStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")), // Green

		doneStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")), // Dark green

		failedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")), // Red

		waitingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")), // Orange

		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		deviceStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("75")), // Light blue

		outputStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	}
}

// SetWidth sets the timeline width.
func (t *Timeline) SetWidth(width int) {
	t.width = width
}

// Apply folds one engine event into the timeline state.
func (t *Timeline) Apply(e engine.Event) {
	switch e.Type {
	case engine.EventRunStarted:
		t.started = true
	case engine.EventIntentsExtracted:
		t.intents = e.Message
	case engine.EventPlanCreated:
		t.planned = e.Message
	case engine.EventTaskStarted:
		row := t.row(e.TaskID)
		row.device = e.Device
		row.action = e.Message
		row.status = models.TaskStatusInProgress
	case engine.EventCollaborationRequested:
		row := t.row(e.TaskID)
		row.device = e.Device
		row.status = models.TaskStatusAwaitingCollaboration
		row.collabs = append(row.collabs, collabLine{target: e.Target, query: e.Message})
	case engine.EventCollaborationResolved:
		row := t.row(e.TaskID)
		if n := len(row.collabs); n > 0 {
			row.collabs[n-1].response = e.Message
		}
		row.status = models.TaskStatusInProgress
	case engine.EventCollaborationFailed:
		row := t.row(e.TaskID)
		if n := len(row.collabs); n > 0 {
			row.collabs[n-1].failed = true
			if e.Err != nil {
				row.collabs[n-1].errText = e.Err.Error()
			}
		}
	case engine.EventTaskDone:
		row := t.row(e.TaskID)
		row.device = e.Device
		row.status = models.TaskStatusDone
		row.result = e.Message
	case engine.EventTaskFailed:
		row := t.row(e.TaskID)
		row.device = e.Device
		row.status = models.TaskStatusFailed
		row.errText = e.Message
	case engine.EventAggregating:
		t.aggregating = true
	}
}

// SetResult attaches the terminal report once the run finishes.
func (t *Timeline) SetResult(res *models.RunResult) {
	t.result = res
	t.fatal = res != nil && res.Err != ""
}

// row finds or creates the task row for an ID, preserving arrival order.
func (t *Timeline) row(id string) *taskLine {
	for _, row := range t.tasks {
		if row.id == id {
			return row
		}
	}
	row := &taskLine{id: id, status: models.TaskStatusPending}
	t.tasks = append(t.tasks, row)
	return row
}

// View renders the timeline.
func (t *Timeline) View() string {
	var b strings.Builder

	if t.started {
		b.WriteString(t.stageLine("intent_analysis", t.intents))
		b.WriteString("\n")
	}
	if t.intents != "" {
		b.WriteString(t.stageLine("task_planner", t.planned))
		b.WriteString("\n")
	}

	for _, row := range t.tasks {
		b.WriteString(t.renderTaskLine(row))
		b.WriteString("\n")
	}

	if t.aggregating {
		text := ""
		if t.result != nil {
			text = "response composed"
		}
		b.WriteString(t.stageLine("aggregator", text))
		b.WriteString("\n")
	}

	if t.result != nil && t.result.FinalOutput != "" {
		b.WriteString("\n")
		b.WriteString(t.renderOutput())
		b.WriteString("\n")
	}

	return b.String()
}

// stageLine renders a pipeline stage row. An empty text means the stage is
// still running, unless the run already died before it could report.
func (t *Timeline) stageLine(name, text string) string {
	icon := t.runningStyle.Render(iconRunning)
	switch {
	case text != "":
		icon = t.doneStyle.Render(iconDone)
	case t.fatal:
		icon = t.failedStyle.Render(iconFailed)
	}
	line := fmt.Sprintf(" %s %s", icon, t.stageStyle.Render(name))
	if text != "" {
		line += "  " + t.dimStyle.Render(truncate(text, t.width-len(name)-10))
	}
	return line
}

// renderTaskLine renders one task row with its nested collaboration and
// result or error preview.
func (t *Timeline) renderTaskLine(row *taskLine) string {
	icon := t.statusIcon(row.status)

	action := truncate(row.action, t.width-22)
	line := fmt.Sprintf(" %s %s %s", icon, t.deviceStyle.Render(fmt.Sprintf("%-13s", row.device.Display())), action)

	for _, col := range row.collabs {
		query := truncate(col.query, t.width-24)
		line += "\n" + t.dimStyle.Render(fmt.Sprintf("       └─ asks %s: %s", col.target.Display(), query))
		if col.failed {
			errText := truncate(col.errText, t.width-14)
			line += "\n       " + t.failedStyle.Render("✗ "+errText)
		} else if col.response != "" {
			response := truncate(firstLine(col.response), t.width-14)
			line += "\n" + t.dimStyle.Render("          ↳ "+response)
		}
	}

	if row.status == models.TaskStatusDone && row.result != "" {
		result := truncate(firstLine(row.result), t.width-12)
		line += "\n" + t.dimStyle.Render("       └─ "+result)
	}
	if row.status == models.TaskStatusFailed && row.errText != "" {
		errText := truncate(row.errText, t.width-12)
		line += "\n       " + t.failedStyle.Render(errText)
	}

	return line
}

// renderOutput renders the final response box.
func (t *Timeline) renderOutput() string {
	width := t.width - 4
	if width < 20 {
		width = 20
	}
	box := t.outputStyle.Width(width).Render(t.result.FinalOutput)

	label := t.doneStyle.Render("✓ Response")
	if t.result.Status == models.RunFailed {
		label = t.failedStyle.Render("✗ Response")
	} else if t.result.Status == models.RunPartial {
		label = t.waitingStyle.Render("◐ Response (partial)")
	}
	return " " + label + "\n" + box
}

// statusIcon returns the styled icon for a task status.
func (t *Timeline) statusIcon(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusPending:
		return t.pendingStyle.Render(iconPending)
	case models.TaskStatusInProgress:
		return t.runningStyle.Render(iconRunning)
	case models.TaskStatusAwaitingCollaboration:
		return t.waitingStyle.Render(iconWaiting)
	case models.TaskStatusDone:
		return t.doneStyle.Render(iconDone)
	case models.TaskStatusFailed:
		return t.failedStyle.Render(iconFailed)
	default:
		return t.pendingStyle.Render(iconPending)
	}
}

// TaskCounts returns done, failed, and still-active task counts.
func (t *Timeline) TaskCounts() (done, failed, active int) {
	for _, row := range t.tasks {
		switch row.status {
		case models.TaskStatusDone:
			done++
		case models.TaskStatusFailed:
			failed++
		default:
			active++
		}
	}
	return done, failed, active
}

func truncate(s string, max int) string {
	if max < 10 {
		max = 10
	}
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
