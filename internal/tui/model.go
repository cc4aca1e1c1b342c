// Package tui implements the terminal user interface using bubbletea:
// a three-phase walkthrough (landing, intake, result) around the workflow
// controller.
package tui

import (
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/wholes0meglock/rehab-ai/internal/intake"
	"github.com/wholes0meglock/rehab-ai/internal/plan"
	"github.com/wholes0meglock/rehab-ai/internal/planclient"
	"github.com/wholes0meglock/rehab-ai/internal/workflow"
)

// Focusable intake form fields, in tab order. Slots and the submit button
// follow after the last input.
const (
	focusFile = iota
	focusAge
	focusGender
	focusSurgeryDate
	focusConditions
	focusNotes
	focusSlots // focusSlots..focusSlots+len(SlotCatalog)-1
)

var genderOptions = []string{"", "Male", "Female", "Other"}

// Model is the bubbletea model for the TUI.
type Model struct {
	ctrl    *workflow.Controller
	client  *planclient.Client
	timeout time.Duration

	inputs      []textinput.Model // file, age, surgery date, conditions
	notes       textarea.Model
	focus       int
	genderIdx   int
	selectedDay int // cursor in the result day list

	spinner      spinner.Model
	dayViewport  viewport.Model
	renderer     *glamour.TermRenderer
	prompt       string // user-facing validation or submission error
	width        int
	height       int
	ready        bool
	hideTips     bool
	tipIndex     int
	submitStart  time.Time

	// pendingPreview is an attachment preselected via --file whose preview
	// derivation starts with the program.
	pendingPreview *intake.Attachment
}

// Options configures a new Model.
type Options struct {
	Client   *planclient.Client
	Timeout  time.Duration
	HideTips bool
}

// NewModel creates a new Model in the landing phase.
func NewModel(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		ctrl:     workflow.New(),
		client:   opts.Client,
		timeout:  opts.Timeout,
		spinner:  s,
		hideTips: opts.HideTips,
		tipIndex: rand.IntN(len(sidebarTips)),
	}
}

// Controller exposes the workflow controller, mostly for tests.
func (m *Model) Controller() *workflow.Controller {
	return m.ctrl
}

// Prefill skips the landing phase and preselects a file and notes, as with
// the --file and --notes flags.
func (m *Model) Prefill(path, notes string) error {
	if err := m.ctrl.Start(); err != nil {
		return err
	}
	m.newIntakeWidgets()

	if notes != "" {
		m.notes.SetValue(notes)
	}
	if path != "" {
		att, err := loadAttachment(path)
		if err != nil {
			return err
		}
		m.ctrl.Intake().SetFile(att)
		m.inputs[0].SetValue(path)
		if att.IsImage() {
			m.pendingPreview = att
		}
	}
	m.syncIntake()
	return nil
}

// newIntakeWidgets builds fresh form widgets for a new intake cycle.
func (m *Model) newIntakeWidgets() {
	file := textinput.New()
	file.Placeholder = "path/to/discharge-summary.pdf"
	file.CharLimit = 240
	file.Width = 44
	file.Focus()

	age := textinput.New()
	age.Placeholder = "32"
	age.CharLimit = 3
	age.Width = 8

	date := textinput.New()
	date.Placeholder = "2024-01-15"
	date.CharLimit = 10
	date.Width = 14

	conditions := textinput.New()
	conditions.Placeholder = "E.g., Diabetes, Hypertension"
	conditions.CharLimit = 120
	conditions.Width = 44

	notes := textarea.New()
	notes.Placeholder = "E.g., 'Doctor mentioned focusing on extension' or 'I have pain in specific movements'..."
	notes.CharLimit = 2000
	notes.SetWidth(48)
	notes.SetHeight(5)

	m.inputs = []textinput.Model{file, age, date, conditions}
	m.notes = notes
	m.focus = focusFile
	m.genderIdx = 0
	m.prompt = ""
}

// focusCount is the number of focusable fields in the intake form.
func (m *Model) focusCount() int {
	return focusSlots + len(intake.SlotCatalog) + 1 // +1 for the submit button
}

// focusSubmit is the index of the submit button.
func (m *Model) focusSubmit() int {
	return focusSlots + len(intake.SlotCatalog)
}

// inputIndex maps a focus position to its textinput index, or -1 for the
// gender selector, notes area, slots and submit button.
func inputIndex(focus int) int {
	switch focus {
	case focusFile:
		return 0
	case focusAge:
		return 1
	case focusSurgeryDate:
		return 2
	case focusConditions:
		return 3
	default:
		return -1
	}
}

// previewReadyMsg delivers an asynchronously derived file preview, tagged
// with the file it was derived from so stale results can be dropped.
type previewReadyMsg struct {
	fileName string
	preview  string
	err      error
}

// submitDoneMsg signals the submission finished, one way or the other.
type submitDoneMsg struct {
	plan *plan.Plan
	err  error
}

type rendererReadyMsg struct {
	renderer *glamour.TermRenderer
}
