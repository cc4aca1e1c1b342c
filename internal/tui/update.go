package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/wholes0meglock/rehab-ai/internal/debug"
	"github.com/wholes0meglock/rehab-ai/internal/intake"
	"github.com/wholes0meglock/rehab-ai/internal/planclient"
	"github.com/wholes0meglock/rehab-ai/internal/preview"
	"github.com/wholes0meglock/rehab-ai/internal/timing"
	"github.com/wholes0meglock/rehab-ai/internal/workflow"
)

func createRendererCmd(width int) tea.Cmd {
	return func() tea.Msg {
		viewportWidth := max(width-6, 40)
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(viewportWidth),
		)
		if err != nil {
			debug.Logf("tui: failed to create glamour renderer: %v", err)
		}
		return rendererReadyMsg{renderer: renderer}
	}
}

// previewCmd derives an image preview in the background. Completion arrives
// as a previewReadyMsg; the intake state drops it if the file changed in the
// meantime.
func previewCmd(att *intake.Attachment, width int) tea.Cmd {
	return func() tea.Msg {
		out, err := preview.Render(att.Bytes, width)
		return previewReadyMsg{fileName: att.Name, preview: out, err: err}
	}
}

// submitCmd performs the one network call of the whole client.
func (m Model) submitCmd() tea.Cmd {
	st := m.ctrl.Intake()
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		p, err := client.Submit(ctx, st)
		return submitDoneMsg{plan: p, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, tea.WindowSize()}
	if m.pendingPreview != nil {
		cmds = append(cmds, previewCmd(m.pendingPreview, previewWidth))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		timing.Log("Update: WindowSizeMsg received")
		m.width = msg.Width
		m.height = msg.Height

		vpWidth := max(40, m.width-6)
		vpHeight := max(8, m.height-10)
		if !m.ready {
			m.dayViewport = viewport.New(vpWidth, vpHeight)
			m.ready = true
			cmds = append(cmds, createRendererCmd(m.width))
		} else {
			m.dayViewport.Width = vpWidth
			m.dayViewport.Height = vpHeight
		}
		if m.ctrl.Phase() == workflow.PhaseResult {
			m.dayViewport.SetContent(m.renderSchedule())
		}

	case rendererReadyMsg:
		timing.Log("Update: rendererReadyMsg received")
		m.renderer = msg.renderer
		if m.ctrl.Phase() == workflow.PhaseResult {
			m.dayViewport.SetContent(m.renderSchedule())
		}

	case previewReadyMsg:
		if msg.err != nil {
			debug.Logf("tui: preview derivation failed for %s: %v", msg.fileName, msg.err)
			break
		}
		if st := m.ctrl.Intake(); st != nil {
			st.SetPreview(msg.fileName, msg.preview)
		}

	case submitDoneMsg:
		if m.ctrl.Phase() != workflow.PhaseSubmitting {
			break
		}
		if msg.err != nil {
			debug.Logf("tui: submission failed after %s: %v", time.Since(m.submitStart), msg.err)
			if err := m.ctrl.Fail(msg.err); err == nil {
				m.prompt = submitErrorPrompt(msg.err)
			}
			break
		}
		if err := m.ctrl.Complete(msg.plan); err == nil {
			m.selectedDay = 1
			m.prompt = ""
			m.dayViewport.SetContent(m.renderSchedule())
			m.dayViewport.GotoTop()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}

	switch m.ctrl.Phase() {
	case workflow.PhaseLanding:
		return m.handleLandingKey(msg)
	case workflow.PhaseIntake:
		return m.handleIntakeKey(msg)
	case workflow.PhaseSubmitting:
		// Submission in flight: the form stays visible but all input except
		// quitting is ignored, so a second submit cannot be issued.
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	case workflow.PhaseResult:
		return m.handleResultKey(msg)
	}
	return m, nil
}

func (m Model) handleLandingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "enter":
		if err := m.ctrl.Start(); err == nil {
			m.newIntakeWidgets()
		}
	}
	return m, nil
}

func (m Model) handleIntakeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if err := m.ctrl.Back(); err == nil {
			m.inputs = nil
		}
		return m, nil

	case "ctrl+s":
		return m.beginSubmit()

	case "tab", "shift+tab":
		return m.moveFocus(msg.String() == "tab"), nil
	}

	switch {
	case m.focus == focusGender:
		switch msg.String() {
		case "left", "h":
			m.genderIdx = (m.genderIdx + len(genderOptions) - 1) % len(genderOptions)
		case "right", "l", " ":
			m.genderIdx = (m.genderIdx + 1) % len(genderOptions)
		}
		m.syncIntake()
		return m, nil

	case m.focus >= focusSlots && m.focus < m.focusSubmit():
		if msg.String() == " " || msg.String() == "enter" {
			if st := m.ctrl.Intake(); st != nil {
				st.ToggleSlot(intake.SlotCatalog[m.focus-focusSlots])
			}
		}
		return m, nil

	case m.focus == m.focusSubmit():
		if msg.String() == "enter" {
			return m.beginSubmit()
		}
		return m, nil

	case m.focus == focusNotes:
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		m.syncIntake()
		return m, cmd

	default:
		idx := inputIndex(m.focus)
		if idx < 0 {
			return m, nil
		}
		if m.focus == focusFile && msg.String() == "enter" {
			return m.loadFile()
		}
		var cmd tea.Cmd
		m.inputs[idx], cmd = m.inputs[idx].Update(msg)
		m.syncIntake()
		return m, cmd
	}
}

func (m Model) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	result := m.ctrl.Result()
	if result == nil {
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "n":
		if err := m.ctrl.NewPlan(); err == nil {
			m.selectedDay = 0
			m.inputs = nil
		}
		return m, nil

	case "up", "k":
		if m.selectedDay > 1 {
			m.selectedDay--
			m.dayViewport.SetContent(m.renderSchedule())
		}
		return m, nil

	case "down", "j":
		if m.selectedDay < result.TotalDays() {
			m.selectedDay++
			m.dayViewport.SetContent(m.renderSchedule())
		}
		return m, nil

	case "enter", " ":
		m.ctrl.ToggleDay(m.selectedDay)
		m.dayViewport.SetContent(m.renderSchedule())
		return m, nil

	case "pgup", "ctrl+u", "pgdown", "ctrl+d":
		var cmd tea.Cmd
		m.dayViewport, cmd = m.dayViewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// moveFocus shifts the intake focus forward or back and updates widget
// focus states.
func (m Model) moveFocus(forward bool) Model {
	n := m.focusCount()
	if forward {
		m.focus = (m.focus + 1) % n
	} else {
		m.focus = (m.focus + n - 1) % n
	}

	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.notes.Blur()

	if idx := inputIndex(m.focus); idx >= 0 {
		m.inputs[idx].Focus()
	}
	if m.focus == focusNotes {
		m.notes.Focus()
	}
	return m
}

// loadFile resolves the typed path into an attachment and kicks off preview
// derivation for images.
func (m Model) loadFile() (tea.Model, tea.Cmd) {
	st := m.ctrl.Intake()
	if st == nil {
		return m, nil
	}

	path := m.inputs[inputIndex(focusFile)].Value()
	att, err := loadAttachment(path)
	if err != nil {
		m.prompt = "Could not read file: " + err.Error()
		return m, nil
	}

	st.SetFile(att)
	m.prompt = ""
	debug.Logf("tui: selected %s (%s, %d bytes)", att.Name, att.MimeType, len(att.Bytes))

	if att.IsImage() {
		return m, previewCmd(att, previewWidth)
	}
	return m, nil
}

// beginSubmit validates and starts the submission. Rejections surface as a
// prompt, not a phase change.
func (m Model) beginSubmit() (tea.Model, tea.Cmd) {
	m.syncIntake()
	if err := m.ctrl.BeginSubmit(); err != nil {
		switch {
		case errors.Is(err, workflow.ErrNoFile):
			m.prompt = "Please upload a file first!"
		case errors.Is(err, workflow.ErrSubmitInFlight):
			// Ignored: the spinner is already showing.
		default:
			m.prompt = err.Error()
		}
		return m, nil
	}
	m.prompt = ""
	m.submitStart = time.Now()
	return m, tea.Batch(m.submitCmd(), m.spinner.Tick)
}

// syncIntake writes the form widget values through to the intake state.
func (m *Model) syncIntake() {
	st := m.ctrl.Intake()
	if st == nil || len(m.inputs) == 0 {
		return
	}
	st.SetPatientField(intake.FieldAge, m.inputs[1].Value())
	st.SetPatientField(intake.FieldGender, genderOptions[m.genderIdx])
	st.SetPatientField(intake.FieldSurgeryDate, m.inputs[2].Value())
	st.SetPatientField(intake.FieldConditions, m.inputs[3].Value())
	st.SetNotes(m.notes.Value())
}

// submitErrorPrompt maps the submission error taxonomy onto user-facing text.
func submitErrorPrompt(err error) string {
	var svcErr *planclient.ServiceError
	switch {
	case errors.As(err, &svcErr):
		return "Error: " + svcErr.Message
	case errors.Is(err, planclient.ErrTransport):
		return "Cannot connect to the plan service. Make sure it is running and try again."
	case errors.Is(err, planclient.ErrNoFile):
		return "Please upload a file first!"
	default:
		return "Submission failed: " + err.Error()
	}
}
