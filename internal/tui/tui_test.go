package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wholes0meglock/rehab-ai/internal/intake"
	"github.com/wholes0meglock/rehab-ai/internal/plan"
	"github.com/wholes0meglock/rehab-ai/internal/planclient"
	"github.com/wholes0meglock/rehab-ai/internal/workflow"
)

func testPlan() *plan.Plan {
	return &plan.Plan{
		ProcedureIdentified: "ACL Reconstruction",
		DaysPostOp:          14,
		SafetyNotes:         []string{"No pivoting movements"},
		Schedule: []plan.DayPlan{
			{Day: 1, Date: "2026-08-29", Sessions: []plan.Session{
				{Time: "09:00", Exercises: []plan.Exercise{
					{Name: "Heel Slides", Reps: "3x10", DurationMinutes: 10,
						Steps: []string{"Lie on your back", "Slide the heel toward you"}},
				}},
			}},
			{Day: 2, Date: "2026-08-30"},
			{Day: 3, Date: "2026-08-31", Sessions: []plan.Session{
				{Time: "18:00", Exercises: []plan.Exercise{
					{Name: "Quad Sets", Reps: "3x15", DurationMinutes: 5},
				}},
			}},
		},
	}
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// update sends one message and re-asserts the concrete model type.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	next, ok := updated.(Model)
	require.True(t, ok, "Update should return a tui.Model")
	return next, cmd
}

// sized returns a fresh model that has already seen a window size, so views
// render and the viewport exists.
func sized(t *testing.T, opts Options) Model {
	t.Helper()
	m := NewModel(opts)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestNewModel(t *testing.T) {
	m := NewModel(Options{Timeout: 30 * time.Second})

	if m.ctrl == nil {
		t.Fatal("controller should not be nil")
	}
	if m.ctrl.Phase() != workflow.PhaseLanding {
		t.Errorf("phase = %v, want PhaseLanding", m.ctrl.Phase())
	}
	assert.Equal(t, 30*time.Second, m.timeout)
}

func TestModelInit(t *testing.T) {
	m := NewModel(Options{})

	cmd := m.Init()

	if cmd == nil {
		t.Error("Init() should return a command")
	}
}

func TestLandingEnterStartsIntake(t *testing.T) {
	m := sized(t, Options{})

	m, _ = update(t, m, keyMsg("enter"))

	assert.Equal(t, workflow.PhaseIntake, m.ctrl.Phase())
	require.Len(t, m.inputs, 4)
	assert.Equal(t, focusFile, m.focus)
}

func TestIntakeEscReturnsToLanding(t *testing.T) {
	m := sized(t, Options{})
	m, _ = update(t, m, keyMsg("enter"))

	m, _ = update(t, m, keyMsg("esc"))

	assert.Equal(t, workflow.PhaseLanding, m.ctrl.Phase())
	assert.Nil(t, m.ctrl.Intake())
}

func TestSubmitWithoutFileShowsPrompt(t *testing.T) {
	m := sized(t, Options{})
	m, _ = update(t, m, keyMsg("enter"))

	m, cmd := update(t, m, keyMsg("ctrl+s"))

	assert.Equal(t, workflow.PhaseIntake, m.ctrl.Phase())
	assert.Equal(t, "Please upload a file first!", m.prompt)
	assert.Nil(t, cmd)
}

func TestSubmitWithFileEntersSubmitting(t *testing.T) {
	m := sized(t, Options{Timeout: time.Second})
	m, _ = update(t, m, keyMsg("enter"))
	m.ctrl.Intake().SetFile(&intake.Attachment{
		Name:     "summary.pdf",
		MimeType: "application/pdf",
		Bytes:    []byte("%PDF-1.4"),
	})

	m, cmd := update(t, m, keyMsg("ctrl+s"))

	assert.Equal(t, workflow.PhaseSubmitting, m.ctrl.Phase())
	assert.Empty(t, m.prompt)
	if cmd == nil {
		t.Error("expected a submission command")
	}
}

func TestSubmittingIgnoresFormKeys(t *testing.T) {
	m := sized(t, Options{Timeout: time.Second})
	m, _ = update(t, m, keyMsg("enter"))
	m.ctrl.Intake().SetFile(&intake.Attachment{Name: "a.pdf", MimeType: "application/pdf"})
	m, _ = update(t, m, keyMsg("ctrl+s"))

	for _, key := range []string{"esc", "ctrl+s", "tab", "x"} {
		m, _ = update(t, m, keyMsg(key))
		assert.Equal(t, workflow.PhaseSubmitting, m.ctrl.Phase(), "key %q should be ignored", key)
	}
}

func TestSubmitDoneSuccessShowsResult(t *testing.T) {
	m := sized(t, Options{Timeout: time.Second})
	m, _ = update(t, m, keyMsg("enter"))
	m.ctrl.Intake().SetFile(&intake.Attachment{Name: "a.pdf", MimeType: "application/pdf"})
	m, _ = update(t, m, keyMsg("ctrl+s"))

	m, _ = update(t, m, submitDoneMsg{plan: testPlan()})

	assert.Equal(t, workflow.PhaseResult, m.ctrl.Phase())
	require.NotNil(t, m.ctrl.Result())
	assert.Equal(t, 1, m.ctrl.ExpandedDay())
	assert.Equal(t, 1, m.selectedDay)
}

func TestSubmitDoneFailureReturnsToIntake(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantPrompt string
	}{
		{
			name:       "service rejection is shown verbatim",
			err:        &planclient.ServiceError{Message: "Could not identify the procedure"},
			wantPrompt: "Error: Could not identify the procedure",
		},
		{
			name:       "transport failure suggests checking the service",
			err:        planclient.ErrTransport,
			wantPrompt: "Cannot connect to the plan service. Make sure it is running and try again.",
		},
		{
			name:       "wrapped transport failure is recognized",
			err:        errors.Join(errors.New("post failed"), planclient.ErrTransport),
			wantPrompt: "Cannot connect to the plan service. Make sure it is running and try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sized(t, Options{Timeout: time.Second})
			m, _ = update(t, m, keyMsg("enter"))
			m.ctrl.Intake().SetFile(&intake.Attachment{Name: "a.pdf", MimeType: "application/pdf"})
			m.ctrl.Intake().SetNotes("pain on extension")
			m, _ = update(t, m, keyMsg("ctrl+s"))

			m, _ = update(t, m, submitDoneMsg{err: tt.err})

			assert.Equal(t, workflow.PhaseIntake, m.ctrl.Phase())
			assert.Equal(t, tt.wantPrompt, m.prompt)
			// A failed attempt must not cost the user their intake.
			require.NotNil(t, m.ctrl.Intake())
			assert.Equal(t, "pain on extension", m.ctrl.Intake().Notes)
			assert.NotNil(t, m.ctrl.Intake().File)
		})
	}
}

func TestSubmitDoneIgnoredOutsideSubmitting(t *testing.T) {
	m := sized(t, Options{})

	m, _ = update(t, m, submitDoneMsg{plan: testPlan()})

	assert.Equal(t, workflow.PhaseLanding, m.ctrl.Phase())
	assert.Nil(t, m.ctrl.Result())
}

func TestStalePreviewDropped(t *testing.T) {
	m := sized(t, Options{})
	m, _ = update(t, m, keyMsg("enter"))
	st := m.ctrl.Intake()
	st.SetFile(&intake.Attachment{Name: "old.png", MimeType: "image/png"})
	st.SetFile(&intake.Attachment{Name: "new.png", MimeType: "image/png"})

	m, _ = update(t, m, previewReadyMsg{fileName: "old.png", preview: "stale"})
	assert.Empty(t, st.Preview)

	m, _ = update(t, m, previewReadyMsg{fileName: "new.png", preview: "fresh"})
	assert.Equal(t, "fresh", st.Preview)
}

func TestGenderSelectorCycles(t *testing.T) {
	m := sized(t, Options{})
	m, _ = update(t, m, keyMsg("enter"))

	m, _ = update(t, m, keyMsg("tab")) // age
	m, _ = update(t, m, keyMsg("tab")) // gender
	require.Equal(t, focusGender, m.focus)

	m, _ = update(t, m, keyMsg(" "))
	assert.Equal(t, "Male", m.ctrl.Intake().Patient.Gender)

	m, _ = update(t, m, keyMsg(" "))
	assert.Equal(t, "Female", m.ctrl.Intake().Patient.Gender)
}

func TestSlotToggleFromKeyboard(t *testing.T) {
	m := sized(t, Options{})
	m, _ = update(t, m, keyMsg("enter"))
	m.focus = focusSlots // first slot

	m, _ = update(t, m, keyMsg(" "))
	assert.Equal(t, []string{intake.SlotCatalog[0]}, m.ctrl.Intake().SelectedSlots())

	m, _ = update(t, m, keyMsg("enter"))
	assert.Empty(t, m.ctrl.Intake().SelectedSlots())
}

func TestResultDayNavigation(t *testing.T) {
	m := sized(t, Options{Timeout: time.Second})
	m, _ = update(t, m, keyMsg("enter"))
	m.ctrl.Intake().SetFile(&intake.Attachment{Name: "a.pdf", MimeType: "application/pdf"})
	m, _ = update(t, m, keyMsg("ctrl+s"))
	m, _ = update(t, m, submitDoneMsg{plan: testPlan()})
	require.Equal(t, workflow.PhaseResult, m.ctrl.Phase())

	m, _ = update(t, m, keyMsg("down"))
	assert.Equal(t, 2, m.selectedDay)

	m, _ = update(t, m, keyMsg("down"))
	m, _ = update(t, m, keyMsg("down")) // clamped at the last day
	assert.Equal(t, 3, m.selectedDay)

	m, _ = update(t, m, keyMsg("up"))
	assert.Equal(t, 2, m.selectedDay)

	// Expanding the selected day collapses the previous one.
	m, _ = update(t, m, keyMsg("enter"))
	assert.Equal(t, 2, m.ctrl.ExpandedDay())
	m, _ = update(t, m, keyMsg("enter"))
	assert.Equal(t, 0, m.ctrl.ExpandedDay())
}

func TestNewPlanKeyResetsEverything(t *testing.T) {
	m := sized(t, Options{Timeout: time.Second})
	m, _ = update(t, m, keyMsg("enter"))
	m.ctrl.Intake().SetFile(&intake.Attachment{Name: "a.pdf", MimeType: "application/pdf"})
	m, _ = update(t, m, keyMsg("ctrl+s"))
	m, _ = update(t, m, submitDoneMsg{plan: testPlan()})

	m, _ = update(t, m, keyMsg("n"))

	assert.Equal(t, workflow.PhaseLanding, m.ctrl.Phase())
	assert.Nil(t, m.ctrl.Intake())
	assert.Nil(t, m.ctrl.Result())
	assert.Equal(t, 0, m.ctrl.ExpandedDay())
}

func TestPrefill(t *testing.T) {
	m := NewModel(Options{})

	err := m.Prefill("", "walked without crutches today")
	require.NoError(t, err)

	assert.Equal(t, workflow.PhaseIntake, m.ctrl.Phase())
	assert.Equal(t, "walked without crutches today", m.ctrl.Intake().Notes)
}

func TestViewPerPhase(t *testing.T) {
	m := sized(t, Options{Timeout: time.Second})

	out := m.View()
	assert.Contains(t, out, "RehabAI")
	assert.Contains(t, out, "Medical Disclaimer")

	m, _ = update(t, m, keyMsg("enter"))
	out = m.View()
	assert.Contains(t, out, "Create Your Rehab Plan")
	assert.Contains(t, out, intake.SlotCatalog[0])

	m.ctrl.Intake().SetFile(&intake.Attachment{Name: "a.pdf", MimeType: "application/pdf"})
	m, _ = update(t, m, keyMsg("ctrl+s"))
	out = m.View()
	if !strings.Contains(out, "Generating") {
		t.Errorf("submitting view should show progress, got:\n%s", out)
	}

	m, _ = update(t, m, submitDoneMsg{plan: testPlan()})
	out = m.View()
	assert.Contains(t, out, "ACL Reconstruction")
	assert.Contains(t, out, "No pivoting movements")
}

func TestViewBeforeFirstWindowSize(t *testing.T) {
	m := NewModel(Options{})

	assert.Equal(t, "Initializing...", m.View())
}

func TestSubmitErrorPrompt(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "no file",
			err:  planclient.ErrNoFile,
			want: "Please upload a file first!",
		},
		{
			name: "unknown error falls through",
			err:  errors.New("boom"),
			want: "Submission failed: boom",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, submitErrorPrompt(tc.err))
		})
	}
}
