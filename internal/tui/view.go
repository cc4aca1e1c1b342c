package tui

import (
	"fmt"
	"strings"

	"github.com/wholes0meglock/rehab-ai/internal/intake"
	"github.com/wholes0meglock/rehab-ai/internal/plan"
	"github.com/wholes0meglock/rehab-ai/internal/workflow"
)

var sidebarTips = []string{
	"Did you know? Notes like 'knee' or 'shoulder' help the AI pick the right protocol",
	"Did you know? You can pass the file up front with --file",
	"Did you know? `rehabai config show` displays your resolved configuration",
	"Did you know? Selecting time slots schedules sessions around your day",
	"Did you know? REHABAI_SERVER_URL points the client at another service",
}

func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.ctrl.Phase() {
	case workflow.PhaseLanding:
		return m.viewLanding()
	case workflow.PhaseIntake, workflow.PhaseSubmitting:
		return m.viewIntake()
	case workflow.PhaseResult:
		return m.viewResult()
	default:
		return ""
	}
}

func (m Model) viewLanding() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🧠 RehabAI — Your Personal Rehab Assistant"))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render("Upload your discharge summary and get a personalized,"))
	b.WriteString("\n")
	b.WriteString(valueStyle.Render("day-by-day rehabilitation plan that fits your schedule."))
	b.WriteString("\n\n")

	steps := []struct{ title, desc string }{
		{"1. Upload Summary", "Upload your surgical discharge summary as PDF or image."},
		{"2. AI Analysis", "The service identifies your surgery and picks the right protocol."},
		{"3. Daily Schedule", "Get a complete multi-day plan with exercises and safety tips."},
	}
	for _, s := range steps {
		b.WriteString(focusedStyle.Render(s.title))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("   " + s.desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(disclaimerStyle.Render(wrap(
		"Medical Disclaimer: RehabAI is a scheduling and educational tool. "+
			"Always consult your surgeon and physical therapist before starting "+
			"any exercise program.", max(40, m.width-8))))
	b.WriteString("\n")

	if !m.hideTips {
		b.WriteString("\n")
		b.WriteString(tipStyle.Render(sidebarTips[m.tipIndex%len(sidebarTips)]))
		b.WriteString("\n")
	}

	content := boxStyle.Width(max(50, m.width-4)).Render(b.String())
	return content + "\n" + helpStyle.Render("enter: get started • q: quit")
}

func (m Model) viewIntake() string {
	st := m.ctrl.Intake()
	if st == nil || len(m.inputs) == 0 {
		return "Initializing..."
	}
	submitting := m.ctrl.Phase() == workflow.PhaseSubmitting

	var b strings.Builder
	b.WriteString(titleStyle.Render("Create Your Rehab Plan"))
	b.WriteString("\n")

	b.WriteString(m.renderField("Document (PDF or image)", focusFile, m.inputs[0].View()))
	b.WriteString(m.renderFileStatus(st))

	b.WriteString(m.renderField("Age", focusAge, m.inputs[1].View()))
	b.WriteString(m.renderField("Gender", focusGender, m.renderGender()))
	b.WriteString(m.renderField("Surgery Date", focusSurgeryDate, m.inputs[2].View()))
	b.WriteString(m.renderField("Medical Conditions (optional)", focusConditions, m.inputs[3].View()))
	b.WriteString(m.renderField("Additional Notes (optional)", focusNotes, m.notes.View()))

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Your Available Time Slots"))
	b.WriteString("\n")
	for i, slot := range intake.SlotCatalog {
		b.WriteString(checkbox(slot, st.Slots[slot], m.focus == focusSlots+i))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case submitting:
		b.WriteString(okStyle.Render(m.spinner.View() + " Generating your rehab plan... (about 10-15 seconds)"))
	case m.focus == m.focusSubmit():
		b.WriteString(focusedStyle.Render("> [ Generate My Rehab Plan → ]"))
	default:
		b.WriteString(valueStyle.Render("  [ Generate My Rehab Plan → ]"))
	}
	b.WriteString("\n")

	if m.prompt != "" {
		b.WriteString("\n")
		if m.ctrl.LastError() != nil {
			b.WriteString(errorStyle.Render(wrap(m.prompt, max(40, m.width-8))))
		} else {
			b.WriteString(promptStyle.Render(wrap(m.prompt, max(40, m.width-8))))
		}
		b.WriteString("\n")
	}

	content := boxStyle.Width(max(56, m.width-4)).Render(b.String())
	help := "tab: next field • space: toggle • ctrl+s: submit • esc: back • ctrl+c: quit"
	if submitting {
		help = "q: quit"
	}
	return content + "\n" + helpStyle.Render(help)
}

// renderFileStatus shows the selected attachment and, for images, its
// preview once the background derivation delivers one.
func (m Model) renderFileStatus(st *intake.State) string {
	if st.File == nil {
		return labelStyle.Render("  no file selected — type a path and press enter") + "\n"
	}

	var b strings.Builder
	b.WriteString(okStyle.Render(fmt.Sprintf("  ✓ %s (%s, %d KB)", st.File.Name, st.File.MimeType, len(st.File.Bytes)/1024)))
	b.WriteString("\n")
	if st.File.IsImage() {
		if st.Preview != "" {
			b.WriteString(st.Preview)
			b.WriteString("\n")
		} else {
			b.WriteString(labelStyle.Render("  deriving preview..."))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderGender() string {
	var parts []string
	for i, opt := range genderOptions {
		label := opt
		if label == "" {
			label = "Select..."
		}
		if i == m.genderIdx {
			parts = append(parts, focusedStyle.Render("("+label+")"))
		} else {
			parts = append(parts, labelStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderField(label string, focus int, widget string) string {
	var b strings.Builder
	if m.focus == focus {
		b.WriteString(focusedStyle.Render("▸ " + label))
	} else {
		b.WriteString(labelStyle.Render("  " + label))
	}
	b.WriteString("\n")
	for _, line := range strings.Split(widget, "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (m Model) viewResult() string {
	result := m.ctrl.Result()
	if result == nil {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Your Rehab Plan"))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Procedure: "))
	b.WriteString(valueStyle.Render(result.ProcedureIdentified))
	b.WriteString("   ")
	b.WriteString(labelStyle.Render("Day "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d", result.DaysPostOp)))
	b.WriteString(labelStyle.Render(" post-op"))
	b.WriteString("\n")

	if len(result.SafetyNotes) > 0 {
		b.WriteString("\n")
		b.WriteString(safetyStyle.Render("Safety Notes"))
		b.WriteString("\n")
		for _, note := range result.SafetyNotes {
			b.WriteString(safetyStyle.Render("  ⚠ " + note))
			b.WriteString("\n")
		}
	}

	header := boxStyle.Width(max(56, m.width-4)).Render(b.String())
	schedule := scheduleBoxStyle.Width(max(56, m.width-4)).Render(m.dayViewport.View())
	help := helpStyle.Render("↑/↓: select day • enter: expand/collapse • pgup/pgdn: scroll • n: new plan • q: quit")

	return header + "\n" + schedule + "\n" + help
}

// renderSchedule builds the day list for the result viewport. Exactly one
// day can be expanded; its sessions are rendered as markdown through glamour.
func (m Model) renderSchedule() string {
	result := m.ctrl.Result()
	if result == nil {
		return ""
	}

	var b strings.Builder
	expanded := m.ctrl.ExpandedDay()

	for i := range result.Schedule {
		day := &result.Schedule[i]

		marker := "  "
		if day.Day == m.selectedDay {
			marker = "> "
		}
		line := fmt.Sprintf("%sDay %d — %s (%d exercises, %.0f min)",
			marker, day.Day, day.Date, day.ExerciseCount(), day.TotalMinutes())

		switch {
		case day.Day == expanded:
			b.WriteString(expandedDayStyle.Render("▼ " + line[2:]))
			b.WriteString("\n")
			b.WriteString(m.renderDayDetail(day))
		case day.Day == m.selectedDay:
			b.WriteString(focusedStyle.Render("▶ " + line[2:]))
			b.WriteString("\n")
		default:
			b.WriteString(labelStyle.Render("▶ " + line[2:]))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderDayDetail renders one day's sessions as markdown, via glamour when
// the renderer is ready.
func (m Model) renderDayDetail(day *plan.DayPlan) string {
	md := dayMarkdown(day)
	if m.renderer != nil {
		if out, err := m.renderer.Render(md); err == nil {
			return out
		}
	}
	return md + "\n"
}

// dayMarkdown formats a day's sessions in received order.
func dayMarkdown(day *plan.DayPlan) string {
	var b strings.Builder

	if len(day.Sessions) == 0 {
		b.WriteString("_Rest day — no sessions scheduled._\n")
		return b.String()
	}

	for _, s := range day.Sessions {
		title := s.Time
		if s.Type != "" {
			title = fmt.Sprintf("%s (%s)", s.Time, s.Type)
		}
		fmt.Fprintf(&b, "### %s\n\n", title)

		for _, ex := range s.Exercises {
			fmt.Fprintf(&b, "**%s** — %s, %.0f min\n\n", ex.Name, ex.Reps, ex.DurationMinutes)
			for i, step := range ex.Steps {
				fmt.Fprintf(&b, "%d. %s\n", i+1, step)
			}
			if len(ex.Steps) > 0 {
				b.WriteString("\n")
			}
			for _, p := range ex.Precautions {
				fmt.Fprintf(&b, "> ⚠ %s\n", p)
			}
			if len(ex.Precautions) > 0 {
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// wrap soft-wraps text at the given width, preserving words.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var b strings.Builder
	lineLen := 0
	for _, word := range strings.Fields(text) {
		if lineLen > 0 && lineLen+1+len(word) > width {
			b.WriteString("\n")
			lineLen = 0
		} else if lineLen > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return b.String()
}
