// Package workflow owns the client's phase state machine: Landing, Intake,
// Submitting, Result. All transitions are pure and synchronous; the single
// intake state and the received plan live here, and accessors guard them by
// phase so result data cannot be reached from the intake phase.
package workflow

import (
	"errors"
	"fmt"

	"github.com/wholes0meglock/rehab-ai/internal/intake"
	"github.com/wholes0meglock/rehab-ai/internal/plan"
)

// Phase is the discrete stage of the workflow.
type Phase int

const (
	PhaseLanding Phase = iota
	PhaseIntake
	PhaseSubmitting
	PhaseResult
)

func (p Phase) String() string {
	switch p {
	case PhaseLanding:
		return "landing"
	case PhaseIntake:
		return "intake"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResult:
		return "result"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	// ErrNoFile rejects a submit attempt without an attachment. Surfaced
	// as a user-facing prompt, never a transition.
	ErrNoFile = errors.New("select a file before submitting")

	// ErrSubmitInFlight rejects a second submit while one is outstanding.
	ErrSubmitInFlight = errors.New("a submission is already in progress")

	errWrongPhase = errors.New("action not valid in current phase")
)

// Controller mediates phase transitions and owns the per-phase data.
type Controller struct {
	phase       Phase
	intakeState *intake.State
	result      *plan.Plan
	expandedDay int // 0 = none, meaningful only in PhaseResult
	lastErr     error
}

// New returns a controller in the landing phase.
func New() *Controller {
	return &Controller{phase: PhaseLanding}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Intake returns the editable intake state, or nil outside the intake and
// submitting phases.
func (c *Controller) Intake() *intake.State {
	if c.phase != PhaseIntake && c.phase != PhaseSubmitting {
		return nil
	}
	return c.intakeState
}

// Result returns the received plan, or nil outside the result phase.
func (c *Controller) Result() *plan.Plan {
	if c.phase != PhaseResult {
		return nil
	}
	return c.result
}

// ExpandedDay returns the currently expanded day number, or 0 when no day is
// expanded or the controller is not in the result phase.
func (c *Controller) ExpandedDay() int {
	if c.phase != PhaseResult {
		return 0
	}
	return c.expandedDay
}

// LastError returns the error recorded by the most recent failed submission,
// cleared on the next transition out of the intake phase.
func (c *Controller) LastError() error {
	return c.lastErr
}

// Start moves Landing -> Intake with a fresh empty intake state.
func (c *Controller) Start() error {
	if c.phase != PhaseLanding {
		return errWrongPhase
	}
	c.phase = PhaseIntake
	c.intakeState = intake.New()
	c.lastErr = nil
	return nil
}

// BeginSubmit moves Intake -> Submitting. Rejected without a transition when
// no file is selected or a submission is already in flight.
func (c *Controller) BeginSubmit() error {
	switch c.phase {
	case PhaseSubmitting:
		return ErrSubmitInFlight
	case PhaseIntake:
	default:
		return errWrongPhase
	}
	if c.intakeState.File == nil {
		return ErrNoFile
	}
	c.phase = PhaseSubmitting
	c.lastErr = nil
	return nil
}

// Complete moves Submitting -> Result with the received plan. The first day
// starts expanded.
func (c *Controller) Complete(p *plan.Plan) error {
	if c.phase != PhaseSubmitting {
		return errWrongPhase
	}
	c.phase = PhaseResult
	c.result = p
	c.expandedDay = 1
	return nil
}

// Fail moves Submitting -> Intake. The intake state is kept intact so the
// user can correct and resubmit; the error is recorded for display.
func (c *Controller) Fail(err error) error {
	if c.phase != PhaseSubmitting {
		return errWrongPhase
	}
	c.phase = PhaseIntake
	c.lastErr = err
	return nil
}

// Back moves Intake -> Landing, discarding the intake state.
func (c *Controller) Back() error {
	if c.phase != PhaseIntake {
		return errWrongPhase
	}
	c.phase = PhaseLanding
	c.intakeState = nil
	c.lastErr = nil
	return nil
}

// NewPlan moves Result -> Landing, discarding the plan, the intake state and
// any day-expansion state.
func (c *Controller) NewPlan() error {
	if c.phase != PhaseResult {
		return errWrongPhase
	}
	c.phase = PhaseLanding
	c.result = nil
	c.intakeState = nil
	c.expandedDay = 0
	c.lastErr = nil
	return nil
}

// ToggleDay expands day n, or collapses it when it is already expanded. At
// most one day is expanded at a time. Pure local state, result phase only.
func (c *Controller) ToggleDay(n int) {
	if c.phase != PhaseResult {
		return
	}
	if c.expandedDay == n {
		c.expandedDay = 0
		return
	}
	c.expandedDay = n
}
