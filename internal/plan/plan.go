// Package plan defines the rehabilitation plan structure returned by the
// generation service. The client treats the plan as opaque beyond structural
// navigation: every ordering (schedule, sessions, exercises, steps,
// precautions) is display order and is preserved exactly as received.
package plan

// Plan is a generated multi-day rehabilitation schedule.
type Plan struct {
	ProcedureIdentified string    `json:"procedure_identified"`
	CurrentPhase        string    `json:"current_phase,omitempty"`
	DaysPostOp          int       `json:"days_post_op"`
	SafetyNotes         []string  `json:"safety_notes"`
	Schedule            []DayPlan `json:"schedule"`
}

// DayPlan is a single day of the schedule. Day numbers are unique and
// contiguous from 1; Date is an ISO calendar date (YYYY-MM-DD).
type DayPlan struct {
	Day      int       `json:"day"`
	Date     string    `json:"date"`
	Phase    string    `json:"phase,omitempty"`
	Sessions []Session `json:"sessions"`
}

// Session is one exercise session within a day.
type Session struct {
	Time      string     `json:"time"`
	Type      string     `json:"type,omitempty"` // morning, evening
	Exercises []Exercise `json:"exercises"`
}

// Exercise is a single exercise with its instructions.
type Exercise struct {
	Name            string   `json:"name"`
	Reps            string   `json:"reps"`
	DurationMinutes float64  `json:"duration_minutes"`
	Steps           []string `json:"steps"`
	Precautions     []string `json:"precautions"`
}

// TotalDays returns the number of days in the schedule.
func (p *Plan) TotalDays() int {
	return len(p.Schedule)
}

// Day returns the day plan with the given day number, or nil. Lookup only,
// the schedule itself is never reordered.
func (p *Plan) Day(n int) *DayPlan {
	for i := range p.Schedule {
		if p.Schedule[i].Day == n {
			return &p.Schedule[i]
		}
	}
	return nil
}

// TotalMinutes sums the exercise durations across all sessions of the day.
func (d *DayPlan) TotalMinutes() float64 {
	var total float64
	for _, s := range d.Sessions {
		for _, ex := range s.Exercises {
			total += ex.DurationMinutes
		}
	}
	return total
}

// ExerciseCount returns the number of exercises scheduled for the day.
func (d *DayPlan) ExerciseCount() int {
	n := 0
	for _, s := range d.Sessions {
		n += len(s.Exercises)
	}
	return n
}
