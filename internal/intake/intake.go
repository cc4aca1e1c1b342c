// Package intake holds the mutable state of an in-progress plan request:
// the uploaded document, structured patient fields, free-text notes and the
// selected availability slots.
package intake

import "strings"

// SlotCatalog is the fixed set of availability slots the user can pick from.
// Order is display order.
var SlotCatalog = []string{
	"Weekday Mornings (7-9 AM)",
	"Weekday Evenings (6-8 PM)",
	"Weekend Mornings (9-11 AM)",
	"Lunch Break (12-1 PM)",
}

// Patient field keys accepted by SetPatientField.
const (
	FieldAge         = "age"
	FieldGender      = "gender"
	FieldSurgeryDate = "surgeryDate"
	FieldConditions  = "conditions"
)

// Attachment is the uploaded discharge summary: raw bytes plus enough
// metadata to ship it to the plan service.
type Attachment struct {
	Name     string
	MimeType string
	Bytes    []byte
}

// IsImage reports whether the attachment has an image mime type and is
// therefore eligible for a preview.
func (a *Attachment) IsImage() bool {
	return a != nil && strings.HasPrefix(a.MimeType, "image/")
}

// PatientInfo carries the structured patient fields. All fields are kept as
// typed by the user; validation happens at submission time, not here.
type PatientInfo struct {
	Age         string
	Gender      string // Male, Female, Other or empty
	SurgeryDate string // ISO date (YYYY-MM-DD) or empty
	Conditions  string
}

// State is the in-progress request. A fresh State is created on entry to the
// intake phase and discarded on return to landing. It is owned by a single
// goroutine; mutations go through the setters below.
type State struct {
	File    *Attachment
	Preview string // renderable preview, images only, derived asynchronously
	Notes   string
	Patient PatientInfo
	Slots   map[string]bool
}

// New returns an empty intake state.
func New() *State {
	return &State{Slots: make(map[string]bool)}
}

// SetFile replaces the selected attachment. A nil attachment clears both the
// file and its preview. A non-image attachment clears any existing preview.
// For images the preview is cleared too: derivation is asynchronous, so there
// is a window where File is set but Preview is not yet ready.
func (s *State) SetFile(att *Attachment) {
	s.File = att
	s.Preview = ""
}

// SetPreview attaches a derived preview. The preview is dropped unless it
// belongs to the currently selected file: a slow derivation for a file the
// user already replaced must leave no residue.
func (s *State) SetPreview(fileName, preview string) {
	if s.File == nil || s.File.Name != fileName || !s.File.IsImage() {
		return
	}
	s.Preview = preview
}

// SetNotes replaces the free-text notes.
func (s *State) SetNotes(text string) {
	s.Notes = text
}

// SetPatientField sets one structured patient field by key. Unknown keys are
// ignored. Values are stored as typed, including invalid ones; the
// submission layer decides what to do with them.
func (s *State) SetPatientField(key, value string) {
	switch key {
	case FieldAge:
		s.Patient.Age = value
	case FieldGender:
		s.Patient.Gender = value
	case FieldSurgeryDate:
		s.Patient.SurgeryDate = value
	case FieldConditions:
		s.Patient.Conditions = value
	}
}

// ToggleSlot flips the selection of one availability slot.
func (s *State) ToggleSlot(label string) {
	if s.Slots == nil {
		s.Slots = make(map[string]bool)
	}
	s.Slots[label] = !s.Slots[label]
}

// SelectedSlots returns the selected slot labels in catalog order.
func (s *State) SelectedSlots() []string {
	var out []string
	for _, label := range SlotCatalog {
		if s.Slots[label] {
			out = append(out, label)
		}
	}
	return out
}

// Reset returns the state to empty, as on entry to the intake phase.
func (s *State) Reset() {
	*s = State{Slots: make(map[string]bool)}
}
